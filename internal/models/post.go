package models

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post represents a blog article.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Excerpt     *string    `gorm:"type:text" json:"excerpt"`
	Image       *string    `json:"image"`
	Tags        []Tag      `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Views       int64      `gorm:"not null;default:0" json:"views"`
	Status      PostStatus `gorm:"type:varchar(16);not null;default:DRAFT;index" json:"status"`
	Featured    bool       `gorm:"not null;default:false;index" json:"featured"`
	PublishedAt *time.Time `gorm:"index" json:"publishedAt"`
	AuthorID    uint       `gorm:"not null;index" json:"authorId"`
	Author      *Author    `gorm:"foreignKey:AuthorID;-:migration" json:"author,omitempty"`
	Comments    []Comment  `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// CommentCount is computed at query time.
	CommentCount int64       `gorm:"->;-:migration" json:"-"`
	Count        *PostCounts `gorm:"-" json:"_count,omitempty"`
}

// PostCounts is the aggregate block rendered as "_count" on post listings.
type PostCounts struct {
	Comments int64 `json:"comments"`
}

// TagNames returns the post's tags as plain strings.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Tag is a label attached to posts. It serializes as its bare name.
type Tag struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Name)
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.Name)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming hyphens at both ends.
// "Hello, World!" becomes "hello-world".
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// NormalizeTags trims, drops empties and de-duplicates tag names, keeping
// first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
