// Package models contains data structures for the blog's domain models.
package models

import "time"

// Role is the stored user role. It is never enforced by the API.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleAuthor Role = "AUTHOR"
	RoleUser   Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuthor, RoleUser:
		return true
	}
	return false
}

// User represents a blog account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Name      string    `json:"name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Avatar    string    `json:"avatar"`
	Role      Role      `gorm:"type:varchar(16);not null;default:USER" json:"role"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Posts and Comments exist only to declare the cascading foreign keys.
	Posts    []Post    `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	// PostCount and CommentCount are computed at query time.
	PostCount    int64       `gorm:"->;-:migration" json:"-"`
	CommentCount int64       `gorm:"->;-:migration" json:"-"`
	Count        *UserCounts `gorm:"-" json:"_count,omitempty"`
}

// UserCounts is the aggregate block rendered as "_count" on user listings.
type UserCounts struct {
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
}

// Author is the public projection of a user embedded in posts and comments.
type Author struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio,omitempty"`
}

// TableName maps Author onto the users table.
func (Author) TableName() string { return "users" }

// UserDetail is a user together with their most recent activity.
type UserDetail struct {
	User
	Posts    []PostSummary `json:"posts"`
	Comments []UserComment `json:"comments"`
}

// PostSummary is the slim post shape listed on a user profile.
type PostSummary struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (PostSummary) TableName() string { return "posts" }

// UserComment is a comment listed on a user profile, with the post it belongs to.
type UserComment struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	PostID    uint      `json:"-"`
	Post      *PostRef  `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

func (UserComment) TableName() string { return "comments" }

// PostRef identifies a post by title and slug.
type PostRef struct {
	ID    uint   `json:"-"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func (PostRef) TableName() string { return "posts" }
