// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"blogapi/internal/database"
	"blogapi/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated, isolated in-memory SQLite database with
// foreign keys enforced.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with the given username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    username + "@blog.com",
		Username: username,
		Name:     username,
		Role:     models.RoleAuthor,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// PostOption customizes a post built by CreatePost.
type PostOption func(*models.Post)

// Published marks the post published at the given time.
func Published(at time.Time) PostOption {
	return func(p *models.Post) {
		p.Status = models.PostStatusPublished
		p.PublishedAt = &at
	}
}

// Featured flags the post as featured.
func Featured() PostOption {
	return func(p *models.Post) { p.Featured = true }
}

// WithTags attaches tags to the post.
func WithTags(names ...string) PostOption {
	return func(p *models.Post) {
		for _, n := range names {
			p.Tags = append(p.Tags, models.Tag{Name: n})
		}
	}
}

// WithContent overrides the post body.
func WithContent(content string) PostOption {
	return func(p *models.Post) { p.Content = content }
}

// CreatePost inserts a draft post by author unless options say otherwise.
// Tags that already exist are reused.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, title string, opts ...PostOption) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    title,
		Slug:     models.Slugify(title),
		Content:  "Content of " + title,
		Status:   models.PostStatusDraft,
		AuthorID: author.ID,
	}
	for _, opt := range opts {
		opt(post)
	}
	for i := range post.Tags {
		require.NoError(t, db.Where(models.Tag{Name: post.Tags[i].Name}).FirstOrCreate(&post.Tags[i]).Error)
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// CreateComment inserts a comment on post, optionally as a reply to parent.
func CreateComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, parent *models.Comment, content string, status models.CommentStatus) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Content:  content,
		Status:   status,
		AuthorID: author.ID,
		PostID:   post.ID,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
