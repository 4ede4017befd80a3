// Package seed loads demo data into the blog database. It is intended for
// development and testing only.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/service"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures/blog.yml
var defaultFixture []byte

// Fixture is a complete demo dataset. Posts and comments refer to users and
// posts by key.
type Fixture struct {
	Users    []UserFixture    `yaml:"users"`
	Posts    []PostFixture    `yaml:"posts"`
	Comments []CommentFixture `yaml:"comments"`
}

type UserFixture struct {
	Key      string `yaml:"key"`
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Bio      string `yaml:"bio"`
	Avatar   string `yaml:"avatar"`
	Role     string `yaml:"role"`
}

type PostFixture struct {
	Key         string   `yaml:"key"`
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Content     string   `yaml:"content"`
	Excerpt     string   `yaml:"excerpt"`
	Image       string   `yaml:"image"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags"`
	Views       int64    `yaml:"views"`
	Status      string   `yaml:"status"`
	Featured    bool     `yaml:"featured"`
	PublishedAt string   `yaml:"publishedAt"`
}

// CommentFixture is a comment with its reply subtree. Post is only read on
// top-level comments; replies inherit their parent's post.
type CommentFixture struct {
	Post    string           `yaml:"post"`
	Author  string           `yaml:"author"`
	Status  string           `yaml:"status"`
	Content string           `yaml:"content"`
	Replies []CommentFixture `yaml:"replies"`
}

// Result counts what a seeding run created.
type Result struct {
	Users    int
	Posts    int
	Comments int
}

// ParseFixture decodes a YAML dataset.
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fx, nil
}

// DefaultFixture returns the bundled demo dataset.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixtureFile reads a dataset from disk.
func LoadFixtureFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// Seeder writes fixtures through the repositories and services.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	comments *service.CommentService
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	return &Seeder{
		db:       db,
		users:    users,
		posts:    posts,
		comments: service.NewCommentService(repository.NewCommentRepository(db), posts, users),
	}
}

// ClearAll deletes every row, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.Info("Clearing existing data")
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replies before their parents keeps the self-referencing FK satisfied.
		if err := tx.Exec("DELETE FROM comments WHERE parent_id IS NOT NULL").Error; err != nil {
			return fmt.Errorf("clear replies: %w", err)
		}
		for _, table := range []string{"comments", "post_tags", "posts", "tags", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Apply inserts fx. Slugs, view counts and publish dates are taken from the
// fixture as written.
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) (*Result, error) {
	res := &Result{}

	userIDs := make(map[string]uint, len(fx.Users))
	for _, uf := range fx.Users {
		role := models.Role(uf.Role)
		if role == "" {
			role = models.RoleUser
		}
		if !role.Valid() {
			return res, fmt.Errorf("user %q: unknown role %q", uf.Key, uf.Role)
		}
		user := &models.User{
			Email:    uf.Email,
			Username: uf.Username,
			Name:     uf.Name,
			Bio:      uf.Bio,
			Avatar:   uf.Avatar,
			Role:     role,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return res, fmt.Errorf("create user %q: %w", uf.Key, err)
		}
		userIDs[uf.Key] = user.ID
		res.Users++
	}
	middleware.Logger.Info("Seeded users", slog.Int("count", res.Users))

	postIDs := make(map[string]uint, len(fx.Posts))
	for _, pf := range fx.Posts {
		post, err := buildPost(pf, userIDs)
		if err != nil {
			return res, err
		}
		if err := s.posts.Create(ctx, post, pf.Tags); err != nil {
			return res, fmt.Errorf("create post %q: %w", pf.Key, err)
		}
		postIDs[pf.Key] = post.ID
		res.Posts++
	}
	middleware.Logger.Info("Seeded posts", slog.Int("count", res.Posts))

	for _, cf := range fx.Comments {
		postID, ok := postIDs[cf.Post]
		if !ok {
			return res, fmt.Errorf("comment references unknown post %q", cf.Post)
		}
		if err := s.applyComment(ctx, cf, postID, nil, userIDs, res); err != nil {
			return res, err
		}
	}
	middleware.Logger.Info("Seeded comments", slog.Int("count", res.Comments))

	return res, nil
}

func (s *Seeder) applyComment(ctx context.Context, cf CommentFixture, postID uint, parentID *uint, userIDs map[string]uint, res *Result) error {
	authorID, ok := userIDs[cf.Author]
	if !ok {
		return fmt.Errorf("comment references unknown user %q", cf.Author)
	}
	comment, err := s.comments.CreateComment(ctx, service.CreateCommentInput{
		Content:  cf.Content,
		AuthorID: authorID,
		PostID:   postID,
		ParentID: parentID,
		Status:   cf.Status,
	})
	if err != nil {
		return fmt.Errorf("create comment %q: %w", cf.Content, err)
	}
	res.Comments++

	for _, reply := range cf.Replies {
		if err := s.applyComment(ctx, reply, postID, &comment.ID, userIDs, res); err != nil {
			return err
		}
	}
	return nil
}

func buildPost(pf PostFixture, userIDs map[string]uint) (*models.Post, error) {
	authorID, ok := userIDs[pf.Author]
	if !ok {
		return nil, fmt.Errorf("post %q references unknown user %q", pf.Key, pf.Author)
	}

	status := models.PostStatus(pf.Status)
	if status == "" {
		status = models.PostStatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("post %q: unknown status %q", pf.Key, pf.Status)
	}

	slug := pf.Slug
	if slug == "" {
		slug = models.Slugify(pf.Title)
	}

	post := &models.Post{
		Title:    pf.Title,
		Slug:     slug,
		Content:  pf.Content,
		Views:    pf.Views,
		Status:   status,
		Featured: pf.Featured,
		AuthorID: authorID,
	}
	if pf.Excerpt != "" {
		excerpt := pf.Excerpt
		post.Excerpt = &excerpt
	}
	if pf.Image != "" {
		image := pf.Image
		post.Image = &image
	}
	if pf.PublishedAt != "" {
		at, err := time.Parse("2006-01-02", pf.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("post %q: publishedAt: %w", pf.Key, err)
		}
		at = at.UTC()
		post.PublishedAt = &at
	}
	return post, nil
}
