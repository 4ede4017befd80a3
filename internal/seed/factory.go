package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var fakeTags = []string{"go", "typescript", "database", "api", "backend", "frontend", "devops", "testing", "career", "design"}

// Factory generates random users, posts and comments through the service
// layer so every generated row passes the same validation as API input.
type Factory struct {
	faker    *gofakeit.Faker
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	return &Factory{
		faker:    gofakeit.New(seed),
		users:    service.NewUserService(userRepo),
		posts:    service.NewPostService(postRepo, userRepo),
		comments: service.NewCommentService(repository.NewCommentRepository(db), postRepo, userRepo),
	}
}

// Generate creates n users, each with a few posts. Published posts get
// comments and replies from random users.
func (f *Factory) Generate(ctx context.Context, n int) (*Result, error) {
	res := &Result{}
	if n <= 0 {
		return res, nil
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := f.User(ctx)
		if err != nil {
			return res, err
		}
		users = append(users, user)
		res.Users++
	}

	for _, author := range users {
		for i := f.faker.Number(1, 3); i > 0; i-- {
			post, err := f.Post(ctx, author)
			if err != nil {
				var appErr *models.AppError
				if errors.As(err, &appErr) && appErr.Code == models.CodeConflict {
					continue
				}
				return res, err
			}
			res.Posts++

			if post.Status != models.PostStatusPublished {
				continue
			}
			created, err := f.Discussion(ctx, post, users)
			res.Comments += created
			if err != nil {
				return res, err
			}
		}
	}

	middleware.Logger.Info("Generated fake data",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}

// User creates one random user. Usernames carry a random suffix drawn outside
// the seeded faker so repeated runs with the same seed do not collide.
func (f *Factory) User(ctx context.Context) (*models.User, error) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	username := fmt.Sprintf("%s_%s", strings.ToLower(f.faker.Username()), suffix)
	role := f.faker.RandomString([]string{string(models.RoleAuthor), string(models.RoleUser)})

	user, err := f.users.CreateUser(ctx, service.CreateUserInput{
		Email:    fmt.Sprintf("%s@%s", username, f.faker.DomainName()),
		Username: username,
		Name:     f.faker.Name(),
		Bio:      f.faker.Sentence(8),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("create fake user: %w", err)
	}
	return user, nil
}

// Post creates one random post by author. Roughly three in four are published.
func (f *Factory) Post(ctx context.Context, author *models.User) (*models.Post, error) {
	status := models.PostStatusDraft
	if f.faker.Number(1, 4) > 1 {
		status = models.PostStatusPublished
	}
	excerpt := f.faker.Sentence(12)
	image := fmt.Sprintf("https://picsum.photos/seed/%s/800/400", f.faker.UUID())

	tags := make([]string, 0, 3)
	for i := f.faker.Number(0, 3); i > 0; i-- {
		tags = append(tags, f.faker.RandomString(fakeTags))
	}

	return f.posts.CreatePost(ctx, service.CreatePostInput{
		Title:    strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 8)), "."),
		Content:  f.faker.Paragraph(3, 4, 12, "\n\n"),
		AuthorID: author.ID,
		Excerpt:  &excerpt,
		Image:    &image,
		Tags:     tags,
		Status:   string(status),
		Featured: f.faker.Number(1, 5) == 1,
	})
}

// Discussion adds up to three top-level comments to post, some with a reply.
// It returns how many comments were created.
func (f *Factory) Discussion(ctx context.Context, post *models.Post, users []*models.User) (int, error) {
	created := 0
	for i := f.faker.Number(0, 3); i > 0; i-- {
		comment, err := f.comment(ctx, post.ID, nil, users)
		if err != nil {
			return created, err
		}
		created++

		if f.faker.Bool() {
			if _, err := f.comment(ctx, post.ID, &comment.ID, users); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func (f *Factory) comment(ctx context.Context, postID uint, parentID *uint, users []*models.User) (*models.Comment, error) {
	author := users[f.faker.Number(0, len(users)-1)]
	status := models.CommentStatusApproved
	if f.faker.Number(1, 5) == 1 {
		status = models.CommentStatusPending
	}
	comment, err := f.comments.CreateComment(ctx, service.CreateCommentInput{
		Content:  f.faker.Sentence(f.faker.Number(5, 16)),
		AuthorID: author.ID,
		PostID:   postID,
		ParentID: parentID,
		Status:   string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("create fake comment: %w", err)
	}
	return comment, nil
}
