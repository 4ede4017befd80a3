// Package service holds the blog's business rules between handlers and repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"gorm.io/gorm"
)

const (
	DefaultPage     = 1
	DefaultLimit    = 10
	MaxLimit        = 100
	FeaturedLimit   = 5
	maxTitleLength  = 300
	slugConflictMsg = "A post with this slug already exists"

	// maxOffset bounds the row offset so huge page numbers cannot overflow int.
	maxOffset = math.MaxInt32
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

type CreatePostInput struct {
	Title    string
	Content  string
	AuthorID uint
	Excerpt  *string
	Image    *string
	Tags     []string
	Status   string
	Featured bool
}

// UpdatePostInput is a partial update; nil fields are left untouched.
type UpdatePostInput struct {
	Title    *string
	Content  *string
	Excerpt  *string
	Image    *string
	Tags     *[]string
	Status   *string
	Featured *bool
}

type ListPostsInput struct {
	Status   string
	AuthorID uint
	Tag      string
	Search   string
	Page     int
	Limit    int
}

// PostPage is one page of a filtered post listing.
type PostPage struct {
	Posts []*models.Post
	Total int64
	Page  int
	Limit int
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NormalizePage applies the pagination defaults: non-positive values fall
// back to page 1 and limit 10, and limit is capped at 100.
func NormalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// pageOffset returns (page-1)*limit, saturating at maxOffset. Both arguments
// must already be normalized.
func pageOffset(page, limit int) int {
	if page-1 > maxOffset/limit {
		return maxOffset
	}
	return (page - 1) * limit
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (_ *PostPage, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "ListPosts")
	defer func() { observability.EndSpan(span, err) }()

	filter := repository.PostFilter{
		AuthorID: in.AuthorID,
		Tag:      strings.TrimSpace(in.Tag),
		Search:   strings.TrimSpace(in.Search),
	}
	if in.Status != "" {
		status := models.PostStatus(strings.ToUpper(in.Status))
		if !status.Valid() {
			return nil, models.NewValidationError("Invalid status filter")
		}
		filter.Status = status
	}

	page, limit := NormalizePage(in.Page, in.Limit)
	posts, total, err := s.postRepo.List(ctx, filter, limit, pageOffset(page, limit))
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total, Page: page, Limit: limit}, nil
}

// ListPublished returns published posts whose publish time has passed, newest first.
func (s *PostService) ListPublished(ctx context.Context) (_ []*models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "ListPublished")
	defer func() { observability.EndSpan(span, err) }()
	return s.postRepo.ListPublished(ctx, s.now())
}

// ListFeatured returns at most five featured, published posts.
func (s *PostService) ListFeatured(ctx context.Context) (_ []*models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "ListFeatured")
	defer func() { observability.EndSpan(span, err) }()
	return s.postRepo.ListFeatured(ctx, FeaturedLimit)
}

// GetPost records a view and returns the post detail.
func (s *PostService) GetPost(ctx context.Context, id uint) (_ *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "GetPost")
	defer func() { observability.EndSpan(span, err) }()
	post, err := s.postRepo.ViewByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, err
	}
	middleware.PostViews.Inc()
	return post, nil
}

// GetPostBySlug records a view and returns the post detail.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (_ *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "GetPostBySlug")
	defer func() { observability.EndSpan(span, err) }()
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, models.NewValidationError("Slug is required")
	}
	post, err := s.postRepo.ViewBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundMessage(fmt.Sprintf("Post with slug %q not found", slug))
	}
	if err != nil {
		return nil, err
	}
	middleware.PostViews.Inc()
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "CreatePost")
	defer func() { observability.EndSpan(span, err) }()
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if in.AuthorID == 0 {
		return nil, models.NewValidationError("Author ID is required")
	}

	status := models.PostStatusDraft
	if in.Status != "" {
		status = models.PostStatus(strings.ToUpper(in.Status))
		if !status.Valid() {
			return nil, models.NewValidationError("Status must be DRAFT or PUBLISHED")
		}
	}

	slug := models.Slugify(title)
	if slug == "" {
		return nil, models.NewValidationError("Title must contain at least one letter or digit")
	}

	exists, err := s.userRepo.Exists(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewValidationError("Author does not exist")
	}

	taken, err := s.postRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		middleware.UniqueConflicts.WithLabelValues("post").Inc()
		return nil, models.NewConflictError(slugConflictMsg, nil)
	}

	post := &models.Post{
		Title:    title,
		Slug:     slug,
		Content:  in.Content,
		Excerpt:  blankToNil(in.Excerpt),
		Image:    blankToNil(in.Image),
		Status:   status,
		Featured: in.Featured,
		AuthorID: in.AuthorID,
	}
	if status == models.PostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(ctx, post, in.Tags); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			middleware.UniqueConflicts.WithLabelValues("post").Inc()
			return nil, models.NewConflictError(slugConflictMsg, err)
		}
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePost applies a partial update. The slug never changes, and moving a
// post to PUBLISHED stamps publishedAt unless it is already set.
func (s *PostService) UpdatePost(ctx context.Context, id uint, in UpdatePostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "UpdatePost")
	defer func() { observability.EndSpan(span, err) }()
	changes := repository.PostChanges{Columns: map[string]interface{}{}}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if utf8.RuneCountInString(title) > maxTitleLength {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		changes.Columns["title"] = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content cannot be empty")
		}
		changes.Columns["content"] = *in.Content
	}
	if in.Excerpt != nil {
		changes.Columns["excerpt"] = blankToNil(in.Excerpt)
	}
	if in.Image != nil {
		changes.Columns["image"] = blankToNil(in.Image)
	}
	if in.Featured != nil {
		changes.Columns["featured"] = *in.Featured
	}
	if in.Tags != nil {
		changes.Tags = *in.Tags
		changes.ReplaceTags = true
	}

	var status models.PostStatus
	if in.Status != nil {
		status = models.PostStatus(strings.ToUpper(*in.Status))
		if !status.Valid() {
			return nil, models.NewValidationError("Status must be DRAFT or PUBLISHED")
		}
		changes.Columns["status"] = status
	}

	current, err := s.postRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, err
	}

	if status == models.PostStatusPublished && current.PublishedAt == nil {
		changes.Columns["published_at"] = s.now()
	}

	if len(changes.Columns) == 0 && !changes.ReplaceTags {
		return current, nil
	}

	updated, err := s.postRepo.Update(ctx, id, changes)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, id uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "DeletePost")
	defer func() { observability.EndSpan(span, err) }()
	err = s.postRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", id)
	}
	return err
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
