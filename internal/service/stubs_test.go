package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type postRepoStub struct {
	createFn        func(context.Context, *models.Post, []string) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	slugExistsFn    func(context.Context, string) (bool, error)
	viewByIDFn      func(context.Context, uint) (*models.Post, error)
	viewBySlugFn    func(context.Context, string) (*models.Post, error)
	listFn          func(context.Context, repository.PostFilter, int, int) ([]*models.Post, int64, error)
	listPublishedFn func(context.Context, time.Time) ([]*models.Post, error)
	listFeaturedFn  func(context.Context, int) ([]*models.Post, error)
	updateFn        func(context.Context, uint, repository.PostChanges) (*models.Post, error)
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, tags []string) error {
	return s.createFn(ctx, post, tags)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.slugExistsFn(ctx, slug)
}
func (s *postRepoStub) ViewByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.viewByIDFn(ctx, id)
}
func (s *postRepoStub) ViewBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.viewBySlugFn(ctx, slug)
}
func (s *postRepoStub) List(ctx context.Context, f repository.PostFilter, limit, offset int) ([]*models.Post, int64, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *postRepoStub) ListPublished(ctx context.Context, now time.Time) ([]*models.Post, error) {
	return s.listPublishedFn(ctx, now)
}
func (s *postRepoStub) ListFeatured(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.listFeaturedFn(ctx, limit)
}
func (s *postRepoStub) Update(ctx context.Context, id uint, changes repository.PostChanges) (*models.Post, error) {
	return s.updateFn(ctx, id, changes)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:     func(context.Context, *models.Post, []string) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		slugExistsFn: func(context.Context, string) (bool, error) { return false, nil },
		viewByIDFn:   func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		viewBySlugFn: func(_ context.Context, slug string) (*models.Post, error) { return &models.Post{Slug: slug}, nil },
		listFn: func(context.Context, repository.PostFilter, int, int) ([]*models.Post, int64, error) {
			return []*models.Post{}, 0, nil
		},
		listPublishedFn: func(context.Context, time.Time) ([]*models.Post, error) { return []*models.Post{}, nil },
		listFeaturedFn:  func(context.Context, int) ([]*models.Post, error) { return []*models.Post{}, nil },
		updateFn: func(_ context.Context, id uint, _ repository.PostChanges) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		deleteFn: func(context.Context, uint) error { return nil },
	}
}

type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	existsFn         func(context.Context, uint) (bool, error)
	listFn           func(context.Context) ([]*models.User, error)
	recentPostsFn    func(context.Context, uint, int) ([]models.PostSummary, error)
	recentCommentsFn func(context.Context, uint, int) ([]models.UserComment, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context) ([]*models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) RecentPosts(ctx context.Context, userID uint, limit int) ([]models.PostSummary, error) {
	return s.recentPostsFn(ctx, userID, limit)
}
func (s *userRepoStub) RecentComments(ctx context.Context, userID uint, limit int) ([]models.UserComment, error) {
	return s.recentCommentsFn(ctx, userID, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(context.Context, *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		existsFn:  func(context.Context, uint) (bool, error) { return true, nil },
		listFn:    func(context.Context) ([]*models.User, error) { return []*models.User{}, nil },
		recentPostsFn: func(context.Context, uint, int) ([]models.PostSummary, error) {
			return []models.PostSummary{}, nil
		},
		recentCommentsFn: func(context.Context, uint, int) ([]models.UserComment, error) {
			return []models.UserComment{}, nil
		},
	}
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, bool) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, approvedOnly bool) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, approvedOnly)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(context.Context, *models.Comment) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.Comment, error) { return nil, gorm.ErrRecordNotFound },
		listByPostFn: func(context.Context, uint, bool) ([]*models.Comment, error) {
			return []*models.Comment{}, nil
		},
	}
}

// assertAppError asserts that err is an AppError carrying code.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}
