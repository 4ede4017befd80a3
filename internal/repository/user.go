package repository

import (
	"context"

	"blogapi/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	RecentPosts(ctx context.Context, userID uint, limit int) ([]models.PostSummary, error)
	RecentComments(ctx context.Context, userID uint, limit int) ([]models.UserComment, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

const userWithCounts = "users.*, " +
	"(SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id) AS post_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.author_id = users.id) AS comment_count"

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns every user, newest first, with their post and comment counts.
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0)
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select(userWithCounts).
		Order("users.created_at DESC, users.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Count = &models.UserCounts{Posts: u.PostCount, Comments: u.CommentCount}
	}
	return users, nil
}

func (r *userRepository) RecentPosts(ctx context.Context, userID uint, limit int) ([]models.PostSummary, error) {
	posts := make([]models.PostSummary, 0, limit)
	err := r.db.WithContext(ctx).
		Select("id", "title", "slug", "status", "created_at").
		Where("author_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *userRepository) RecentComments(ctx context.Context, userID uint, limit int) ([]models.UserComment, error) {
	comments := make([]models.UserComment, 0, limit)
	err := r.db.WithContext(ctx).
		Select("id", "content", "created_at", "post_id").
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "slug")
		}).
		Where("author_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}
