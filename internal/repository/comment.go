package repository

import (
	"context"

	"blogapi/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, approvedOnly bool) ([]*models.Comment, error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns the post's comments flat, oldest first, with authors.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, approvedOnly bool) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	q := r.db.WithContext(ctx).
		Preload("Author", authorSummary).
		Where("post_id = ?", postID)
	if approvedOnly {
		q = q.Where("status = ?", models.CommentStatusApproved)
	}
	err := q.Order("created_at ASC, id ASC").Find(&comments).Error
	return comments, err
}
