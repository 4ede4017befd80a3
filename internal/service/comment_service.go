package service

import (
	"context"
	"errors"
	"strings"

	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

type CreateCommentInput struct {
	Content  string
	AuthorID uint
	PostID   uint
	ParentID *uint
	Status   string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, userRepo repository.UserRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, userRepo: userRepo}
}

// CreateComment stores a comment or a reply. A reply must sit on the same
// post as its parent.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (_ *models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService", "CreateComment")
	defer func() { observability.EndSpan(span, err) }()
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	status := models.CommentStatusPending
	if in.Status != "" {
		status = models.CommentStatus(strings.ToUpper(in.Status))
		if !status.Valid() {
			return nil, models.NewValidationError("Status must be PENDING or APPROVED")
		}
	}

	exists, err := s.userRepo.Exists(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewValidationError("Author does not exist")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", *in.ParentID)
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Content:  in.Content,
		Status:   status,
		AuthorID: in.AuthorID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListThread returns the post's top-level comments with their replies nested
// to any depth. With approvedOnly, a pending comment hides its whole subtree.
func (s *CommentService) ListThread(ctx context.Context, postID uint, approvedOnly bool) (_ []*models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService", "ListThread")
	defer func() { observability.EndSpan(span, err) }()
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	flat, err := s.commentRepo.ListByPost(ctx, postID, approvedOnly)
	if err != nil {
		return nil, err
	}
	return BuildThread(flat), nil
}

// BuildThread assembles a flat, oldest-first comment list into a forest.
// Comments whose parent is absent from the list are dropped.
func BuildThread(flat []*models.Comment) []*models.Comment {
	children := make(map[uint][]*models.Comment)
	roots := make([]*models.Comment, 0)
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var attach func(c *models.Comment) models.Comment
	attach = func(c *models.Comment) models.Comment {
		node := *c
		node.Replies = nil
		for _, child := range children[c.ID] {
			node.Replies = append(node.Replies, attach(child))
		}
		return node
	}

	forest := make([]*models.Comment, 0, len(roots))
	for _, root := range roots {
		node := attach(root)
		forest = append(forest, &node)
	}
	return forest
}
