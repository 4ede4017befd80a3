package service

import (
	"context"
	"errors"
	"strings"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"gorm.io/gorm"
)

// RecentActivityLimit bounds the posts and comments returned with a user profile.
const RecentActivityLimit = 5

type UserService struct {
	userRepo repository.UserRepository
}

type CreateUserInput struct {
	Email    string
	Username string
	Name     string
	Bio      string
	Avatar   string
	Role     string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns every user, newest first, with post and comment counts.
func (s *UserService) ListUsers(ctx context.Context) (_ []*models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService", "ListUsers")
	defer func() { observability.EndSpan(span, err) }()
	return s.userRepo.List(ctx)
}

// GetUser returns a user with their five most recent posts and comments.
func (s *UserService) GetUser(ctx context.Context, id uint) (_ *models.UserDetail, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService", "GetUser")
	defer func() { observability.EndSpan(span, err) }()
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User", id)
	}
	if err != nil {
		return nil, err
	}

	posts, err := s.userRepo.RecentPosts(ctx, id, RecentActivityLimit)
	if err != nil {
		return nil, err
	}
	comments, err := s.userRepo.RecentComments(ctx, id, RecentActivityLimit)
	if err != nil {
		return nil, err
	}

	return &models.UserDetail{User: *user, Posts: posts, Comments: comments}, nil
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (_ *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService", "CreateUser")
	defer func() { observability.EndSpan(span, err) }()
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" {
		return nil, models.NewValidationError("Both email and username are required")
	}

	role := models.RoleUser
	if in.Role != "" {
		role = models.Role(strings.ToUpper(strings.TrimSpace(in.Role)))
		if !role.Valid() {
			return nil, models.NewValidationError("Role must be ADMIN, AUTHOR or USER")
		}
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Name:     strings.TrimSpace(in.Name),
		Bio:      in.Bio,
		Avatar:   strings.TrimSpace(in.Avatar),
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			middleware.UniqueConflicts.WithLabelValues("user").Inc()
			return nil, models.NewConflictError("Email or username already exist", err)
		}
		return nil, err
	}
	return user, nil
}
