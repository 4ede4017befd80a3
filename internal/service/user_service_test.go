package service

import (
	"context"
	"fmt"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserService_CreateUser_Validation(t *testing.T) {
	users := noopUserRepo()
	users.createFn = func(context.Context, *models.User) error {
		t.Fatal("no row may be written on validation failure")
		return nil
	}
	svc := NewUserService(users)

	tests := []struct {
		name    string
		input   CreateUserInput
		message string
	}{
		{"missing email", CreateUserInput{Username: "jane"}, "Both email and username are required"},
		{"missing username", CreateUserInput{Email: "jane@blog.com"}, "Both email and username are required"},
		{"whitespace only", CreateUserInput{Email: "  ", Username: "\t"}, "Both email and username are required"},
		{"unknown role", CreateUserInput{Email: "jane@blog.com", Username: "jane", Role: "OWNER"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tc.input)
			appErr := assertAppError(t, err, models.CodeValidation)
			if tc.message != "" {
				assert.Equal(t, tc.message, appErr.Message)
			}
		})
	}
}

func TestUserService_CreateUser_Normalizes(t *testing.T) {
	var stored *models.User
	users := noopUserRepo()
	users.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 1
		stored = u
		return nil
	}
	svc := NewUserService(users)

	got, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    " Jane@Blog.COM ",
		Username: " janedoe ",
		Name:     "Jane Doe",
	})
	require.NoError(t, err)
	assert.Same(t, stored, got)
	assert.Equal(t, "jane@blog.com", got.Email)
	assert.Equal(t, "janedoe", got.Username)
	assert.Equal(t, models.RoleUser, got.Role)

	got, err = svc.CreateUser(context.Background(), CreateUserInput{Email: "a@blog.com", Username: "a", Role: "author"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAuthor, got.Role)
}

func TestUserService_CreateUser_Conflict(t *testing.T) {
	users := noopUserRepo()
	users.createFn = func(context.Context, *models.User) error {
		return fmt.Errorf("%w: users.email", repository.ErrDuplicate)
	}
	svc := NewUserService(users)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "jane@blog.com", Username: "jane"})
	appErr := assertAppError(t, err, models.CodeConflict)
	assert.Equal(t, "Email or username already exist", appErr.Message)
}

func TestUserService_GetUser(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		users := noopUserRepo()
		users.getByIDFn = func(context.Context, uint) (*models.User, error) { return nil, gorm.ErrRecordNotFound }
		svc := NewUserService(users)

		_, err := svc.GetUser(context.Background(), 12)
		appErr := assertAppError(t, err, models.CodeNotFound)
		assert.Equal(t, "User with ID 12 not found", appErr.Message)
	})

	t.Run("recent activity limit", func(t *testing.T) {
		users := noopUserRepo()
		users.recentPostsFn = func(_ context.Context, _ uint, limit int) ([]models.PostSummary, error) {
			assert.Equal(t, RecentActivityLimit, limit)
			return []models.PostSummary{{ID: 1, Title: "A"}}, nil
		}
		users.recentCommentsFn = func(_ context.Context, _ uint, limit int) ([]models.UserComment, error) {
			assert.Equal(t, RecentActivityLimit, limit)
			return []models.UserComment{{ID: 2, Content: "hi"}}, nil
		}
		svc := NewUserService(users)

		detail, err := svc.GetUser(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, uint(3), detail.ID)
		assert.Len(t, detail.Posts, 1)
		assert.Len(t, detail.Comments, 1)
	})
}

func TestUserService_Integration(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Username: "noemail"})
	assertValidationError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	jane, err := svc.CreateUser(ctx, CreateUserInput{Email: "jane@blog.com", Username: "janedoe", Role: "AUTHOR"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserInput{Email: "JANE@blog.com", Username: "other"})
	assertAppError(t, err, models.CodeConflict)

	testutil.CreatePost(t, db, jane, "First")

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].Count.Posts)

	detail, err := svc.GetUser(ctx, jane.ID)
	require.NoError(t, err)
	require.Len(t, detail.Posts, 1)
	assert.Equal(t, "first", detail.Posts[0].Slug)
	assert.Empty(t, detail.Comments)
}
