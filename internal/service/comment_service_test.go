package service

import (
	"context"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func uintPtr(v uint) *uint { return &v }

func TestCommentService_CreateComment_Validation(t *testing.T) {
	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), noopUserRepo())
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, CreateCommentInput{Content: "  ", AuthorID: 1, PostID: 1})
	assertValidationError(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{Content: "hi", AuthorID: 1, PostID: 1, Status: "SPAM"})
	assertValidationError(t, err)

	users := noopUserRepo()
	users.existsFn = func(context.Context, uint) (bool, error) { return false, nil }
	_, err = NewCommentService(noopCommentRepo(), noopPostRepo(), users).
		CreateComment(ctx, CreateCommentInput{Content: "hi", AuthorID: 9, PostID: 1})
	assertValidationError(t, err)
}

func TestCommentService_CreateComment_Parent(t *testing.T) {
	ctx := context.Background()

	t.Run("missing post", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(context.Context, uint) (*models.Post, error) { return nil, gorm.ErrRecordNotFound }
		svc := NewCommentService(noopCommentRepo(), posts, noopUserRepo())

		_, err := svc.CreateComment(ctx, CreateCommentInput{Content: "hi", AuthorID: 1, PostID: 3})
		assertAppError(t, err, models.CodeNotFound)
	})

	t.Run("missing parent", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), noopUserRepo())

		_, err := svc.CreateComment(ctx, CreateCommentInput{Content: "hi", AuthorID: 1, PostID: 3, ParentID: uintPtr(8)})
		appErr := assertAppError(t, err, models.CodeNotFound)
		assert.Equal(t, "Comment with ID 8 not found", appErr.Message)
	})

	t.Run("parent on another post", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 99}, nil
		}
		svc := NewCommentService(comments, noopPostRepo(), noopUserRepo())

		_, err := svc.CreateComment(ctx, CreateCommentInput{Content: "hi", AuthorID: 1, PostID: 3, ParentID: uintPtr(8)})
		assertValidationError(t, err)
	})

	t.Run("reply defaults to pending", func(t *testing.T) {
		var stored *models.Comment
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 3}, nil
		}
		comments.createFn = func(_ context.Context, c *models.Comment) error {
			stored = c
			return nil
		}
		svc := NewCommentService(comments, noopPostRepo(), noopUserRepo())

		got, err := svc.CreateComment(ctx, CreateCommentInput{Content: "hi", AuthorID: 1, PostID: 3, ParentID: uintPtr(8)})
		require.NoError(t, err)
		assert.Same(t, stored, got)
		assert.Equal(t, models.CommentStatusPending, got.Status)
		assert.Equal(t, uint(8), *got.ParentID)
	})
}

func TestBuildThread(t *testing.T) {
	flat := []*models.Comment{
		{ID: 1, Content: "a"},
		{ID: 2, Content: "b"},
		{ID: 3, Content: "a.1", ParentID: uintPtr(1)},
		{ID: 4, Content: "a.1.1", ParentID: uintPtr(3)},
		{ID: 5, Content: "a.2", ParentID: uintPtr(1)},
		{ID: 6, Content: "orphan", ParentID: uintPtr(42)},
	}

	forest := BuildThread(flat)
	require.Len(t, forest, 2)
	assert.Equal(t, "a", forest[0].Content)
	assert.Equal(t, "b", forest[1].Content)
	assert.Empty(t, forest[1].Replies)

	require.Len(t, forest[0].Replies, 2)
	assert.Equal(t, "a.1", forest[0].Replies[0].Content)
	assert.Equal(t, "a.2", forest[0].Replies[1].Content)
	require.Len(t, forest[0].Replies[0].Replies, 1)
	assert.Equal(t, "a.1.1", forest[0].Replies[0].Replies[0].Content)

	assert.Empty(t, BuildThread(nil))
}

func TestCommentService_Integration(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
	)
	ctx := context.Background()

	john := testutil.CreateUser(t, db, "johndoe")
	reader := testutil.CreateUser(t, db, "reader")
	post := testutil.CreatePost(t, db, john, "Threaded")
	other := testutil.CreatePost(t, db, john, "Elsewhere")

	top, err := svc.CreateComment(ctx, CreateCommentInput{Content: "Great post", AuthorID: reader.ID, PostID: post.ID, Status: "APPROVED"})
	require.NoError(t, err)
	reply, err := svc.CreateComment(ctx, CreateCommentInput{Content: "Thanks", AuthorID: john.ID, PostID: post.ID, ParentID: &top.ID, Status: "APPROVED"})
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, CreateCommentInput{Content: "Agreed", AuthorID: reader.ID, PostID: post.ID, ParentID: &reply.ID, Status: "APPROVED"})
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, CreateCommentInput{Content: "Pending", AuthorID: reader.ID, PostID: post.ID})
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{Content: "wrong post", AuthorID: reader.ID, PostID: other.ID, ParentID: &top.ID})
	assertValidationError(t, err)

	all, err := svc.ListThread(ctx, post.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	approved, err := svc.ListThread(ctx, post.ID, true)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	require.Len(t, approved[0].Replies, 1)
	require.Len(t, approved[0].Replies[0].Replies, 1)
	assert.Equal(t, "Agreed", approved[0].Replies[0].Replies[0].Content)
	require.NotNil(t, approved[0].Author)
	assert.Equal(t, "reader", approved[0].Author.Username)

	_, err = svc.ListThread(ctx, 999, false)
	assertAppError(t, err, models.CodeNotFound)
}
