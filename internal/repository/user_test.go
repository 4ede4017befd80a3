package repository

import (
	"context"
	"fmt"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "jane@blog.com", Username: "janedoe", Role: models.RoleAuthor}))

	err := repo.Create(ctx, &models.User{Email: "other@blog.com", Username: "janedoe", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = repo.Create(ctx, &models.User{Email: "jane@blog.com", Username: "jane2", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_ListWithCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	john := testutil.CreateUser(t, db, "johndoe")
	reader := testutil.CreateUser(t, db, "reader")
	post := testutil.CreatePost(t, db, john, "One")
	testutil.CreatePost(t, db, john, "Two")
	testutil.CreateComment(t, db, reader, post, nil, "hi", models.CommentStatusApproved)
	testutil.CreateComment(t, db, reader, post, nil, "again", models.CommentStatusPending)
	testutil.CreateComment(t, db, john, post, nil, "thanks", models.CommentStatusApproved)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "reader", users[0].Username, "newest user first")
	assert.Equal(t, &models.UserCounts{Posts: 0, Comments: 2}, users[0].Count)
	assert.Equal(t, &models.UserCounts{Posts: 2, Comments: 1}, users[1].Count)

	exists, err := repo.Exists(ctx, john.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_RecentActivity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	john := testutil.CreateUser(t, db, "johndoe")
	var posts []*models.Post
	for i := 1; i <= 7; i++ {
		posts = append(posts, testutil.CreatePost(t, db, john, fmt.Sprintf("Post %d", i)))
	}
	for i := 1; i <= 6; i++ {
		testutil.CreateComment(t, db, john, posts[0], nil, fmt.Sprintf("Comment %d", i), models.CommentStatusApproved)
	}

	recentPosts, err := repo.RecentPosts(ctx, john.ID, 5)
	require.NoError(t, err)
	require.Len(t, recentPosts, 5)
	assert.Equal(t, "Post 7", recentPosts[0].Title)
	assert.Equal(t, "post-7", recentPosts[0].Slug)
	assert.Equal(t, models.PostStatusDraft, recentPosts[0].Status)
	assert.Equal(t, "Post 3", recentPosts[4].Title)

	recentComments, err := repo.RecentComments(ctx, john.ID, 5)
	require.NoError(t, err)
	require.Len(t, recentComments, 5)
	assert.Equal(t, "Comment 6", recentComments[0].Content)
	require.NotNil(t, recentComments[0].Post)
	assert.Equal(t, "Post 1", recentComments[0].Post.Title)
	assert.Equal(t, "post-1", recentComments[0].Post.Slug)

	none, err := repo.RecentPosts(ctx, 999, 5)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
