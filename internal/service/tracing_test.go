package service

import (
	"context"
	"testing"

	"blogapi/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestServices_RecordSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() { observability.Tracer = prev })

	ctx := context.Background()
	posts := NewPostService(noopPostRepo(), noopUserRepo())
	users := NewUserService(noopUserRepo())
	comments := NewCommentService(noopCommentRepo(), noopPostRepo(), noopUserRepo())

	_, err := posts.GetPost(ctx, 1)
	require.NoError(t, err)
	_, err = posts.UpdatePost(ctx, 1, UpdatePostInput{Title: strPtr(" ")})
	assertValidationError(t, err)
	require.NoError(t, posts.DeletePost(ctx, 1))
	_, err = users.ListUsers(ctx)
	require.NoError(t, err)
	_, err = comments.ListThread(ctx, 1, true)
	require.NoError(t, err)

	ended := sr.Ended()
	names := make([]string, 0, len(ended))
	for _, span := range ended {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{
		"PostService.GetPost",
		"PostService.UpdatePost",
		"PostService.DeletePost",
		"UserService.ListUsers",
		"CommentService.ListThread",
	}, names)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[1].Status().Code)
}
