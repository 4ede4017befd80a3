package server

import (
	"context"
	"log/slog"
	"time"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/notifications"
)

const publishTimeout = 2 * time.Second

// publishPostEvent announces a post change in the background so a slow Redis
// never delays the response. Failures are logged, never returned.
func (s *Server) publishPostEvent(ctx context.Context, eventType string, post *models.Post) {
	if s.redis == nil || post == nil {
		return
	}
	event := notifications.NewPostEvent(eventType, post)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)

	go func() {
		defer cancel()
		if err := s.notifier.PublishPost(ctx, event); err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to publish post event",
				slog.String("type", eventType),
				slog.Uint64("post_id", uint64(event.PostID)),
				slog.String("error", err.Error()),
			)
		}
	}()
}
