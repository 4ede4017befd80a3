// Package notifications publishes post lifecycle events over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"blogapi/internal/models"

	"github.com/redis/go-redis/v9"
)

// PostsChannel carries every post lifecycle event.
const PostsChannel = "blog:posts"

// Event types published on PostsChannel.
const (
	EventPostCreated   = "post.created"
	EventPostUpdated   = "post.updated"
	EventPostPublished = "post.published"
	EventPostDeleted   = "post.deleted"
)

// PostEvent is the JSON payload published for a post change.
type PostEvent struct {
	Type       string    `json:"type"`
	PostID     uint      `json:"postId"`
	Slug       string    `json:"slug,omitempty"`
	Title      string    `json:"title,omitempty"`
	AuthorID   uint      `json:"authorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier provides helpers to publish events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier. A nil client turns every call into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// NewPostEvent builds an event of the given type from a post.
func NewPostEvent(eventType string, post *models.Post) PostEvent {
	return PostEvent{
		Type:       eventType,
		PostID:     post.ID,
		Slug:       post.Slug,
		Title:      post.Title,
		AuthorID:   post.AuthorID,
		OccurredAt: time.Now().UTC(),
	}
}

// PublishPost sends a post event to PostsChannel.
func (n *Notifier) PublishPost(ctx context.Context, event PostEvent) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, PostsChannel, string(payload)).Err()
}
