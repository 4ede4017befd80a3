package models

import "time"

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "PENDING"
	CommentStatusApproved CommentStatus = "APPROVED"
)

// Valid reports whether s is one of the known statuses.
func (s CommentStatus) Valid() bool {
	return s == CommentStatusPending || s == CommentStatusApproved
}

// Comment represents a comment on a post. Replies point at their parent
// through ParentID and always belong to the parent's post.
type Comment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Status    CommentStatus `gorm:"type:varchar(16);not null;default:PENDING;index" json:"status"`
	AuthorID  uint          `gorm:"not null;index" json:"authorId"`
	Author    *Author       `gorm:"foreignKey:AuthorID;-:migration" json:"author,omitempty"`
	PostID    uint          `gorm:"not null;index" json:"postId"`
	ParentID  *uint         `gorm:"index" json:"parentId"`
	Replies   []Comment     `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"replies,omitempty"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
