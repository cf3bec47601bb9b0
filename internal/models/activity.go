package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityStatus enumerates the moderation lifecycle of an activity post.
type ActivityStatus string

const (
	ActivityStatusPending  ActivityStatus = "pending"
	ActivityStatusApproved ActivityStatus = "approved"
	ActivityStatusRejected ActivityStatus = "rejected"
)

// Activity is a member-submitted post documenting volunteer work. It is
// created pending and becomes publicly visible only after an administrator
// approves it. Moderation fields are written exclusively through the
// conditional update in the activity repository.
type Activity struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AuthorID        uint           `gorm:"not null;index" json:"author_id"`
	Title           string         `gorm:"size:255" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Images          datatypes.JSON `gorm:"type:json" json:"images"`
	Status          ActivityStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	ModeratedBy     *uint          `json:"moderated_by"`
	DecidedAt       *time.Time     `json:"decided_at"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason"`
	Il              string         `gorm:"size:64;index" json:"il"`
	Ilce            string         `gorm:"size:64;index" json:"ilce"`
	DernekID        *uint          `gorm:"index" json:"dernek_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Author *Member `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// ActivityLike records a single member's like on an activity. The composite
// unique index is the source of truth for the at-most-one-like invariant.
type ActivityLike struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"not null;uniqueIndex:idx_activity_user" json:"activity_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_activity_user" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`

	User *Member `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ActivityComment is an immutable comment attached to an activity.
type ActivityComment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"not null;index" json:"activity_id"`
	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`

	Author *Member `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
