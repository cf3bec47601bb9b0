package dto

import (
	"time"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
)

// Like toggle outcomes.
const (
	LikeActionAdded   = "added"
	LikeActionRemoved = "removed"
)

// ToggleLikeResponse reports the toggle outcome and the recomputed total so
// the caller does not need a second query.
type ToggleLikeResponse struct {
	Action    string `json:"action"`
	LikeCount int64  `json:"likeCount"`
}

// CommentCreateRequest carries a new comment body. The length rule is
// measured after trimming, so the service enforces it rather than a tag.
type CommentCreateRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentResponse serializes a comment joined with author display fields.
type CommentResponse struct {
	ID           uint      `json:"id"`
	ActivityID   uint      `json:"activity_id"`
	AuthorID     uint      `json:"author_id"`
	AuthorName   string    `json:"author_name,omitempty"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Dernek       string    `json:"dernek,omitempty"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCommentResponse converts a comment and its author into a DTO. The author
// may be nil when the member record has been removed.
func NewCommentResponse(comment models.ActivityComment, author *models.Member) CommentResponse {
	response := CommentResponse{
		ID:         comment.ID,
		ActivityID: comment.ActivityID,
		AuthorID:   comment.AuthorID,
		Text:       comment.Text,
		CreatedAt:  comment.CreatedAt,
	}

	if author != nil {
		response.AuthorName = author.FullName()
		response.AuthorAvatar = author.AvatarURL
		response.Dernek = author.Dernek
	}

	return response
}

// LikerResponse serializes one member who liked an activity.
type LikerResponse struct {
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Dernek    string    `json:"dernek,omitempty"`
	LikedAt   time.Time `json:"liked_at"`
}

// InteractionSummaryResponse aggregates engagement counters for an activity.
type InteractionSummaryResponse struct {
	LikeCount      int64 `json:"likeCount"`
	CommentCount   int64 `json:"commentCount"`
	ViewerHasLiked bool  `json:"viewerHasLiked"`
}

// DeleteCommentResponse returns the parent activity so callers can refresh
// their comment count.
type DeleteCommentResponse struct {
	ActivityID uint `json:"activity_id"`
}
