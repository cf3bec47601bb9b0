package dto

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
)

// ActivityCreateRequest captures the payload for publishing a new activity.
// At least one of title, description or images must be present; that rule is
// enforced in the service because validator cannot express it per-field.
type ActivityCreateRequest struct {
	Title       string   `json:"title" validate:"omitempty,max=255"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Images      []string `json:"images" validate:"omitempty,max=10,dive,required"`
}

// ActivityUpdateRequest allows the author to patch content fields. Moderation
// fields are deliberately absent.
type ActivityUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Images      []string `json:"images" validate:"omitempty,max=10,dive,required"`
}

// ActivityListRequest narrows activity listings.
type ActivityListRequest struct {
	Il       string
	Ilce     string
	DernekID uint
	AuthorID uint
	Limit    int
	Offset   int
}

// ActivityResponse serializes an activity together with the author display
// fields callers need for rendering.
type ActivityResponse struct {
	ID              uint       `json:"id"`
	AuthorID        uint       `json:"author_id"`
	AuthorName      string     `json:"author_name,omitempty"`
	AuthorAvatar    string     `json:"author_avatar,omitempty"`
	Dernek          string     `json:"dernek,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Images          []string   `json:"images"`
	Status          string     `json:"status"`
	ModeratedBy     *uint      `json:"moderated_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	Il              string     `json:"il,omitempty"`
	Ilce            string     `json:"ilce,omitempty"`
	DernekID        *uint      `json:"dernek_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewActivityResponse converts an activity model into a DTO.
func NewActivityResponse(activity models.Activity) ActivityResponse {
	response := ActivityResponse{
		ID:              activity.ID,
		AuthorID:        activity.AuthorID,
		Title:           activity.Title,
		Description:     activity.Description,
		Images:          ImagesFromJSON(activity.Images),
		Status:          string(activity.Status),
		ModeratedBy:     activity.ModeratedBy,
		DecidedAt:       activity.DecidedAt,
		RejectionReason: activity.RejectionReason,
		Il:              activity.Il,
		Ilce:            activity.Ilce,
		DernekID:        activity.DernekID,
		CreatedAt:       activity.CreatedAt,
		UpdatedAt:       activity.UpdatedAt,
	}

	if activity.Author != nil {
		response.AuthorName = activity.Author.FullName()
		response.AuthorAvatar = activity.Author.AvatarURL
		response.Dernek = activity.Author.Dernek
	}

	return response
}

// NewActivityResponseSlice converts a page of activities.
func NewActivityResponseSlice(activities []models.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, NewActivityResponse(activity))
	}
	return responses
}

// ImagesFromJSON decodes the stored image reference list, preserving order.
func ImagesFromJSON(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var images []string
	if err := json.Unmarshal(raw, &images); err != nil {
		return []string{}
	}
	return images
}

// ImagesToJSON encodes an ordered image reference list for storage.
func ImagesToJSON(images []string) datatypes.JSON {
	if images == nil {
		images = []string{}
	}

	raw, err := json.Marshal(images)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
