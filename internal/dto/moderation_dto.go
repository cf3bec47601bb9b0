package dto

import "time"

// RejectRequest carries the mandatory reason for a rejection decision.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// BulkApproveRequest lists the activities an administrator wants approved.
type BulkApproveRequest struct {
	ActivityIDs []uint `json:"activity_ids" validate:"required,min=1"`
}

// BulkItemOutcome values used in bulk moderation details.
const (
	BulkOutcomeOK    = "ok"
	BulkOutcomeError = "error"
)

// BulkItemResult reports the outcome of a single item in a bulk operation.
type BulkItemResult struct {
	ID      uint   `json:"id"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// BulkApproveResponse summarises a bulk approval run. Succeeded plus Failed
// always equals the number of submitted ids.
type BulkApproveResponse struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Details   []BulkItemResult `json:"details"`
}

// ModerationDecisionResponse returns the decided activity so callers can
// build a confirmation message without a second lookup.
type ModerationDecisionResponse struct {
	Activity ActivityResponse `json:"activity"`
}

// ModerationHistoryRequest narrows the decided-activities listing.
type ModerationHistoryRequest struct {
	Status  string
	AdminID uint
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}
