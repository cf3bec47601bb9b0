package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/ondertalhatorpil/uye-onder-api/internal/apperr"
	"github.com/ondertalhatorpil/uye-onder-api/internal/dto"
	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
	"github.com/ondertalhatorpil/uye-onder-api/internal/observability"
	"github.com/ondertalhatorpil/uye-onder-api/internal/repository"
)

// ModerationService drives the pending -> approved|rejected state machine.
// Every operation takes the acting administrator explicitly and asserts the
// role itself, so the rule is testable without transport middleware.
type ModerationService interface {
	Approve(ctx context.Context, id uint, actor Actor) (dto.ModerationDecisionResponse, error)
	Reject(ctx context.Context, id uint, actor Actor, reason string) (dto.ModerationDecisionResponse, error)
	ApproveMany(ctx context.Context, ids []uint, actor Actor) (dto.BulkApproveResponse, error)
	Queue(ctx context.Context, req dto.ActivityListRequest, actor Actor) ([]dto.ActivityResponse, int64, error)
	History(ctx context.Context, req dto.ModerationHistoryRequest, actor Actor) ([]dto.ActivityResponse, int64, error)
}

type moderationService struct {
	activities   repository.ActivityRepository
	audit        repository.ModerationLogRepository
	logger       zerolog.Logger
	tracer       trace.Tracer
	storeTimeout time.Duration
	now          func() time.Time
}

// NewModerationService constructs a moderation service.
func NewModerationService(activities repository.ActivityRepository, audit repository.ModerationLogRepository, storeTimeout time.Duration, logger zerolog.Logger) ModerationService {
	return &moderationService{
		activities:   activities,
		audit:        audit,
		logger:       logger.With().Str("component", "moderation_service").Logger(),
		tracer:       otel.Tracer("github.com/ondertalhatorpil/uye-onder-api/internal/service/moderation"),
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

func (s *moderationService) Approve(ctx context.Context, id uint, actor Actor) (dto.ModerationDecisionResponse, error) {
	return s.decide(ctx, id, actor, models.ActivityStatusApproved, "")
}

func (s *moderationService) Reject(ctx context.Context, id uint, actor Actor, reason string) (dto.ModerationDecisionResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return dto.ModerationDecisionResponse{}, apperr.Validation("rejection reason is required")
	}
	return s.decide(ctx, id, actor, models.ActivityStatusRejected, reason)
}

func (s *moderationService) decide(ctx context.Context, id uint, actor Actor, status models.ActivityStatus, reason string) (dto.ModerationDecisionResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return dto.ModerationDecisionResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "moderation.decide", trace.WithAttributes(
		attribute.Int("moderation.activity_id", int(id)),
		attribute.Int("moderation.admin_id", int(actor.ID)),
		attribute.String("moderation.status", string(status)),
	))
	defer span.End()

	storeCtx, cancel := withStoreTimeout(spanCtx, s.storeTimeout)
	defer cancel()

	decidedAt := s.now()
	if err := s.activities.Decide(storeCtx, id, status, actor.ID, reason, decidedAt); err != nil {
		span.RecordError(err)
		return dto.ModerationDecisionResponse{}, mapDecisionError(err)
	}

	activity, err := s.activities.GetByID(storeCtx, id)
	if err != nil {
		span.RecordError(err)
		return dto.ModerationDecisionResponse{}, apperr.FromStore(err, "activity not found")
	}

	observability.ModerationDecisions().WithLabelValues(string(status)).Inc()
	s.recordAudit(storeCtx, actor, activity, status, reason)

	s.logger.Info().
		Uint("activity_id", id).
		Uint("admin_id", actor.ID).
		Str("status", string(status)).
		Msg("moderation decision applied")

	return dto.ModerationDecisionResponse{Activity: dto.NewActivityResponse(activity)}, nil
}

// ApproveMany iterates the ids with independent failure domains: one bad item
// never aborts the rest, and succeeded+failed always equals len(ids).
func (s *moderationService) ApproveMany(ctx context.Context, ids []uint, actor Actor) (dto.BulkApproveResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return dto.BulkApproveResponse{}, err
	}
	if len(ids) == 0 {
		return dto.BulkApproveResponse{}, apperr.Validation("activity_ids must be a non-empty list")
	}

	response := dto.BulkApproveResponse{Details: make([]dto.BulkItemResult, 0, len(ids))}

	for _, id := range ids {
		if _, err := s.Approve(ctx, id, actor); err != nil {
			response.Failed++
			response.Details = append(response.Details, dto.BulkItemResult{
				ID:      id,
				Outcome: dto.BulkOutcomeError,
				Error:   decisionErrorMessage(err),
			})
			continue
		}

		response.Succeeded++
		response.Details = append(response.Details, dto.BulkItemResult{ID: id, Outcome: dto.BulkOutcomeOK})
	}

	s.logger.Info().
		Int("succeeded", response.Succeeded).
		Int("failed", response.Failed).
		Uint("admin_id", actor.ID).
		Msg("bulk approval completed")

	return response, nil
}

func (s *moderationService) Queue(ctx context.Context, req dto.ActivityListRequest, actor Actor) ([]dto.ActivityResponse, int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	filter := repository.ActivityFilter{
		Il:       strings.TrimSpace(req.Il),
		Ilce:     strings.TrimSpace(req.Ilce),
		DernekID: req.DernekID,
		AuthorID: req.AuthorID,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}

	activities, total, err := s.activities.ListPending(storeCtx, filter)
	if err != nil {
		return nil, 0, apperr.FromStore(err, "activity not found")
	}

	return dto.NewActivityResponseSlice(activities), total, nil
}

func (s *moderationService) History(ctx context.Context, req dto.ModerationHistoryRequest, actor Actor) ([]dto.ActivityResponse, int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}

	status := models.ActivityStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	switch status {
	case "", models.ActivityStatusApproved, models.ActivityStatusRejected:
	default:
		return nil, 0, apperr.Validation("status must be approved or rejected")
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	activities, total, err := s.activities.ListDecided(storeCtx, repository.DecidedFilter{
		Status:  status,
		AdminID: req.AdminID,
		From:    req.From,
		To:      req.To,
		Limit:   req.Limit,
		Offset:  req.Offset,
	})
	if err != nil {
		return nil, 0, apperr.FromStore(err, "activity not found")
	}

	return dto.NewActivityResponseSlice(activities), total, nil
}

func (s *moderationService) recordAudit(ctx context.Context, actor Actor, activity models.Activity, status models.ActivityStatus, reason string) {
	entityID := activity.ID
	metadata := datatypes.JSONMap{"author_id": activity.AuthorID}
	if reason != "" {
		metadata["reason"] = reason
	}

	entry := models.ModerationLog{
		ActorID:    actor.ID,
		ActorRole:  normalizeRole(actor.Role),
		Action:     "activity." + string(status),
		EntityType: "activity",
		EntityID:   &entityID,
		Metadata:   metadata,
	}

	if err := s.audit.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Uint("activity_id", activity.ID).Msg("failed to persist moderation audit entry")
	}
}

func mapDecisionError(err error) error {
	if errors.Is(err, repository.ErrAlreadyProcessed) {
		return apperr.Wrap(apperr.CodeConflict, "already processed", err)
	}
	return apperr.FromStore(err, "activity not found")
}

func decisionErrorMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
