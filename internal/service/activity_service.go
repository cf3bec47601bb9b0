package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ondertalhatorpil/uye-onder-api/internal/apperr"
	"github.com/ondertalhatorpil/uye-onder-api/internal/dto"
	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
	"github.com/ondertalhatorpil/uye-onder-api/internal/repository"
	"github.com/ondertalhatorpil/uye-onder-api/internal/visibility"
)

// ActivityService exposes the activity lifecycle use-cases owned by members.
type ActivityService interface {
	Create(ctx context.Context, actor Actor, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error)
	Get(ctx context.Context, id uint, viewer Actor) (dto.ActivityResponse, error)
	List(ctx context.Context, req dto.ActivityListRequest, viewer Actor) ([]dto.ActivityResponse, int64, error)
	Update(ctx context.Context, id uint, actor Actor, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type activityService struct {
	activities   repository.ActivityRepository
	members      repository.MemberRepository
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	logger       zerolog.Logger
	tracer       trace.Tracer
	storeTimeout time.Duration
}

// NewActivityService constructs an activity service.
func NewActivityService(activities repository.ActivityRepository, members repository.MemberRepository, validate *validator.Validate, storeTimeout time.Duration, logger zerolog.Logger) ActivityService {
	return &activityService{
		activities:   activities,
		members:      members,
		validator:    validate,
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "activity_service").Logger(),
		tracer:       otel.Tracer("github.com/ondertalhatorpil/uye-onder-api/internal/service/activity"),
		storeTimeout: storeTimeout,
	}
}

func (s *activityService) Create(ctx context.Context, actor Actor, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error) {
	if err := requireMember(actor); err != nil {
		return dto.ActivityResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, apperr.Wrap(apperr.CodeValidation, "invalid activity payload", err)
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	description := strings.TrimSpace(s.sanitizer.Sanitize(payload.Description))
	if title == "" && description == "" && len(payload.Images) == 0 {
		return dto.ActivityResponse{}, apperr.Validation("at least one of title, description or images is required")
	}

	spanCtx, span := s.tracer.Start(ctx, "activity.create", trace.WithAttributes(
		attribute.Int("activity.author_id", int(actor.ID)),
	))
	defer span.End()

	storeCtx, cancel := withStoreTimeout(spanCtx, s.storeTimeout)
	defer cancel()

	author, err := s.members.GetByID(storeCtx, actor.ID)
	if err != nil {
		span.RecordError(err)
		return dto.ActivityResponse{}, apperr.FromStore(err, "author not found")
	}

	activity := models.Activity{
		AuthorID:    actor.ID,
		Title:       title,
		Description: description,
		Images:      dto.ImagesToJSON(payload.Images),
		Il:          author.Il,
		Ilce:        author.Ilce,
		DernekID:    author.DernekID,
	}

	if err := s.activities.Create(storeCtx, &activity); err != nil {
		span.RecordError(err)
		return dto.ActivityResponse{}, apperr.FromStore(err, "activity not found")
	}

	activity.Author = &author

	s.logger.Info().Uint("activity_id", activity.ID).Uint("author_id", actor.ID).Msg("activity created")

	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) Get(ctx context.Context, id uint, viewer Actor) (dto.ActivityResponse, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	activity, err := s.activities.GetByID(storeCtx, id)
	if err != nil {
		return dto.ActivityResponse{}, apperr.FromStore(err, "activity not found")
	}

	// Invisible activities are indistinguishable from missing ones.
	if !visibility.Visible(activity, viewer.Viewer()) {
		return dto.ActivityResponse{}, apperr.NotFound("activity not found")
	}

	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest, viewer Actor) ([]dto.ActivityResponse, int64, error) {
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

	activities, total, err := s.activities.List(storeCtx, filter, viewer.Viewer())
	if err != nil {
		return nil, 0, apperr.FromStore(err, "activity not found")
	}

	return dto.NewActivityResponseSlice(activities), total, nil
}

func (s *activityService) Update(ctx context.Context, id uint, actor Actor, payload dto.ActivityUpdateRequest) (dto.ActivityResponse, error) {
	if err := requireMember(actor); err != nil {
		return dto.ActivityResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, apperr.Wrap(apperr.CodeValidation, "invalid activity payload", err)
	}

	patch := repository.ContentPatch{}
	if payload.Title != nil {
		title := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Title))
		patch.Title = &title
	}
	if payload.Description != nil {
		description := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Description))
		patch.Description = &description
	}
	if payload.Images != nil {
		patch.Images = dto.ImagesToJSON(payload.Images)
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	activity, err := s.activities.UpdateOwned(storeCtx, id, actor.ID, patch)
	if err != nil {
		return dto.ActivityResponse{}, mapOwnershipError(err)
	}

	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) Delete(ctx context.Context, id uint, actor Actor) error {
	if err := requireMember(actor); err != nil {
		return err
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.activities.DeleteOwned(storeCtx, id, actor.ID); err != nil {
		return mapOwnershipError(err)
	}

	s.logger.Info().Uint("activity_id", id).Uint("author_id", actor.ID).Msg("activity deleted")
	return nil
}

func mapOwnershipError(err error) error {
	if errors.Is(err, repository.ErrNotOwner) {
		return apperr.Wrap(apperr.CodeForbidden, "activity belongs to another member", err)
	}
	return apperr.FromStore(err, "activity not found")
}
