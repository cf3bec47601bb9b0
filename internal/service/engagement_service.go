package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
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

const maxCommentLength = 1000

// EngagementService owns likes and comments. Engagement is independent of
// moderation state: likes and comments survive a later rejection, but every
// read and write is still gated by the visibility of the parent activity.
type EngagementService interface {
	ToggleLike(ctx context.Context, activityID uint, actor Actor) (dto.ToggleLikeResponse, error)
	AddComment(ctx context.Context, activityID uint, actor Actor, payload dto.CommentCreateRequest) (dto.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID uint, actor Actor) (dto.DeleteCommentResponse, error)
	Summary(ctx context.Context, activityID uint, viewer Actor) (dto.InteractionSummaryResponse, error)
	ListLikers(ctx context.Context, activityID uint, limit, offset int, viewer Actor) ([]dto.LikerResponse, int64, error)
	ListComments(ctx context.Context, activityID uint, limit, offset int, viewer Actor) ([]dto.CommentResponse, int64, error)
}

type engagementService struct {
	engagement   repository.EngagementRepository
	activities   repository.ActivityRepository
	members      repository.MemberRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	logger       zerolog.Logger
	tracer       trace.Tracer
	storeTimeout time.Duration
}

// NewEngagementService constructs an engagement service. The cache client may
// be nil; counting then always falls back to the store.
func NewEngagementService(engagement repository.EngagementRepository, activities repository.ActivityRepository, members repository.MemberRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, storeTimeout time.Duration, logger zerolog.Logger) EngagementService {
	return &engagementService{
		engagement:   engagement,
		activities:   activities,
		members:      members,
		cache:        cache,
		cacheTTL:     cacheTTL,
		validator:    validate,
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "engagement_service").Logger(),
		tracer:       otel.Tracer("github.com/ondertalhatorpil/uye-onder-api/internal/service/engagement"),
		storeTimeout: storeTimeout,
	}
}

func (s *engagementService) ToggleLike(ctx context.Context, activityID uint, actor Actor) (dto.ToggleLikeResponse, error) {
	if err := requireMember(actor); err != nil {
		return dto.ToggleLikeResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "engagement.toggle_like", trace.WithAttributes(
		attribute.Int("engagement.activity_id", int(activityID)),
		attribute.Int("engagement.user_id", int(actor.ID)),
	))
	defer span.End()

	storeCtx, cancel := withStoreTimeout(spanCtx, s.storeTimeout)
	defer cancel()

	if _, err := s.visibleActivity(storeCtx, activityID, actor); err != nil {
		return dto.ToggleLikeResponse{}, err
	}

	action := dto.LikeActionAdded
	inserted, err := s.engagement.InsertLike(storeCtx, activityID, actor.ID)
	if err != nil {
		span.RecordError(err)
		return dto.ToggleLikeResponse{}, apperr.FromStore(err, "activity not found")
	}
	if !inserted {
		deleted, err := s.engagement.DeleteLike(storeCtx, activityID, actor.ID)
		if err != nil {
			span.RecordError(err)
			return dto.ToggleLikeResponse{}, apperr.FromStore(err, "activity not found")
		}
		if deleted {
			action = dto.LikeActionRemoved
		} else {
			// Lost a race with a concurrent toggle that removed the row
			// first; apply this call as the add it set out to invert.
			if _, err := s.engagement.InsertLike(storeCtx, activityID, actor.ID); err != nil {
				span.RecordError(err)
				return dto.ToggleLikeResponse{}, apperr.FromStore(err, "activity not found")
			}
		}
	}

	s.invalidateSummary(storeCtx, activityID)

	count, err := s.engagement.CountLikes(storeCtx, activityID)
	if err != nil {
		return dto.ToggleLikeResponse{}, apperr.FromStore(err, "activity not found")
	}

	return dto.ToggleLikeResponse{Action: action, LikeCount: count}, nil
}

func (s *engagementService) AddComment(ctx context.Context, activityID uint, actor Actor, payload dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if err := requireMember(actor); err != nil {
		return dto.CommentResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, apperr.Wrap(apperr.CodeValidation, "invalid comment payload", err)
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if text == "" {
		return dto.CommentResponse{}, apperr.Validation("comment text must not be empty")
	}
	if len([]rune(text)) > maxCommentLength {
		return dto.CommentResponse{}, apperr.Validation("comment text exceeds 1000 characters")
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.visibleActivity(storeCtx, activityID, actor); err != nil {
		return dto.CommentResponse{}, err
	}

	comment := models.ActivityComment{
		ActivityID: activityID,
		AuthorID:   actor.ID,
		Text:       text,
	}
	if err := s.engagement.CreateComment(storeCtx, &comment); err != nil {
		return dto.CommentResponse{}, apperr.FromStore(err, "activity not found")
	}

	s.invalidateSummary(storeCtx, activityID)

	author, err := s.members.GetByID(storeCtx, actor.ID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("author_id", actor.ID).Msg("comment author lookup failed")
		return dto.NewCommentResponse(comment, nil), nil
	}

	return dto.NewCommentResponse(comment, &author), nil
}

func (s *engagementService) DeleteComment(ctx context.Context, commentID uint, actor Actor) (dto.DeleteCommentResponse, error) {
	if err := requireMember(actor); err != nil {
		return dto.DeleteCommentResponse{}, err
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	comment, err := s.engagement.GetComment(storeCtx, commentID)
	if err != nil {
		return dto.DeleteCommentResponse{}, apperr.FromStore(err, "comment not found")
	}

	if comment.AuthorID != actor.ID && !actor.IsAdmin() {
		return dto.DeleteCommentResponse{}, apperr.Forbidden("comment belongs to another member")
	}

	if err := s.engagement.DeleteComment(storeCtx, commentID); err != nil {
		return dto.DeleteCommentResponse{}, apperr.FromStore(err, "comment not found")
	}

	s.invalidateSummary(storeCtx, comment.ActivityID)

	s.logger.Info().
		Uint("comment_id", commentID).
		Uint("activity_id", comment.ActivityID).
		Uint("actor_id", actor.ID).
		Msg("comment deleted")

	return dto.DeleteCommentResponse{ActivityID: comment.ActivityID}, nil
}

func (s *engagementService) Summary(ctx context.Context, activityID uint, viewer Actor) (dto.InteractionSummaryResponse, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.visibleActivity(storeCtx, activityID, viewer); err != nil {
		return dto.InteractionSummaryResponse{}, err
	}

	summary, err := s.counts(storeCtx, activityID)
	if err != nil {
		return dto.InteractionSummaryResponse{}, err
	}

	if viewer.ID != 0 {
		liked, err := s.engagement.HasLiked(storeCtx, activityID, viewer.ID)
		if err != nil {
			return dto.InteractionSummaryResponse{}, apperr.FromStore(err, "activity not found")
		}
		summary.ViewerHasLiked = liked
	}

	return summary, nil
}

func (s *engagementService) ListLikers(ctx context.Context, activityID uint, limit, offset int, viewer Actor) ([]dto.LikerResponse, int64, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.visibleActivity(storeCtx, activityID, viewer); err != nil {
		return nil, 0, err
	}

	likes, total, err := s.engagement.ListLikers(storeCtx, activityID, limit, offset)
	if err != nil {
		return nil, 0, apperr.FromStore(err, "activity not found")
	}

	likers := make([]dto.LikerResponse, 0, len(likes))
	for _, like := range likes {
		liker := dto.LikerResponse{UserID: like.UserID, LikedAt: like.CreatedAt}
		if like.User != nil {
			liker.Name = like.User.FullName()
			liker.AvatarURL = like.User.AvatarURL
			liker.Dernek = like.User.Dernek
		}
		likers = append(likers, liker)
	}

	return likers, total, nil
}

func (s *engagementService) ListComments(ctx context.Context, activityID uint, limit, offset int, viewer Actor) ([]dto.CommentResponse, int64, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.visibleActivity(storeCtx, activityID, viewer); err != nil {
		return nil, 0, err
	}

	comments, total, err := s.engagement.ListComments(storeCtx, activityID, limit, offset)
	if err != nil {
		return nil, 0, apperr.FromStore(err, "activity not found")
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, dto.NewCommentResponse(comment, comment.Author))
	}

	return responses, total, nil
}

// visibleActivity loads the parent activity and hides invisible ones behind
// the same not-found error a missing activity produces.
func (s *engagementService) visibleActivity(ctx context.Context, activityID uint, viewer Actor) (models.Activity, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return models.Activity{}, apperr.FromStore(err, "activity not found")
	}
	if !visibility.Visible(activity, viewer.Viewer()) {
		return models.Activity{}, apperr.NotFound("activity not found")
	}
	return activity, nil
}

type cachedCounts struct {
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
}

func (s *engagementService) counts(ctx context.Context, activityID uint) (dto.InteractionSummaryResponse, error) {
	key := summaryCacheKey(activityID)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var cached cachedCounts
			if unmarshalErr := json.Unmarshal([]byte(raw), &cached); unmarshalErr == nil {
				return dto.InteractionSummaryResponse{LikeCount: cached.LikeCount, CommentCount: cached.CommentCount}, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read engagement summary cache")
		}
	}

	likes, err := s.engagement.CountLikes(ctx, activityID)
	if err != nil {
		return dto.InteractionSummaryResponse{}, apperr.FromStore(err, "activity not found")
	}
	comments, err := s.engagement.CountComments(ctx, activityID)
	if err != nil {
		return dto.InteractionSummaryResponse{}, apperr.FromStore(err, "activity not found")
	}

	if s.cache != nil {
		payload, err := json.Marshal(cachedCounts{LikeCount: likes, CommentCount: comments})
		if err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store engagement summary cache")
			}
		}
	}

	return dto.InteractionSummaryResponse{LikeCount: likes, CommentCount: comments}, nil
}

// invalidateSummary drops the cached counters after a write so the cache can
// never contradict the store for longer than one read.
func (s *engagementService) invalidateSummary(ctx context.Context, activityID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, summaryCacheKey(activityID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("activity_id", activityID).Msg("failed to invalidate engagement summary cache")
	}
}

func summaryCacheKey(activityID uint) string {
	return fmt.Sprintf("engagement:summary:%d", activityID)
}
