package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
	"github.com/ondertalhatorpil/uye-onder-api/internal/visibility"
)

// Sentinel errors surfaced by conditional writes. Services map them onto the
// error taxonomy.
var (
	ErrNotOwner         = errors.New("activity does not belong to the actor")
	ErrAlreadyProcessed = errors.New("already processed")
)

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	Il       string
	Ilce     string
	DernekID uint
	AuthorID uint
	Limit    int
	Offset   int
}

// DecidedFilter narrows the moderation history listing.
type DecidedFilter struct {
	Status  models.ActivityStatus
	AdminID uint
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// ContentPatch carries the author-editable fields of an activity. Nil fields
// are left untouched; a non-nil Images replaces the whole ordered list.
type ContentPatch struct {
	Title       *string
	Description *string
	Images      datatypes.JSON
}

// ActivityRepository persists activities and the moderation state machine.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id uint) (models.Activity, error)
	List(ctx context.Context, filter ActivityFilter, viewer visibility.Viewer) ([]models.Activity, int64, error)
	ListPending(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error)
	ListDecided(ctx context.Context, filter DecidedFilter) ([]models.Activity, int64, error)
	UpdateOwned(ctx context.Context, id, authorID uint, patch ContentPatch) (models.Activity, error)
	DeleteOwned(ctx context.Context, id, authorID uint) error
	Decide(ctx context.Context, id uint, status models.ActivityStatus, adminID uint, reason string, decidedAt time.Time) error
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository constructs a GORM-backed repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	activity.Status = models.ActivityStatusPending
	activity.ModeratedBy = nil
	activity.DecidedAt = nil
	activity.RejectionReason = ""
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).Preload("Author").First(&activity, id).Error; err != nil {
		return models.Activity{}, err
	}
	return activity, nil
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter, viewer visibility.Viewer) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{}).Scopes(visibility.Scope(viewer))
	query = applyActivityFilter(query, filter)
	return r.pageActivities(query, filter.Limit, filter.Offset, "created_at DESC")
}

func (r *activityRepository) ListPending(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("status = ?", models.ActivityStatusPending)
	query = applyActivityFilter(query, filter)
	return r.pageActivities(query, filter.Limit, filter.Offset, "created_at ASC")
}

func (r *activityRepository) ListDecided(ctx context.Context, filter DecidedFilter) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		query = query.Where("status IN ?", []models.ActivityStatus{
			models.ActivityStatusApproved,
			models.ActivityStatusRejected,
		})
	}
	if filter.AdminID > 0 {
		query = query.Where("moderated_by = ?", filter.AdminID)
	}
	if filter.From != nil {
		query = query.Where("decided_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("decided_at <= ?", *filter.To)
	}

	return r.pageActivities(query, filter.Limit, filter.Offset, "decided_at DESC")
}

func (r *activityRepository) UpdateOwned(ctx context.Context, id, authorID uint, patch ContentPatch) (models.Activity, error) {
	var activity models.Activity

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&activity, id).Error; err != nil {
			return err
		}
		if activity.AuthorID != authorID {
			return ErrNotOwner
		}

		updates := map[string]interface{}{}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Images != nil {
			updates["images"] = patch.Images
		}
		if len(updates) == 0 {
			return nil
		}

		return tx.Model(&activity).Updates(updates).Error
	})
	if err != nil {
		return models.Activity{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *activityRepository) DeleteOwned(ctx context.Context, id, authorID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activity models.Activity
		if err := tx.First(&activity, id).Error; err != nil {
			return err
		}
		if activity.AuthorID != authorID {
			return ErrNotOwner
		}

		if err := tx.Where("activity_id = ?", id).Delete(&models.ActivityLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", id).Delete(&models.ActivityComment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Activity{}, id).Error
	})
}

// Decide applies a moderation decision as a single conditional update. The
// WHERE status = 'pending' guard plus the affected-row count is the sole
// arbiter of the pending -> decided transition, so two concurrent decisions
// cannot both succeed.
func (r *activityRepository) Decide(ctx context.Context, id uint, status models.ActivityStatus, adminID uint, reason string, decidedAt time.Time) error {
	updates := map[string]interface{}{
		"status":           status,
		"moderated_by":     adminID,
		"decided_at":       decidedAt,
		"rejection_reason": reason,
		"updated_at":       decidedAt,
	}

	result := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("id = ? AND status = ?", id, models.ActivityStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Activity{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrAlreadyProcessed
}

func (r *activityRepository) pageActivities(query *gorm.DB, limit, offset int, order string) ([]models.Activity, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []models.Activity
	if err := query.Preload("Author").
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func applyActivityFilter(query *gorm.DB, filter ActivityFilter) *gorm.DB {
	if filter.Il != "" {
		query = query.Where("il = ?", filter.Il)
	}
	if filter.Ilce != "" {
		query = query.Where("ilce = ?", filter.Ilce)
	}
	if filter.DernekID > 0 {
		query = query.Where("dernek_id = ?", filter.DernekID)
	}
	if filter.AuthorID > 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	return query
}
