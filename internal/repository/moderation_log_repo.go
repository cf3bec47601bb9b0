package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
)

// ModerationLogFilter narrows audit trail queries.
type ModerationLogFilter struct {
	ActorID *uint
	Action  string
	Limit   int
	Offset  int
}

// ModerationLogRepository persists the moderation audit trail.
type ModerationLogRepository interface {
	Create(ctx context.Context, entry *models.ModerationLog) error
	List(ctx context.Context, filter ModerationLogFilter) ([]models.ModerationLog, int64, error)
}

type moderationLogRepository struct {
	db *gorm.DB
}

// NewModerationLogRepository constructs the audit trail repository.
func NewModerationLogRepository(db *gorm.DB) ModerationLogRepository {
	return &moderationLogRepository{db: db}
}

func (r *moderationLogRepository) Create(ctx context.Context, entry *models.ModerationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *moderationLogRepository) List(ctx context.Context, filter ModerationLogFilter) ([]models.ModerationLog, int64, error) {
	limit, offset := clampPage(filter.Limit, filter.Offset)

	query := r.db.WithContext(ctx).Model(&models.ModerationLog{})
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.ModerationLog
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
