package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
)

// EngagementRepository persists likes and comments. The unique index on
// (activity_id, user_id) is the source of truth for the like invariant;
// InsertLike reports a conflict instead of failing so the toggle can invert.
type EngagementRepository interface {
	InsertLike(ctx context.Context, activityID, userID uint) (inserted bool, err error)
	DeleteLike(ctx context.Context, activityID, userID uint) (deleted bool, err error)
	CountLikes(ctx context.Context, activityID uint) (int64, error)
	HasLiked(ctx context.Context, activityID, userID uint) (bool, error)
	ListLikers(ctx context.Context, activityID uint, limit, offset int) ([]models.ActivityLike, int64, error)

	CreateComment(ctx context.Context, comment *models.ActivityComment) error
	GetComment(ctx context.Context, id uint) (models.ActivityComment, error)
	DeleteComment(ctx context.Context, id uint) error
	CountComments(ctx context.Context, activityID uint) (int64, error)
	ListComments(ctx context.Context, activityID uint, limit, offset int) ([]models.ActivityComment, int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository constructs a GORM-backed repository.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) InsertLike(ctx context.Context, activityID, userID uint) (bool, error) {
	like := models.ActivityLike{ActivityID: activityID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *engagementRepository) DeleteLike(ctx context.Context, activityID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Delete(&models.ActivityLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *engagementRepository) CountLikes(ctx context.Context, activityID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.ActivityLike{}).
		Where("activity_id = ?", activityID).
		Count(&total).Error
	return total, err
}

func (r *engagementRepository) HasLiked(ctx context.Context, activityID, userID uint) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.ActivityLike{}).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Count(&total).Error
	return total > 0, err
}

func (r *engagementRepository) ListLikers(ctx context.Context, activityID uint, limit, offset int) ([]models.ActivityLike, int64, error) {
	limit, offset = clampPage(limit, offset)

	query := r.db.WithContext(ctx).Model(&models.ActivityLike{}).
		Where("activity_id = ?", activityID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var likes []models.ActivityLike
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&likes).Error; err != nil {
		return nil, 0, err
	}

	return likes, total, nil
}

func (r *engagementRepository) CreateComment(ctx context.Context, comment *models.ActivityComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *engagementRepository) GetComment(ctx context.Context, id uint) (models.ActivityComment, error) {
	var comment models.ActivityComment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return models.ActivityComment{}, err
	}
	return comment, nil
}

func (r *engagementRepository) DeleteComment(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ActivityComment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *engagementRepository) CountComments(ctx context.Context, activityID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.ActivityComment{}).
		Where("activity_id = ?", activityID).
		Count(&total).Error
	return total, err
}

func (r *engagementRepository) ListComments(ctx context.Context, activityID uint, limit, offset int) ([]models.ActivityComment, int64, error) {
	limit, offset = clampPage(limit, offset)

	query := r.db.WithContext(ctx).Model(&models.ActivityComment{}).
		Where("activity_id = ?", activityID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.ActivityComment
	if err := query.Preload("Author").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
