package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
)

// MediaRepository persists metadata about uploaded images.
type MediaRepository interface {
	Create(ctx context.Context, asset *models.MediaAsset) error
	FindByChecksum(ctx context.Context, checksum string) (models.MediaAsset, error)
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository constructs a repository for media assets.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, asset *models.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *mediaRepository) FindByChecksum(ctx context.Context, checksum string) (models.MediaAsset, error) {
	var asset models.MediaAsset
	if err := r.db.WithContext(ctx).Where("checksum = ?", checksum).First(&asset).Error; err != nil {
		return models.MediaAsset{}, err
	}
	return asset, nil
}
