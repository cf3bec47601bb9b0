package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
	"github.com/ondertalhatorpil/uye-onder-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Member{},
		&models.Activity{},
		&models.ActivityLike{},
		&models.ActivityComment{},
		&models.ModerationLog{},
		&models.MediaAsset{},
	))
	return db
}

func seedMember(t *testing.T, db *gorm.DB, member models.Member) models.Member {
	t.Helper()
	require.NoError(t, db.Create(&member).Error)
	return member
}

func seedPendingActivity(t *testing.T, db *gorm.DB, authorID uint, description string) models.Activity {
	t.Helper()
	repo := repository.NewActivityRepository(db)
	activity := models.Activity{AuthorID: authorID, Description: description}
	require.NoError(t, repo.Create(context.Background(), &activity))
	return activity
}

func approveActivity(t *testing.T, db *gorm.DB, activityID, adminID uint) {
	t.Helper()
	repo := repository.NewActivityRepository(db)
	require.NoError(t, repo.Decide(context.Background(), activityID, models.ActivityStatusApproved, adminID, "", time.Now()))
}
