package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ondertalhatorpil/uye-onder-api/internal/dto"
	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
	"github.com/ondertalhatorpil/uye-onder-api/internal/visibility"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

func TestActivityRepositoryCreateForcesPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	adminID := uint(9)
	now := time.Now()
	activity := models.Activity{
		AuthorID:    1,
		Description: "Kan bağışı organize ettik",
		Images:      dto.ImagesToJSON(nil),
		Status:      models.ActivityStatusApproved,
		ModeratedBy: &adminID,
		DecidedAt:   &now,
	}
	require.NoError(t, repo.Create(context.Background(), &activity))

	stored, err := repo.GetByID(context.Background(), activity.ID)
	require.NoError(t, err)
	require.Equal(t, models.ActivityStatusPending, stored.Status)
	require.Nil(t, stored.ModeratedBy)
	require.Nil(t, stored.DecidedAt)
	require.Empty(t, stored.RejectionReason)
}

func TestActivityRepositoryListCountsVisibleSetOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &models.Activity{AuthorID: 1, Description: "pending"}))
	}
	approved := models.Activity{AuthorID: 2, Description: "approved"}
	require.NoError(t, repo.Create(context.Background(), &approved))
	require.NoError(t, db.Model(&models.Activity{}).Where("id = ?", approved.ID).
		Update("status", models.ActivityStatusApproved).Error)

	activities, total, err := repo.List(context.Background(), ActivityFilter{Limit: 10}, visibility.Viewer{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total, "anonymous totals must cover only the visible set")
	require.Len(t, activities, 1)

	activities, total, err = repo.List(context.Background(), ActivityFilter{Limit: 10}, visibility.Viewer{ID: 1, Role: "member"})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, activities, 4)

	_, total, err = repo.List(context.Background(), ActivityFilter{Limit: 10}, visibility.Viewer{ID: 9, Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
}

func TestActivityRepositoryListFiltersByLocality(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	dernek := uint(7)
	istanbul := models.Activity{AuthorID: 1, Description: "a", Il: "İstanbul", Ilce: "Fatih", DernekID: &dernek}
	ankara := models.Activity{AuthorID: 1, Description: "b", Il: "Ankara", Ilce: "Çankaya"}
	require.NoError(t, repo.Create(context.Background(), &istanbul))
	require.NoError(t, repo.Create(context.Background(), &ankara))

	admin := visibility.Viewer{ID: 9, Role: "admin"}

	activities, total, err := repo.List(context.Background(), ActivityFilter{Il: "İstanbul", Limit: 10}, admin)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, istanbul.ID, activities[0].ID)

	activities, _, err = repo.List(context.Background(), ActivityFilter{DernekID: dernek, Limit: 10}, admin)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, istanbul.ID, activities[0].ID)
}

func TestActivityRepositoryUpdateOwned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	activity := models.Activity{AuthorID: 1, Description: "before"}
	require.NoError(t, repo.Create(context.Background(), &activity))

	title := "Yeni başlık"
	updated, err := repo.UpdateOwned(context.Background(), activity.ID, 1, ContentPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Yeni başlık", updated.Title)
	require.Equal(t, "before", updated.Description)
	require.Equal(t, models.ActivityStatusPending, updated.Status, "content patch must not touch moderation state")

	_, err = repo.UpdateOwned(context.Background(), activity.ID, 2, ContentPatch{Title: &title})
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = repo.UpdateOwned(context.Background(), 999, 1, ContentPatch{Title: &title})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActivityRepositoryDeleteOwnedCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	activity := models.Activity{AuthorID: 1, Description: "to delete"}
	require.NoError(t, repo.Create(context.Background(), &activity))
	require.NoError(t, db.Create(&models.ActivityLike{ActivityID: activity.ID, UserID: 2}).Error)
	require.NoError(t, db.Create(&models.ActivityComment{ActivityID: activity.ID, AuthorID: 2, Text: "güzel"}).Error)

	require.ErrorIs(t, repo.DeleteOwned(context.Background(), activity.ID, 2), ErrNotOwner)
	require.NoError(t, repo.DeleteOwned(context.Background(), activity.ID, 1))

	var likes, comments int64
	require.NoError(t, db.Model(&models.ActivityLike{}).Where("activity_id = ?", activity.ID).Count(&likes).Error)
	require.NoError(t, db.Model(&models.ActivityComment{}).Where("activity_id = ?", activity.ID).Count(&comments).Error)
	require.Zero(t, likes)
	require.Zero(t, comments)

	_, err := repo.GetByID(context.Background(), activity.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActivityRepositoryDecideIsConditional(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	activity := models.Activity{AuthorID: 1, Description: "pending"}
	require.NoError(t, repo.Create(context.Background(), &activity))

	decidedAt := time.Now()
	require.NoError(t, repo.Decide(context.Background(), activity.ID, models.ActivityStatusApproved, 9, "", decidedAt))

	stored, err := repo.GetByID(context.Background(), activity.ID)
	require.NoError(t, err)
	require.Equal(t, models.ActivityStatusApproved, stored.Status)
	require.NotNil(t, stored.ModeratedBy)
	require.Equal(t, uint(9), *stored.ModeratedBy)
	require.NotNil(t, stored.DecidedAt)

	err = repo.Decide(context.Background(), activity.ID, models.ActivityStatusApproved, 9, "", time.Now())
	require.ErrorIs(t, err, ErrAlreadyProcessed)

	err = repo.Decide(context.Background(), 999, models.ActivityStatusApproved, 9, "", time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActivityRepositoryDecideRejectStoresReason(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	activity := models.Activity{AuthorID: 1, Description: "pending"}
	require.NoError(t, repo.Create(context.Background(), &activity))

	require.NoError(t, repo.Decide(context.Background(), activity.ID, models.ActivityStatusRejected, 9, "Görsel eksik", time.Now()))

	stored, err := repo.GetByID(context.Background(), activity.ID)
	require.NoError(t, err)
	require.Equal(t, models.ActivityStatusRejected, stored.Status)
	require.Equal(t, "Görsel eksik", stored.RejectionReason)

	err = repo.Decide(context.Background(), activity.ID, models.ActivityStatusApproved, 9, "", time.Now())
	require.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestActivityRepositoryListDecided(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	first := models.Activity{AuthorID: 1, Description: "a"}
	second := models.Activity{AuthorID: 1, Description: "b"}
	pending := models.Activity{AuthorID: 1, Description: "c"}
	require.NoError(t, repo.Create(context.Background(), &first))
	require.NoError(t, repo.Create(context.Background(), &second))
	require.NoError(t, repo.Create(context.Background(), &pending))

	require.NoError(t, repo.Decide(context.Background(), first.ID, models.ActivityStatusApproved, 9, "", time.Now().Add(-time.Hour)))
	require.NoError(t, repo.Decide(context.Background(), second.ID, models.ActivityStatusRejected, 10, "sebep", time.Now()))

	decided, total, err := repo.ListDecided(context.Background(), DecidedFilter{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, decided, 2)
	require.Equal(t, second.ID, decided[0].ID, "expected newest decision first")

	decided, total, err = repo.ListDecided(context.Background(), DecidedFilter{AdminID: 9, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, first.ID, decided[0].ID)

	decided, _, err = repo.ListDecided(context.Background(), DecidedFilter{Status: models.ActivityStatusRejected, Limit: 10})
	require.NoError(t, err)
	require.Len(t, decided, 1)
	require.Equal(t, second.ID, decided[0].ID)
}
