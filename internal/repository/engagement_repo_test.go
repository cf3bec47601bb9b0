package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
)

func TestEngagementRepositoryLikeUniqueness(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	inserted, err := repo.InsertLike(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, inserted)

	// Second insert hits the unique index; conflict is reported, not raised.
	inserted, err = repo.InsertLike(ctx, 1, 2)
	require.NoError(t, err)
	require.False(t, inserted)

	total, err := repo.CountLikes(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	deleted, err := repo.DeleteLike(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.DeleteLike(ctx, 1, 2)
	require.NoError(t, err)
	require.False(t, deleted)

	total, err = repo.CountLikes(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestEngagementRepositoryHasLiked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	liked, err := repo.HasLiked(ctx, 5, 1)
	require.NoError(t, err)
	require.False(t, liked)

	_, err = repo.InsertLike(ctx, 5, 1)
	require.NoError(t, err)

	liked, err = repo.HasLiked(ctx, 5, 1)
	require.NoError(t, err)
	require.True(t, liked)
}

func TestEngagementRepositoryListLikersJoinsMembers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	member := models.Member{Isim: "Ayşe", Soyisim: "Yılmaz", Dernek: "Fatih Derneği"}
	require.NoError(t, db.Create(&member).Error)
	_, err := repo.InsertLike(ctx, 3, member.ID)
	require.NoError(t, err)

	likes, total, err := repo.ListLikers(ctx, 3, 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, likes, 1)
	require.NotNil(t, likes[0].User)
	require.Equal(t, "Ayşe Yılmaz", likes[0].User.FullName())
}

func TestEngagementRepositoryCommentsOrderedOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		comment := models.ActivityComment{ActivityID: 4, AuthorID: 1, Text: fmt.Sprintf("yorum %d", i)}
		require.NoError(t, repo.CreateComment(ctx, &comment))
	}

	comments, total, err := repo.ListComments(ctx, 4, 2, 0)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, comments, 2)
	require.Equal(t, "yorum 0", comments[0].Text)
	require.Equal(t, "yorum 1", comments[1].Text)

	comments, total, err = repo.ListComments(ctx, 4, 2, 4)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, comments, 1)

	comments, total, err = repo.ListComments(ctx, 4, 2, 10)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Empty(t, comments, "offset beyond total returns an empty page")
}

func TestEngagementRepositoryDeleteCommentMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)

	err := repo.DeleteComment(context.Background(), 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
