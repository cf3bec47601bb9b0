package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
)

// MemberRepository reads the member directory mirror. The directory itself is
// owned by the identity service; this side never writes it.
type MemberRepository interface {
	GetByID(ctx context.Context, id uint) (models.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository constructs a read-only member lookup.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetByID(ctx context.Context, id uint) (models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return models.Member{}, err
	}
	return member, nil
}
