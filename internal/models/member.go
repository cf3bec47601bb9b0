package models

import "time"

// Member mirrors the federation member directory owned by the identity
// service. This service only reads it for denormalized author display fields.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Isim      string    `gorm:"size:128" json:"isim"`
	Soyisim   string    `gorm:"size:128" json:"soyisim"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	Role      string    `gorm:"size:32;default:member" json:"role"`
	Il        string    `gorm:"size:64" json:"il"`
	Ilce      string    `gorm:"size:64" json:"ilce"`
	DernekID  *uint     `json:"dernek_id"`
	Dernek    string    `gorm:"size:255" json:"dernek"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins the member's given and family names for display.
func (m Member) FullName() string {
	if m.Soyisim == "" {
		return m.Isim
	}
	return m.Isim + " " + m.Soyisim
}
