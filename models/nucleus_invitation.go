package models

import "time"

type NucleusInvitation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NucleusID uint      `json:"nucleus_id"`                   // ядро, в которое приглашают
	Email     string    `gorm:"not null" json:"email"`        // email приглашённого
	Token     string    `gorm:"unique;not null" json:"token"` // уникальный токен приглашения
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
