package models

import "time"

// FamilyNucleus — семейное ядро: именованная группа пользователей (одна семья)
type FamilyNucleus struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedBy   uint      `json:"created_by"` // Пользователь, создавший ядро
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (FamilyNucleus) TableName() string {
	return "family_nuclei"
}
