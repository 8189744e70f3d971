package models

import "time"

// Роли пользователей. Семейный набор + административные роли.
const (
	RoleAdmin = "admin"
	RolePai   = "pai"
	RoleMae   = "mae"
	RoleFilho = "filho"
	RoleFilha = "filha"
	RoleOutro = "outro"
)

// ValidRole проверяет, что роль входит в допустимый набор
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePai, RoleMae, RoleFilho, RoleFilha, RoleOutro:
		return true
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:320;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"size:30;default:pai" json:"role"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Пользователь состоит максимум в одном семейном ядре
	NucleusID *uint `gorm:"index" json:"nucleus_id,omitempty"`

	// Первый вход: пользователь должен сменить выданный пароль
	FirstLoginCompleted bool       `gorm:"default:false" json:"first_login_completed"`
	LastLogin           *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
