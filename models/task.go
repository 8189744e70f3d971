package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы задач. Хранятся как есть, "atrasada" — вычисляемый ярлык, не статус.
const (
	StatusPendente    = "pendente"
	StatusEmAndamento = "em_andamento"
	StatusConcluida   = "concluida"
	StatusCancelada   = "cancelada"
)

// Приоритеты задач
const (
	PriorityBaixa   = "baixa"
	PriorityMedia   = "media"
	PriorityUrgente = "urgente"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPendente, StatusEmAndamento, StatusConcluida, StatusCancelada:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityBaixa, PriorityMedia, PriorityUrgente:
		return true
	}
	return false
}

type Task struct {
	ID uint `gorm:"primaryKey" json:"id"`

	NucleusID   uint       `gorm:"index;not null" json:"nucleus_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:1000" json:"description"`
	Status      string     `gorm:"size:20;default:pendente" json:"status"`
	Priority    string     `gorm:"size:20;default:media" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   uint       `json:"created_by"`

	// Заполняется контроллером из task_assignments, в БД не хранится
	AssignedUsers []uint `gorm:"-" json:"assigned_users"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string {
	return "tasks_familia"
}

// TaskAssignment — связь задача ↔ назначенный пользователь
type TaskAssignment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TaskID uint `gorm:"index:idx_task_user,unique;not null" json:"task_id"`
	UserID uint `gorm:"index:idx_task_user,unique;not null" json:"user_id"`
}

// IsOverdue — задача просрочена, если срок в прошлом и она ещё не закрыта
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == StatusConcluida || t.Status == StatusCancelada {
		return false
	}
	return t.DueDate.Before(time.Now())
}

// DisplayStatus — статус для отображения: просроченная pendente показывается как "atrasada"
func (t *Task) DisplayStatus() string {
	if t.IsOverdue() && t.Status == StatusPendente {
		return "atrasada"
	}
	return t.Status
}
