package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskIsOverdue(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		task    Task
		overdue bool
	}{
		{"без срока", Task{Status: StatusPendente}, false},
		{"срок в будущем", Task{Status: StatusPendente, DueDate: &future}, false},
		{"просрочена", Task{Status: StatusPendente, DueDate: &past}, true},
		{"просрочена, но в работе", Task{Status: StatusEmAndamento, DueDate: &past}, true},
		{"выполнена — не просрочена", Task{Status: StatusConcluida, DueDate: &past}, false},
		{"отменена — не просрочена", Task{Status: StatusCancelada, DueDate: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overdue, tt.task.IsOverdue())
		})
	}
}

func TestTaskDisplayStatus(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)

	// просроченная pendente показывается как atrasada, статус в БД не меняется
	task := Task{Status: StatusPendente, DueDate: &past}
	assert.Equal(t, "atrasada", task.DisplayStatus())
	assert.Equal(t, StatusPendente, task.Status)

	// просроченная em_andamento остается em_andamento
	task.Status = StatusEmAndamento
	assert.Equal(t, StatusEmAndamento, task.DisplayStatus())
}

func TestValidStatusAndPriority(t *testing.T) {
	assert.True(t, ValidStatus(StatusPendente))
	assert.True(t, ValidStatus(StatusCancelada))
	assert.False(t, ValidStatus("atrasada")) // вычисляемый ярлык, не статус
	assert.False(t, ValidStatus(""))

	assert.True(t, ValidPriority(PriorityUrgente))
	assert.False(t, ValidPriority("critica"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleFilha))
	assert.False(t, ValidRole("vendedor"))
}
