package task

import (
	"time"

	"github.com/mbenkirane/cabinet-management/internal/authz"
	taskDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/task"
)

const (
	StatusEnAttente    = "EN_ATTENTE"
	StatusEnCours      = "EN_COURS"
	StatusEnValidation = "EN_VALIDATION"
	StatusTerminee     = "TERMINEE"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusEnAttente, StatusEnCours, StatusEnValidation, StatusTerminee:
		return true
	}
	return false
}

type Task struct {
	ID          int64      `json:"id"`
	ClientID    int64      `json:"client_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	OwnerID     *int64     `json:"owner_id"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeIDs []int64    `json:"assignee_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// View projects the task into the shape the authorization engine decides on.
func (t *Task) View() authz.TaskView {
	return authz.TaskView{
		ID:          t.ID,
		ClientID:    t.ClientID,
		OwnerID:     t.OwnerID,
		AssigneeIDs: t.AssigneeIDs,
	}
}

func FromDataModel(row *taskDatamodel.Task) *Task {
	return &Task{
		ID:          row.ID,
		ClientID:    row.ClientID,
		Title:       row.Title,
		Description: row.Description,
		Status:      row.Status,
		Progress:    row.Progress,
		OwnerID:     row.OwnerID,
		DueDate:     row.DueDate,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:          t.ID,
		ClientID:    t.ClientID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Progress:    t.Progress,
		OwnerID:     t.OwnerID,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
