package task

import (
	"time"

	"github.com/mbenkirane/cabinet-management/internal"
)

type CreateTaskDTO struct {
	ClientID    int64      `json:"client_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	OwnerID     *int64     `json:"owner_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (d CreateTaskDTO) Validate() error {
	if d.ClientID == 0 {
		return internal.NewValidationFieldError("client_id", "client_id is required", internal.ErrCodeValidationFailed)
	}
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateTaskDTO struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	OwnerID     *int64     `json:"owner_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (d UpdateTaskDTO) Validate() error {
	if d.Title != nil && *d.Title == "" {
		return internal.NewValidationFieldError("title", "title cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Status != nil && !ValidStatus(*d.Status) {
		return internal.NewValidationFieldError("status", "status must be one of EN_ATTENTE, EN_COURS, EN_VALIDATION, TERMINEE", internal.ErrCodeInvalidStatus)
	}
	if d.Progress != nil && (*d.Progress < 0 || *d.Progress > 100) {
		return internal.NewValidationFieldError("progress", "progress must be between 0 and 100", internal.ErrCodeInvalidProgress)
	}
	return nil
}

// SyncAssigneesDTO carries the full replacement assignee set.
type SyncAssigneesDTO struct {
	UserIDs []int64 `json:"user_ids"`
}

func (d SyncAssigneesDTO) Validate() error {
	if d.UserIDs == nil {
		return internal.NewValidationFieldError("user_ids", "user_ids is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
