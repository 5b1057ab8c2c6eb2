package portfolio

import (
	"github.com/mbenkirane/cabinet-management/internal"
)

type CreatePortfolioDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreatePortfolioDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdatePortfolioDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (d UpdatePortfolioDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// SyncCollaboratorsDTO carries the full replacement collaborator set.
type SyncCollaboratorsDTO struct {
	UserIDs []int64 `json:"user_ids"`
}

func (d SyncCollaboratorsDTO) Validate() error {
	if d.UserIDs == nil {
		return internal.NewValidationFieldError("user_ids", "user_ids is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
