package role

import "github.com/mbenkirane/cabinet-management/internal"

type CreateRoleDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateRoleDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// SyncPermissionsDTO carries the full replacement permission id set for a
// role. Prior associations are overwritten, not merged.
type SyncPermissionsDTO struct {
	PermissionIDs []int64 `json:"permission_ids"`
}

func (d SyncPermissionsDTO) Validate() error {
	if d.PermissionIDs == nil {
		return internal.NewValidationFieldError("permission_ids", "permission_ids is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
