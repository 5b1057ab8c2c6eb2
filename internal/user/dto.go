package user

import (
	"strings"
	"time"

	"github.com/mbenkirane/cabinet-management/internal"
)

type CreateUserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (d CreateUserDTO) Validate() error {
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateUserDTO struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (d UpdateUserDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// SyncRolesDTO carries the full replacement role id set for a user.
type SyncRolesDTO struct {
	RoleIDs []int64 `json:"role_ids"`
}

func (d SyncRolesDTO) Validate() error {
	if d.RoleIDs == nil {
		return internal.NewValidationFieldError("role_ids", "role_ids is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type SetRateDTO struct {
	HourlyRateMAD float64   `json:"hourly_rate_mad"`
	EffectiveFrom time.Time `json:"effective_from"`
}

func (d SetRateDTO) Validate() error {
	if d.HourlyRateMAD <= 0 {
		return internal.NewValidationFieldError("hourly_rate_mad", "hourly rate must be positive", internal.ErrCodeValidationFailed)
	}
	if d.EffectiveFrom.IsZero() {
		return internal.NewValidationFieldError("effective_from", "effective_from is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
