package timeentry

import (
	"time"

	"github.com/mbenkirane/cabinet-management/internal"
)

type LogTimeDTO struct {
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes,omitempty"`
	Note            string     `json:"note"`
}

func (d LogTimeDTO) Validate() error {
	if d.StartedAt.IsZero() {
		return internal.NewValidationFieldError("started_at", "started_at is required", internal.ErrCodeValidationFailed)
	}
	if d.EndedAt != nil && d.EndedAt.Before(d.StartedAt) {
		return internal.NewValidationFieldError("ended_at", "ended_at cannot precede started_at", internal.ErrCodeInvalidDateRange)
	}
	if d.DurationMinutes != nil && *d.DurationMinutes < 0 {
		return internal.NewValidationFieldError("duration_minutes", "duration_minutes cannot be negative", internal.ErrCodeInvalidDuration)
	}
	return nil
}

type UpdateTimeEntryDTO struct {
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes,omitempty"`
	Note            *string    `json:"note,omitempty"`
}

func (d UpdateTimeEntryDTO) Validate() error {
	if d.DurationMinutes != nil && *d.DurationMinutes < 0 {
		return internal.NewValidationFieldError("duration_minutes", "duration_minutes cannot be negative", internal.ErrCodeInvalidDuration)
	}
	return nil
}
