package timeentry

import (
	"math"
	"time"

	"github.com/mbenkirane/cabinet-management/internal/authz"
	taskDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/task"
)

type TimeEntry struct {
	ID              int64      `json:"id"`
	TaskID          int64      `json:"task_id"`
	UserID          int64      `json:"user_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationMinutes *int64     `json:"duration_minutes"`
	Note            string     `json:"note"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// View projects the entry into the shape the authorization engine decides on.
func (e *TimeEntry) View() authz.TimeEntryView {
	return authz.TimeEntryView{
		ID:     e.ID,
		TaskID: e.TaskID,
		UserID: e.UserID,
	}
}

// Minutes resolves the entry's duration: the explicit value when present,
// otherwise round((ended_at - started_at) / minute). Entries still running
// (no end, no duration) count zero.
func (e *TimeEntry) Minutes() int64 {
	if e.DurationMinutes != nil {
		return *e.DurationMinutes
	}
	if e.EndedAt == nil {
		return 0
	}
	return int64(math.Round(e.EndedAt.Sub(e.StartedAt).Minutes()))
}

func FromDataModel(row *taskDatamodel.TimeEntry) *TimeEntry {
	return &TimeEntry{
		ID:              row.ID,
		TaskID:          row.TaskID,
		UserID:          row.UserID,
		StartedAt:       row.StartedAt,
		EndedAt:         row.EndedAt,
		DurationMinutes: row.DurationMinutes,
		Note:            row.Note,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func ToDataModel(e *TimeEntry) *taskDatamodel.TimeEntry {
	return &taskDatamodel.TimeEntry{
		ID:              e.ID,
		TaskID:          e.TaskID,
		UserID:          e.UserID,
		StartedAt:       e.StartedAt,
		EndedAt:         e.EndedAt,
		DurationMinutes: e.DurationMinutes,
		Note:            e.Note,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
