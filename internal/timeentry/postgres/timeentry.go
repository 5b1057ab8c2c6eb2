package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
	taskDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/task"
	"github.com/mbenkirane/cabinet-management/internal/timeentry"
)

// TimeEntryRepository implements timeentry.Repository and timeentry.TaskViews
// using GORM.
type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) GetByID(id int64) (*timeentry.TimeEntry, error) {
	var row taskDatamodel.TimeEntry
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTimeEntryNotFound
		}
		return nil, err
	}
	return timeentry.FromDataModel(&row), nil
}

func (r *TimeEntryRepository) ListByTask(taskID int64) ([]*timeentry.TimeEntry, error) {
	var rows []*taskDatamodel.TimeEntry
	if err := r.db.Where("task_id = ?", taskID).Order("started_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *TimeEntryRepository) ListByUser(userID int64) ([]*timeentry.TimeEntry, error) {
	var rows []*taskDatamodel.TimeEntry
	if err := r.db.Where("user_id = ?", userID).Order("started_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *TimeEntryRepository) Create(e *timeentry.TimeEntry) error {
	row := timeentry.ToDataModel(e)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	e.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *TimeEntryRepository) Update(e *timeentry.TimeEntry) error {
	now := time.Now()
	err := r.db.Model(&taskDatamodel.TimeEntry{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
		"started_at":       e.StartedAt,
		"ended_at":         e.EndedAt,
		"duration_minutes": e.DurationMinutes,
		"note":             e.Note,
		"updated_at":       now,
	}).Error
	if err != nil {
		return err
	}
	e.UpdatedAt = now
	return nil
}

func (r *TimeEntryRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&taskDatamodel.TimeEntry{}).Error
}

// TaskView satisfies timeentry.TaskViews: the parent task's relationship
// data, preloaded for the authorization engine.
func (r *TimeEntryRepository) TaskView(taskID int64) (authz.TaskView, error) {
	var row taskDatamodel.Task
	if err := r.db.Where("id = ?", taskID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authz.TaskView{}, internal.ErrTaskNotFound
		}
		return authz.TaskView{}, err
	}

	var assigneeIDs []int64
	err := r.db.Model(&taskDatamodel.TaskAssignee{}).
		Where("task_id = ?", taskID).
		Pluck("user_id", &assigneeIDs).Error
	if err != nil {
		return authz.TaskView{}, err
	}

	return authz.TaskView{
		ID:          row.ID,
		ClientID:    row.ClientID,
		OwnerID:     row.OwnerID,
		AssigneeIDs: assigneeIDs,
	}, nil
}

func fromRows(rows []*taskDatamodel.TimeEntry) []*timeentry.TimeEntry {
	out := make([]*timeentry.TimeEntry, len(rows))
	for i, row := range rows {
		out[i] = timeentry.FromDataModel(row)
	}
	return out
}
