package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mbenkirane/cabinet-management/internal"
	clientDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/client"
	taskDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/task"
	"github.com/mbenkirane/cabinet-management/internal/task"
)

// TaskRepository implements task.Repository using GORM.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetByID(id int64) (*task.Task, error) {
	var row taskDatamodel.Task
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTaskNotFound
		}
		return nil, err
	}
	return task.FromDataModel(&row), nil
}

func (r *TaskRepository) List() ([]*task.Task, error) {
	var rows []*taskDatamodel.Task
	if err := r.db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// ListForUser narrows the listing to tasks the user owns or is assigned to.
func (r *TaskRepository) ListForUser(userID int64) ([]*task.Task, error) {
	var rows []*taskDatamodel.Task
	err := r.db.
		Distinct("tasks.*").
		Joins("LEFT JOIN task_assignees ta ON ta.task_id = tasks.id").
		Where("tasks.owner_id = ? OR ta.user_id = ?", userID, userID).
		Order("tasks.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *TaskRepository) ListForClient(clientID int64) ([]*task.Task, error) {
	var rows []*taskDatamodel.Task
	if err := r.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *TaskRepository) Create(t *task.Task) error {
	row := task.ToDataModel(t)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	t.ID = row.ID
	t.CreatedAt = row.CreatedAt
	t.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *TaskRepository) Update(t *task.Task) error {
	now := time.Now()
	err := r.db.Model(&taskDatamodel.Task{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"progress":    t.Progress,
		"owner_id":    t.OwnerID,
		"due_date":    t.DueDate,
		"updated_at":  now,
	}).Error
	if err != nil {
		return err
	}
	t.UpdatedAt = now
	return nil
}

// Delete removes the task with its assignee links and time entries.
func (r *TaskRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&taskDatamodel.TaskAssignee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&taskDatamodel.TimeEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&taskDatamodel.Task{}).Error
	})
}

func (r *TaskRepository) ClientExists(clientID int64) (bool, error) {
	var count int64
	err := r.db.Model(&clientDatamodel.Client{}).Where("id = ?", clientID).Count(&count).Error
	return count > 0, err
}

func (r *TaskRepository) AssigneeIDs(taskID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&taskDatamodel.TaskAssignee{}).
		Where("task_id = ?", taskID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *TaskRepository) SyncAssignees(taskID int64, userIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&taskDatamodel.TaskAssignee{}).Error; err != nil {
			return err
		}
		for _, uid := range userIDs {
			link := &taskDatamodel.TaskAssignee{
				TaskID:    taskID,
				UserID:    uid,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func fromRows(rows []*taskDatamodel.Task) []*task.Task {
	out := make([]*task.Task, len(rows))
	for i, row := range rows {
		out[i] = task.FromDataModel(row)
	}
	return out
}
