package timeentry

import (
	"log/slog"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
)

type Repository interface {
	GetByID(id int64) (*TimeEntry, error)
	ListByTask(taskID int64) ([]*TimeEntry, error)
	ListByUser(userID int64) ([]*TimeEntry, error)
	Create(e *TimeEntry) error
	Update(e *TimeEntry) error
	Delete(id int64) error
}

// TaskViews loads the parent task's authorization view; the task service's
// repository backs it in production.
type TaskViews interface {
	TaskView(taskID int64) (authz.TaskView, error)
}

type Service struct {
	repo       Repository
	tasks      TaskViews
	policy     authz.TimeEntryPolicy
	taskPolicy authz.TaskPolicy
	logger     *slog.Logger
}

func NewService(repo Repository, tasks TaskViews, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tasks:  tasks,
		logger: logger,
	}
}

// LogTime records time against a task. The actor must both hold the entry
// creation right and be able to log against the parent task (view it).
func (s *Service) LogTime(actor *authz.Actor, taskID int64, dto LogTimeDTO) (*TimeEntry, error) {
	view, err := s.tasks.TaskView(taskID)
	if err != nil {
		return nil, internal.ErrTaskNotFound
	}

	if !s.policy.Create(actor) || !s.taskPolicy.LogTime(actor, view) {
		s.logger.Warn("log time denied", "user_id", actorID(actor), "task_id", taskID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e := &TimeEntry{
		TaskID:          taskID,
		UserID:          actorID(actor),
		StartedAt:       dto.StartedAt,
		EndedAt:         dto.EndedAt,
		DurationMinutes: dto.DurationMinutes,
		Note:            dto.Note,
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to log time", "error", err, "task_id", taskID)
		return nil, err
	}

	s.logger.Info("time logged", "entry_id", e.ID, "task_id", taskID, "minutes", e.Minutes())
	return e, nil
}

// ListByTask returns a task's entries to actors who may view the task.
func (s *Service) ListByTask(actor *authz.Actor, taskID int64) ([]*TimeEntry, error) {
	view, err := s.tasks.TaskView(taskID)
	if err != nil {
		return nil, internal.ErrTaskNotFound
	}

	if !s.taskPolicy.View(actor, view) {
		return nil, internal.ErrAccessDenied
	}

	entries, err := s.repo.ListByTask(taskID)
	if err != nil {
		s.logger.Error("failed to list time entries", "error", err, "task_id", taskID)
		return nil, err
	}
	return entries, nil
}

// ListByUser returns a user's entries: their own freely, anyone's for actors
// with broad time visibility.
func (s *Service) ListByUser(actor *authz.Actor, userID int64) ([]*TimeEntry, error) {
	if actorID(actor) != userID && !s.policy.ViewAny(actor) {
		return nil, internal.ErrAccessDenied
	}

	entries, err := s.repo.ListByUser(userID)
	if err != nil {
		s.logger.Error("failed to list user time entries", "error", err, "user_id", userID)
		return nil, err
	}
	return entries, nil
}

// Get loads one entry addressed through its parent task. A mismatched task
// id yields NotFound, even for otherwise-authorized callers.
func (s *Service) Get(actor *authz.Actor, taskID, entryID int64) (*TimeEntry, error) {
	e, err := s.loadForTask(taskID, entryID)
	if err != nil {
		return nil, err
	}

	if !s.policy.View(actor, e.View()) {
		return nil, internal.ErrAccessDenied
	}
	return e, nil
}

func (s *Service) Update(actor *authz.Actor, taskID, entryID int64, dto UpdateTimeEntryDTO) (*TimeEntry, error) {
	e, err := s.loadForTask(taskID, entryID)
	if err != nil {
		return nil, err
	}

	if !s.policy.Update(actor, e.View()) {
		s.logger.Warn("update time entry denied", "user_id", actorID(actor), "entry_id", entryID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.StartedAt != nil {
		e.StartedAt = *dto.StartedAt
	}
	if dto.EndedAt != nil {
		e.EndedAt = dto.EndedAt
	}
	if dto.DurationMinutes != nil {
		e.DurationMinutes = dto.DurationMinutes
	}
	if dto.Note != nil {
		e.Note = *dto.Note
	}

	if e.EndedAt != nil && e.EndedAt.Before(e.StartedAt) {
		return nil, internal.NewValidationFieldError("ended_at", "ended_at cannot precede started_at", internal.ErrCodeInvalidDateRange)
	}

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update time entry", "error", err, "entry_id", entryID)
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(actor *authz.Actor, taskID, entryID int64) error {
	e, err := s.loadForTask(taskID, entryID)
	if err != nil {
		return err
	}

	if !s.policy.Delete(actor, e.View()) {
		s.logger.Warn("delete time entry denied", "user_id", actorID(actor), "entry_id", entryID)
		return internal.ErrAccessDenied
	}

	if err := s.repo.Delete(entryID); err != nil {
		s.logger.Error("failed to delete time entry", "error", err, "entry_id", entryID)
		return err
	}

	s.logger.Info("time entry deleted", "entry_id", entryID, "task_id", taskID)
	return nil
}

func (s *Service) loadForTask(taskID, entryID int64) (*TimeEntry, error) {
	if _, err := s.tasks.TaskView(taskID); err != nil {
		return nil, internal.ErrTaskNotFound
	}

	e, err := s.repo.GetByID(entryID)
	if err != nil {
		return nil, internal.ErrTimeEntryNotFound
	}
	if e.TaskID != taskID {
		return nil, internal.ErrTimeEntryNotFound
	}
	return e, nil
}

func actorID(actor *authz.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.UserID
}
