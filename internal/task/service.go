package task

import (
	"log/slog"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
)

type Repository interface {
	GetByID(id int64) (*Task, error)
	List() ([]*Task, error)
	ListForUser(userID int64) ([]*Task, error)
	ListForClient(clientID int64) ([]*Task, error)
	Create(t *Task) error
	Update(t *Task) error
	Delete(id int64) error
	ClientExists(clientID int64) (bool, error)
	AssigneeIDs(taskID int64) ([]int64, error)
	SyncAssignees(taskID int64, userIDs []int64) error
}

type Service struct {
	repo   Repository
	policy authz.TaskPolicy
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns the tasks the actor may see: everything for task managers,
// otherwise only tasks the actor owns or is assigned to.
func (s *Service) List(actor *authz.Actor) ([]*Task, error) {
	if !s.policy.ViewAny(actor) {
		return nil, internal.ErrAccessDenied
	}

	var (
		tasks []*Task
		err   error
	)
	if actor.Can(authz.PermTasksManage) {
		tasks, err = s.repo.List()
	} else {
		tasks, err = s.repo.ListForUser(actor.UserID)
	}
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, err
	}

	for _, t := range tasks {
		if err := s.loadAssignees(t); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// ListForClient returns a client's tasks, filtered down to the ones the
// actor may view.
func (s *Service) ListForClient(actor *authz.Actor, clientID int64) ([]*Task, error) {
	if !s.policy.ViewAny(actor) {
		return nil, internal.ErrAccessDenied
	}

	exists, err := s.repo.ClientExists(clientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrClientNotFound
	}

	tasks, err := s.repo.ListForClient(clientID)
	if err != nil {
		s.logger.Error("failed to list client tasks", "error", err, "client_id", clientID)
		return nil, err
	}

	visible := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if err := s.loadAssignees(t); err != nil {
			return nil, err
		}
		if s.policy.View(actor, t.View()) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

func (s *Service) Get(actor *authz.Actor, id int64) (*Task, error) {
	t, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.View(actor, t.View()) {
		return nil, internal.ErrAccessDenied
	}
	return t, nil
}

func (s *Service) Create(actor *authz.Actor, dto CreateTaskDTO) (*Task, error) {
	if !s.policy.Create(actor) {
		s.logger.Warn("create task denied", "user_id", actorID(actor))
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ClientExists(dto.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrClientNotFound
	}

	t := &Task{
		ClientID:    dto.ClientID,
		Title:       dto.Title,
		Description: dto.Description,
		Status:      StatusEnAttente,
		Progress:    0,
		OwnerID:     dto.OwnerID,
		DueDate:     dto.DueDate,
		AssigneeIDs: []int64{},
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create task", "error", err, "client_id", dto.ClientID)
		return nil, err
	}

	s.logger.Info("task created", "task_id", t.ID, "client_id", t.ClientID)
	return t, nil
}

func (s *Service) Update(actor *authz.Actor, id int64, dto UpdateTaskDTO) (*Task, error) {
	t, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.Update(actor, t.View()) {
		s.logger.Warn("update task denied", "user_id", actorID(actor), "task_id", id)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Title != nil {
		t.Title = *dto.Title
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.Status != nil {
		t.Status = *dto.Status
	}
	if dto.Progress != nil {
		t.Progress = *dto.Progress
	}
	if dto.OwnerID != nil {
		t.OwnerID = dto.OwnerID
	}
	if dto.DueDate != nil {
		t.DueDate = dto.DueDate
	}

	// Completion pins progress regardless of what the caller sent.
	if t.Status == StatusTerminee {
		t.Progress = 100
	}

	if err := s.repo.Update(t); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", id)
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(actor *authz.Actor, id int64) error {
	t, err := s.load(id)
	if err != nil {
		return err
	}

	if !s.policy.Delete(actor, t.View()) {
		s.logger.Warn("delete task denied", "user_id", actorID(actor), "task_id", id)
		return internal.ErrAccessDenied
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", id)
		return err
	}

	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// SyncAssignees replaces the assignee set, gated by the assignment policy:
// task managers or the task's owner.
func (s *Service) SyncAssignees(actor *authz.Actor, id int64, dto SyncAssigneesDTO) (*Task, error) {
	t, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.Assign(actor, t.View()) {
		s.logger.Warn("assign task denied", "user_id", actorID(actor), "task_id", id)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SyncAssignees(id, dto.UserIDs); err != nil {
		s.logger.Error("failed to sync task assignees", "error", err, "task_id", id)
		return nil, err
	}

	if err := s.loadAssignees(t); err != nil {
		return nil, err
	}
	s.logger.Info("task assignees replaced", "task_id", id, "count", len(t.AssigneeIDs))
	return t, nil
}

func (s *Service) load(id int64) (*Task, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrTaskNotFound
	}
	if err := s.loadAssignees(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) loadAssignees(t *Task) error {
	ids, err := s.repo.AssigneeIDs(t.ID)
	if err != nil {
		s.logger.Error("failed to load task assignees", "error", err, "task_id", t.ID)
		return err
	}
	if ids == nil {
		ids = []int64{}
	}
	t.AssigneeIDs = ids
	return nil
}

func actorID(actor *authz.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.UserID
}
