package portfolio

import (
	"log/slog"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
)

type Repository interface {
	GetByID(id int64) (*Portfolio, error)
	List() ([]*Portfolio, error)
	ListForCollaborator(userID int64) ([]*Portfolio, error)
	Create(p *Portfolio) error
	Update(p *Portfolio) error
	Delete(id int64) error
	CollaboratorIDs(portfolioID int64) ([]int64, error)
	SyncCollaborators(portfolioID int64, userIDs []int64) error
}

type Service struct {
	repo   Repository
	policy authz.PortfolioPolicy
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns the portfolios the actor may see. Broad visibility (admin,
// chef d'equipe, or the portfolios.view permission) yields every portfolio;
// otherwise the listing narrows to the actor's own collaborations.
func (s *Service) List(actor *authz.Actor) ([]*Portfolio, error) {
	if !s.policy.ViewAny(actor) {
		return nil, internal.ErrAccessDenied
	}

	var (
		portfolios []*Portfolio
		err        error
	)
	if actor.HasAnyRole(authz.RoleAdmin, authz.RoleChefEquipe) || actor.Can(authz.PermPortfoliosView) {
		portfolios, err = s.repo.List()
	} else {
		portfolios, err = s.repo.ListForCollaborator(actor.UserID)
	}
	if err != nil {
		s.logger.Error("failed to list portfolios", "error", err)
		return nil, err
	}

	for _, p := range portfolios {
		if err := s.loadCollaborators(p); err != nil {
			return nil, err
		}
	}
	return portfolios, nil
}

func (s *Service) Get(actor *authz.Actor, id int64) (*Portfolio, error) {
	p, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.View(actor, p.View()) {
		return nil, internal.ErrAccessDenied
	}
	return p, nil
}

func (s *Service) Create(actor *authz.Actor, dto CreatePortfolioDTO) (*Portfolio, error) {
	if !s.policy.Create(actor) {
		s.logger.Warn("create portfolio denied", "user_id", actorID(actor))
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := &Portfolio{
		Name:            dto.Name,
		Description:     dto.Description,
		CollaboratorIDs: []int64{},
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create portfolio", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("portfolio created", "portfolio_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) Update(actor *authz.Actor, id int64, dto UpdatePortfolioDTO) (*Portfolio, error) {
	p, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.Update(actor, p.View()) {
		s.logger.Warn("update portfolio denied", "user_id", actorID(actor), "portfolio_id", id)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to update portfolio", "error", err, "portfolio_id", id)
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(actor *authz.Actor, id int64) error {
	p, err := s.load(id)
	if err != nil {
		return err
	}

	if !s.policy.Delete(actor, p.View()) {
		s.logger.Warn("delete portfolio denied", "user_id", actorID(actor), "portfolio_id", id)
		return internal.ErrAccessDenied
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete portfolio", "error", err, "portfolio_id", id)
		return err
	}

	s.logger.Info("portfolio deleted", "portfolio_id", id)
	return nil
}

// SyncCollaborators replaces the portfolio's collaborator set. Gated like an
// update: collaboration itself never grants the right to reshape the set.
func (s *Service) SyncCollaborators(actor *authz.Actor, id int64, dto SyncCollaboratorsDTO) (*Portfolio, error) {
	p, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.Update(actor, p.View()) {
		s.logger.Warn("sync portfolio collaborators denied", "user_id", actorID(actor), "portfolio_id", id)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SyncCollaborators(id, dto.UserIDs); err != nil {
		s.logger.Error("failed to sync portfolio collaborators", "error", err, "portfolio_id", id)
		return nil, err
	}

	if err := s.loadCollaborators(p); err != nil {
		return nil, err
	}
	s.logger.Info("portfolio collaborators replaced", "portfolio_id", id, "count", len(p.CollaboratorIDs))
	return p, nil
}

func (s *Service) load(id int64) (*Portfolio, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrPortfolioNotFound
	}
	if err := s.loadCollaborators(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) loadCollaborators(p *Portfolio) error {
	ids, err := s.repo.CollaboratorIDs(p.ID)
	if err != nil {
		s.logger.Error("failed to load portfolio collaborators", "error", err, "portfolio_id", p.ID)
		return err
	}
	if ids == nil {
		ids = []int64{}
	}
	p.CollaboratorIDs = ids
	return nil
}

func actorID(actor *authz.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.UserID
}
