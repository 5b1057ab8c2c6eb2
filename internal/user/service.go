package user

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
)

// Repository defines the data access methods for users, their roles and
// their rate history.
type Repository interface {
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	List() ([]*User, error)
	Create(u *User) error
	Update(u *User) error
	RolesForUser(userID int64) ([]string, error)
	SyncUserRoles(userID int64, roleIDs []int64) error
	AddRate(rate *Rate) error
	RatesForUser(userID int64) ([]*Rate, error)
	// CurrentRate returns the rate row with the latest effective_from date,
	// including rows whose effective date is still in the future. A user
	// with no rate history yields (nil, nil).
	CurrentRate(userID int64) (*Rate, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// GetSelf returns the requesting user's own profile. Rate fields are still
// subject to the rate gate during serialization.
func (s *Service) GetSelf(actor *authz.Actor) (*Response, error) {
	if actor == nil {
		return nil, internal.ErrAccessDenied
	}
	return s.serialize(actor.UserID, actor)
}

// Get is gated the same way as List, so anyone who can enumerate users can
// also fetch a single one; everyone else only reaches their own profile.
func (s *Service) Get(actor *authz.Actor, userID int64) (*Response, error) {
	if !actor.HasAnyRole(authz.RoleAdmin, authz.RoleChefEquipe) && actorID(actor) != userID {
		return nil, internal.ErrAccessDenied
	}
	return s.serialize(userID, actor)
}

func (s *Service) List(actor *authz.Actor) ([]*Response, error) {
	if !actor.HasAnyRole(authz.RoleAdmin, authz.RoleChefEquipe) {
		return nil, internal.ErrAccessDenied
	}

	users, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}

	responses := make([]*Response, 0, len(users))
	for _, u := range users {
		roles, err := s.repo.RolesForUser(u.ID)
		if err != nil {
			s.logger.Error("failed to load user roles", "error", err, "user_id", u.ID)
			return nil, err
		}
		u.Roles = roles

		rate, err := s.currentRateOrNil(u.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, NewResponse(u, rate, actor))
	}

	return responses, nil
}

func (s *Service) Create(actor *authz.Actor, dto CreateUserDTO) (*Response, error) {
	if !actor.HasRole(authz.RoleAdmin) {
		s.logger.Warn("create user denied", "user_id", actorID(actor))
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.NewConflictError("A user with this email already exists", internal.ErrCodeDuplicateEntry)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		Phone:        dto.Phone,
		IsActive:     true,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email)
	return NewResponse(u, nil, actor), nil
}

func (s *Service) Update(actor *authz.Actor, userID int64, dto UpdateUserDTO) (*Response, error) {
	if !actor.HasRole(authz.RoleAdmin) {
		s.logger.Warn("update user denied", "user_id", actorID(actor), "target_id", userID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Phone != nil {
		u.Phone = *dto.Phone
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, err
	}

	return s.serialize(userID, actor)
}

// SyncRoles replaces the user's role set with the given role ids. Callers
// must discard any live authz.Resolver afterwards so the change takes
// effect on the next request.
func (s *Service) SyncRoles(actor *authz.Actor, userID int64, dto SyncRolesDTO) (*Response, error) {
	if !actor.HasRole(authz.RoleAdmin) {
		s.logger.Warn("sync user roles denied", "user_id", actorID(actor), "target_id", userID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(userID); err != nil {
		return nil, internal.ErrUserNotFound
	}

	if err := s.repo.SyncUserRoles(userID, dto.RoleIDs); err != nil {
		s.logger.Error("failed to sync user roles", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("user roles replaced", "user_id", userID, "role_count", len(dto.RoleIDs))
	return s.serialize(userID, actor)
}

// SetRate appends a new row to the user's rate history. Rates are never
// updated in place: a correction is a new row with the same effective date,
// which the store rejects as a conflict.
func (s *Service) SetRate(actor *authz.Actor, userID int64, dto SetRateDTO) (*Rate, error) {
	if !actor.Can(authz.PermUsersRateSet) {
		s.logger.Warn("set rate denied", "user_id", actorID(actor), "target_id", userID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(userID); err != nil {
		return nil, internal.ErrUserNotFound
	}

	rate := &Rate{
		UserID:        userID,
		HourlyRateMAD: dto.HourlyRateMAD,
		EffectiveFrom: dto.EffectiveFrom,
	}

	if err := s.repo.AddRate(rate); err != nil {
		s.logger.Error("failed to add rate", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("rate recorded", "user_id", userID, "effective_from", dto.EffectiveFrom)
	return rate, nil
}

func (s *Service) ListRates(actor *authz.Actor, userID int64) ([]*Rate, error) {
	if !actor.Can(authz.PermUsersRateSet) && !authz.CanSeeHourlyRate(actor) {
		return nil, internal.ErrAccessDenied
	}

	if _, err := s.repo.GetByID(userID); err != nil {
		return nil, internal.ErrUserNotFound
	}

	rates, err := s.repo.RatesForUser(userID)
	if err != nil {
		s.logger.Error("failed to list rates", "error", err, "user_id", userID)
		return nil, err
	}
	return rates, nil
}

func (s *Service) serialize(userID int64, actor *authz.Actor) (*Response, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	roles, err := s.repo.RolesForUser(userID)
	if err != nil {
		s.logger.Error("failed to load user roles", "error", err, "user_id", userID)
		return nil, err
	}
	u.Roles = roles

	rate, err := s.currentRateOrNil(userID)
	if err != nil {
		return nil, err
	}

	return NewResponse(u, rate, actor), nil
}

func (s *Service) currentRateOrNil(userID int64) (*Rate, error) {
	rate, err := s.repo.CurrentRate(userID)
	if err != nil {
		s.logger.Error("failed to load current rate", "error", err, "user_id", userID)
		return nil, err
	}
	return rate, nil
}

func actorID(actor *authz.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.UserID
}
