package role

import (
	"log/slog"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
)

// Repository defines the data access methods for roles and permissions.
type Repository interface {
	ListRoles() ([]*Role, error)
	GetRoleByID(id int64) (*Role, error)
	CreateRole(role *Role) error
	ListPermissions() ([]*Permission, error)
	PermissionsForRole(roleID int64) ([]string, error)
	SyncRolePermissions(roleID int64, permissionIDs []int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListRoles is visible to any administrator.
func (s *Service) ListRoles(actor *authz.Actor) ([]*Role, error) {
	if !actor.HasRole(authz.RoleAdmin) {
		return nil, internal.ErrAccessDenied
	}

	roles, err := s.repo.ListRoles()
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, err
	}

	for _, r := range roles {
		perms, err := s.repo.PermissionsForRole(r.ID)
		if err != nil {
			s.logger.Error("failed to load role permissions", "error", err, "role_id", r.ID)
			return nil, err
		}
		r.Permissions = perms
	}

	return roles, nil
}

func (s *Service) ListPermissions(actor *authz.Actor) ([]*Permission, error) {
	if !actor.HasRole(authz.RoleAdmin) {
		return nil, internal.ErrAccessDenied
	}

	permissions, err := s.repo.ListPermissions()
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, err
	}
	return permissions, nil
}

func (s *Service) CreateRole(actor *authz.Actor, dto CreateRoleDTO) (*Role, error) {
	if !actor.HasRole(authz.RoleAdmin) {
		s.logger.Warn("create role denied", "user_id", actorID(actor))
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := &Role{
		Name:        dto.Name,
		Description: dto.Description,
	}

	if err := s.repo.CreateRole(role); err != nil {
		s.logger.Error("failed to create role", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("role created", "role_id", role.ID, "name", role.Name)
	return role, nil
}

// SyncPermissions replaces the role's permission bundle with the given set.
// Plain replace: no merging, the data store's transaction is the only
// recovery boundary. Callers must discard any live authz.Resolver afterwards.
func (s *Service) SyncPermissions(actor *authz.Actor, roleID int64, dto SyncPermissionsDTO) (*Role, error) {
	if !actor.HasRole(authz.RoleAdmin) {
		s.logger.Warn("sync role permissions denied", "user_id", actorID(actor), "role_id", roleID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := s.repo.GetRoleByID(roleID)
	if err != nil {
		return nil, internal.ErrRoleNotFound
	}

	if err := s.repo.SyncRolePermissions(roleID, dto.PermissionIDs); err != nil {
		s.logger.Error("failed to sync role permissions", "error", err, "role_id", roleID)
		return nil, err
	}

	perms, err := s.repo.PermissionsForRole(roleID)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms

	s.logger.Info("role permissions synced",
		"role_id", roleID,
		"permission_count", len(dto.PermissionIDs))

	return role, nil
}

func actorID(a *authz.Actor) int64 {
	if a == nil {
		return 0
	}
	return a.UserID
}
