package postgres

import (
	"context"
	"time"

	userDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/user"
	"github.com/mbenkirane/cabinet-management/internal/role"
	"gorm.io/gorm"
)

// RoleRepository implements role.Repository and the authorization engine's
// store contract using GORM.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) ListRoles() ([]*role.Role, error) {
	var rows []*userDatamodel.Role
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	roles := make([]*role.Role, len(rows))
	for i, row := range rows {
		roles[i] = role.FromDataModel(row)
	}
	return roles, nil
}

func (r *RoleRepository) GetRoleByID(id int64) (*role.Role, error) {
	var row userDatamodel.Role
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return role.FromDataModel(&row), nil
}

func (r *RoleRepository) CreateRole(domainRole *role.Role) error {
	row := &userDatamodel.Role{
		Name:        domainRole.Name,
		Description: domainRole.Description,
		CreatedAt:   time.Now(),
	}
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	domainRole.ID = row.ID
	domainRole.CreatedAt = row.CreatedAt
	return nil
}

func (r *RoleRepository) ListPermissions() ([]*role.Permission, error) {
	var rows []*userDatamodel.Permission
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	permissions := make([]*role.Permission, len(rows))
	for i, row := range rows {
		permissions[i] = role.PermissionFromDataModel(row)
	}
	return permissions, nil
}

func (r *RoleRepository) PermissionsForRole(roleID int64) ([]string, error) {
	var names []string
	err := r.db.Model(&userDatamodel.Permission{}).
		Joins("JOIN role_permissions rp ON rp.permission_id = permissions.id").
		Where("rp.role_id = ?", roleID).
		Pluck("permissions.name", &names).Error
	return names, err
}

// SyncRolePermissions replaces the role's permission set in one transaction.
func (r *RoleRepository) SyncRolePermissions(roleID int64, permissionIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&userDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		for _, pid := range permissionIDs {
			link := &userDatamodel.RolePermission{
				RoleID:       roleID,
				PermissionID: pid,
				CreatedAt:    time.Now(),
			}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RolesForUser satisfies authz.Store.
func (r *RoleRepository) RolesForUser(_ context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.Model(&userDatamodel.Role{}).
		Joins("JOIN user_roles ur ON ur.role_id = roles.id").
		Where("ur.user_id = ?", userID).
		Pluck("roles.name", &names).Error
	return names, err
}

// PermissionsForUser satisfies authz.Store: the union of all permissions
// bundled by the user's roles.
func (r *RoleRepository) PermissionsForUser(_ context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.Model(&userDatamodel.Permission{}).
		Distinct("permissions.name").
		Joins("JOIN role_permissions rp ON rp.permission_id = permissions.id").
		Joins("JOIN user_roles ur ON ur.role_id = rp.role_id").
		Where("ur.user_id = ?", userID).
		Pluck("permissions.name", &names).Error
	return names, err
}
