package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mbenkirane/cabinet-management/internal"
	rateDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/rate"
	userDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/user"
	"github.com/mbenkirane/cabinet-management/internal/user"
)

// UserRepository implements user.Repository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) List() ([]*user.User, error) {
	var rows []*userDatamodel.User
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]*user.User, len(rows))
	for i, row := range rows {
		users[i] = user.FromDataModel(row)
	}
	return users, nil
}

func (r *UserRepository) Create(u *user.User) error {
	row := user.ToDataModel(u)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	u.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *UserRepository) Update(u *user.User) error {
	row := user.ToDataModel(u)
	row.UpdatedAt = time.Now()
	if err := r.db.Model(&userDatamodel.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"name":       row.Name,
		"phone":      row.Phone,
		"is_active":  row.IsActive,
		"updated_at": row.UpdatedAt,
	}).Error; err != nil {
		return err
	}
	u.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *UserRepository) RolesForUser(userID int64) ([]string, error) {
	var names []string
	err := r.db.Model(&userDatamodel.Role{}).
		Joins("JOIN user_roles ur ON ur.role_id = roles.id").
		Where("ur.user_id = ?", userID).
		Pluck("roles.name", &names).Error
	return names, err
}

// SyncUserRoles replaces the user's role set in one transaction.
func (r *UserRepository) SyncUserRoles(userID int64, roleIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		for _, rid := range roleIDs {
			link := &userDatamodel.UserRole{
				UserID:    userID,
				RoleID:    rid,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) AddRate(rate *user.Rate) error {
	row := user.RateToDataModel(rate)
	row.CreatedAt = time.Now()
	if err := r.db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("A rate for this effective date already exists", internal.ErrCodeRateConflict)
		}
		return err
	}
	rate.ID = row.ID
	rate.CreatedAt = row.CreatedAt
	return nil
}

func (r *UserRepository) RatesForUser(userID int64) ([]*user.Rate, error) {
	var rows []*rateDatamodel.UserRate
	if err := r.db.Where("user_id = ?", userID).Order("effective_from DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	rates := make([]*user.Rate, len(rows))
	for i, row := range rows {
		rates[i] = user.RateFromDataModel(row)
	}
	return rates, nil
}

// CurrentRate picks the row with the latest effective_from, future-dated
// rows included.
func (r *UserRepository) CurrentRate(userID int64) (*user.Rate, error) {
	var row rateDatamodel.UserRate
	err := r.db.Where("user_id = ?", userID).Order("effective_from DESC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.RateFromDataModel(&row), nil
}
