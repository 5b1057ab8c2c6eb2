package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mbenkirane/cabinet-management/internal"
	portfolioDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/portfolio"
	"github.com/mbenkirane/cabinet-management/internal/portfolio"
)

// PortfolioRepository implements portfolio.Repository using GORM.
type PortfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) GetByID(id int64) (*portfolio.Portfolio, error) {
	var row portfolioDatamodel.Portfolio
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPortfolioNotFound
		}
		return nil, err
	}
	return portfolio.FromDataModel(&row), nil
}

func (r *PortfolioRepository) List() ([]*portfolio.Portfolio, error) {
	var rows []*portfolioDatamodel.Portfolio
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// ListForCollaborator narrows the listing to portfolios the user is an
// explicit collaborator on.
func (r *PortfolioRepository) ListForCollaborator(userID int64) ([]*portfolio.Portfolio, error) {
	var rows []*portfolioDatamodel.Portfolio
	err := r.db.
		Joins("JOIN portfolio_collaborators pc ON pc.portfolio_id = portfolios.id").
		Where("pc.user_id = ?", userID).
		Order("portfolios.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *PortfolioRepository) Create(p *portfolio.Portfolio) error {
	row := portfolio.ToDataModel(p)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	p.ID = row.ID
	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *PortfolioRepository) Update(p *portfolio.Portfolio) error {
	now := time.Now()
	err := r.db.Model(&portfolioDatamodel.Portfolio{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"updated_at":  now,
	}).Error
	if err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

// Delete removes the portfolio and its collaborator links in one
// transaction. Clients still referencing the portfolio block the delete at
// the database level.
func (r *PortfolioRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("portfolio_id = ?", id).Delete(&portfolioDatamodel.PortfolioCollaborator{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&portfolioDatamodel.Portfolio{}).Error
	})
}

func (r *PortfolioRepository) CollaboratorIDs(portfolioID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&portfolioDatamodel.PortfolioCollaborator{}).
		Where("portfolio_id = ?", portfolioID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *PortfolioRepository) SyncCollaborators(portfolioID int64, userIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("portfolio_id = ?", portfolioID).Delete(&portfolioDatamodel.PortfolioCollaborator{}).Error; err != nil {
			return err
		}
		for _, uid := range userIDs {
			link := &portfolioDatamodel.PortfolioCollaborator{
				PortfolioID: portfolioID,
				UserID:      uid,
				CreatedAt:   time.Now(),
			}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func fromRows(rows []*portfolioDatamodel.Portfolio) []*portfolio.Portfolio {
	out := make([]*portfolio.Portfolio, len(rows))
	for i, row := range rows {
		out[i] = portfolio.FromDataModel(row)
	}
	return out
}
