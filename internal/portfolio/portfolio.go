package portfolio

import (
	"time"

	"github.com/mbenkirane/cabinet-management/internal/authz"
	portfolioDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/portfolio"
)

// Portfolio groups clients under a shared collaborator set. Collaborators
// gain visibility over the portfolio and, transitively, its clients.
type Portfolio struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	CollaboratorIDs []int64   `json:"collaborator_ids"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// View projects the portfolio into the shape the authorization engine
// decides on.
func (p *Portfolio) View() authz.PortfolioView {
	return authz.PortfolioView{
		ID:              p.ID,
		CollaboratorIDs: p.CollaboratorIDs,
	}
}

func FromDataModel(row *portfolioDatamodel.Portfolio) *Portfolio {
	return &Portfolio{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func ToDataModel(p *Portfolio) *portfolioDatamodel.Portfolio {
	return &portfolioDatamodel.Portfolio{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
