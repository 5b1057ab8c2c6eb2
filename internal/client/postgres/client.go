package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/client"
	clientDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/client"
	portfolioDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/portfolio"
)

// ClientRepository implements client.Repository using GORM.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetByID(id int64) (*client.Client, error) {
	var row clientDatamodel.Client
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrClientNotFound
		}
		return nil, err
	}
	return client.FromDataModel(&row), nil
}

func (r *ClientRepository) List() ([]*client.Client, error) {
	var rows []*clientDatamodel.Client
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// ListForCollaborator narrows the listing to clients the user collaborates
// on, directly or through the owning portfolio.
func (r *ClientRepository) ListForCollaborator(userID int64) ([]*client.Client, error) {
	var rows []*clientDatamodel.Client
	err := r.db.
		Distinct("clients.*").
		Joins("LEFT JOIN client_collaborators cc ON cc.client_id = clients.id").
		Joins("LEFT JOIN portfolio_collaborators pc ON pc.portfolio_id = clients.portfolio_id").
		Where("cc.user_id = ? OR pc.user_id = ?", userID, userID).
		Order("clients.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *ClientRepository) Create(c *client.Client) error {
	row := client.ToDataModel(c)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	c.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ClientRepository) Update(c *client.Client) error {
	now := time.Now()
	err := r.db.Model(&clientDatamodel.Client{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"portfolio_id":    c.PortfolioID,
		"name":            c.Name,
		"email":           c.Email,
		"phone":           c.Phone,
		"ice":             c.ICE,
		"fiscal_id":       c.FiscalID,
		"montant_contrat": c.MontantContrat,
		"status":          c.Status,
		"updated_at":      now,
	}).Error
	if err != nil {
		return err
	}
	c.UpdatedAt = now
	return nil
}

// Delete removes the client together with its collaborator links and
// document metadata rows.
func (r *ClientRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&clientDatamodel.ClientCollaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&clientDatamodel.ClientDocument{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&clientDatamodel.Client{}).Error
	})
}

func (r *ClientRepository) PortfolioExists(portfolioID int64) (bool, error) {
	var count int64
	err := r.db.Model(&portfolioDatamodel.Portfolio{}).Where("id = ?", portfolioID).Count(&count).Error
	return count > 0, err
}

func (r *ClientRepository) CollaboratorIDs(clientID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&clientDatamodel.ClientCollaborator{}).
		Where("client_id = ?", clientID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ClientRepository) PortfolioCollaboratorIDs(portfolioID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&portfolioDatamodel.PortfolioCollaborator{}).
		Where("portfolio_id = ?", portfolioID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ClientRepository) SyncCollaborators(clientID int64, userIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", clientID).Delete(&clientDatamodel.ClientCollaborator{}).Error; err != nil {
			return err
		}
		for _, uid := range userIDs {
			link := &clientDatamodel.ClientCollaborator{
				ClientID:  clientID,
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

func (r *ClientRepository) CreateDocument(d *client.Document) error {
	row := client.DocumentToDataModel(d)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	d.ID = row.ID
	d.CreatedAt = row.CreatedAt
	d.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ClientRepository) GetDocumentByID(id int64) (*client.Document, error) {
	var row clientDatamodel.ClientDocument
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDocumentNotFound
		}
		return nil, err
	}
	return client.DocumentFromDataModel(&row), nil
}

func (r *ClientRepository) ListDocuments(clientID int64) ([]*client.Document, error) {
	var rows []*clientDatamodel.ClientDocument
	if err := r.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]*client.Document, len(rows))
	for i, row := range rows {
		docs[i] = client.DocumentFromDataModel(row)
	}
	return docs, nil
}

func (r *ClientRepository) DeleteDocument(id int64) error {
	return r.db.Where("id = ?", id).Delete(&clientDatamodel.ClientDocument{}).Error
}

func fromRows(rows []*clientDatamodel.Client) []*client.Client {
	out := make([]*client.Client, len(rows))
	for i, row := range rows {
		out[i] = client.FromDataModel(row)
	}
	return out
}
