package client

import (
	"time"

	"github.com/mbenkirane/cabinet-management/internal/authz"
	clientDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/client"
)

const (
	StatusActif   = "actif"
	StatusInactif = "inactif"
	StatusArchive = "archive"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusActif, StatusInactif, StatusArchive:
		return true
	}
	return false
}

type Client struct {
	ID             int64     `json:"id"`
	PortfolioID    int64     `json:"portfolio_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	ICE            string    `json:"ice"`
	FiscalID       string    `json:"fiscal_id"`
	MontantContrat *float64  `json:"montant_contrat"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	CollaboratorIDs          []int64 `json:"collaborator_ids"`
	PortfolioCollaboratorIDs []int64 `json:"-"`
}

// View projects the client into the shape the authorization engine decides on.
func (c *Client) View() authz.ClientView {
	return authz.ClientView{
		ID:                       c.ID,
		PortfolioID:              c.PortfolioID,
		CollaboratorIDs:          c.CollaboratorIDs,
		PortfolioCollaboratorIDs: c.PortfolioCollaboratorIDs,
	}
}

// Response is the serialized client shape. The contract amount is present but
// null unless the requester may see it.
type Response struct {
	ID              int64     `json:"id"`
	PortfolioID     int64     `json:"portfolio_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ICE             string    `json:"ice"`
	FiscalID        string    `json:"fiscal_id"`
	MontantContrat  *float64  `json:"montant_contrat"`
	Status          string    `json:"status"`
	CollaboratorIDs []int64   `json:"collaborator_ids"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewResponse(c *Client, requester *authz.Actor) *Response {
	resp := &Response{
		ID:              c.ID,
		PortfolioID:     c.PortfolioID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		ICE:             c.ICE,
		FiscalID:        c.FiscalID,
		Status:          c.Status,
		CollaboratorIDs: c.CollaboratorIDs,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if c.MontantContrat != nil && authz.CanSeeContractAmount(requester) {
		amount := *c.MontantContrat
		resp.MontantContrat = &amount
	}

	return resp
}

// Document is file metadata attached to a client. The bytes live in the blob
// store under StorageKey.
type Document struct {
	ID             int64     `json:"id"`
	ClientID       int64     `json:"client_id"`
	Title          string    `json:"title"`
	FileName       string    `json:"file_name"`
	StorageKey     string    `json:"-"`
	MimeType       string    `json:"mime_type"`
	SizeBytes      int64     `json:"size_bytes"`
	IsConfidential bool      `json:"is_confidential"`
	UploadedBy     int64     `json:"uploaded_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func FromDataModel(row *clientDatamodel.Client) *Client {
	return &Client{
		ID:             row.ID,
		PortfolioID:    row.PortfolioID,
		Name:           row.Name,
		Email:          row.Email,
		Phone:          row.Phone,
		ICE:            row.ICE,
		FiscalID:       row.FiscalID,
		MontantContrat: row.MontantContrat,
		Status:         row.Status,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func ToDataModel(c *Client) *clientDatamodel.Client {
	return &clientDatamodel.Client{
		ID:             c.ID,
		PortfolioID:    c.PortfolioID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		ICE:            c.ICE,
		FiscalID:       c.FiscalID,
		MontantContrat: c.MontantContrat,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func DocumentFromDataModel(row *clientDatamodel.ClientDocument) *Document {
	return &Document{
		ID:             row.ID,
		ClientID:       row.ClientID,
		Title:          row.Title,
		FileName:       row.FileName,
		StorageKey:     row.StorageKey,
		MimeType:       row.MimeType,
		SizeBytes:      row.SizeBytes,
		IsConfidential: row.IsConfidential,
		UploadedBy:     row.UploadedBy,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func DocumentToDataModel(d *Document) *clientDatamodel.ClientDocument {
	return &clientDatamodel.ClientDocument{
		ID:             d.ID,
		ClientID:       d.ClientID,
		Title:          d.Title,
		FileName:       d.FileName,
		StorageKey:     d.StorageKey,
		MimeType:       d.MimeType,
		SizeBytes:      d.SizeBytes,
		IsConfidential: d.IsConfidential,
		UploadedBy:     d.UploadedBy,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
