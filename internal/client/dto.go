package client

import (
	"github.com/mbenkirane/cabinet-management/internal"
)

type CreateClientDTO struct {
	PortfolioID    int64    `json:"portfolio_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	ICE            string   `json:"ice"`
	FiscalID       string   `json:"fiscal_id"`
	MontantContrat *float64 `json:"montant_contrat,omitempty"`
	Status         string   `json:"status"`
}

func (d CreateClientDTO) Validate() error {
	if d.PortfolioID == 0 {
		return internal.NewValidationFieldError("portfolio_id", "portfolio_id is required", internal.ErrCodeValidationFailed)
	}
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.Status != "" && !ValidStatus(d.Status) {
		return internal.NewValidationFieldError("status", "status must be one of actif, inactif, archive", internal.ErrCodeInvalidStatus)
	}
	if d.MontantContrat != nil && *d.MontantContrat < 0 {
		return internal.NewValidationFieldError("montant_contrat", "montant_contrat cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateClientDTO struct {
	PortfolioID    *int64   `json:"portfolio_id,omitempty"`
	Name           *string  `json:"name,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	ICE            *string  `json:"ice,omitempty"`
	FiscalID       *string  `json:"fiscal_id,omitempty"`
	MontantContrat *float64 `json:"montant_contrat,omitempty"`
	Status         *string  `json:"status,omitempty"`
}

func (d UpdateClientDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.PortfolioID != nil && *d.PortfolioID == 0 {
		return internal.NewValidationFieldError("portfolio_id", "portfolio_id cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Status != nil && !ValidStatus(*d.Status) {
		return internal.NewValidationFieldError("status", "status must be one of actif, inactif, archive", internal.ErrCodeInvalidStatus)
	}
	if d.MontantContrat != nil && *d.MontantContrat < 0 {
		return internal.NewValidationFieldError("montant_contrat", "montant_contrat cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

type SyncCollaboratorsDTO struct {
	UserIDs []int64 `json:"user_ids"`
}

func (d SyncCollaboratorsDTO) Validate() error {
	if d.UserIDs == nil {
		return internal.NewValidationFieldError("user_ids", "user_ids is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UploadDocumentDTO carries the metadata side of a document upload; the file
// bytes travel separately as a stream.
type UploadDocumentDTO struct {
	Title          string
	FileName       string
	MimeType       string
	IsConfidential bool
}

func (d UploadDocumentDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if d.FileName == "" {
		return internal.NewValidationFieldError("file_name", "file_name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
