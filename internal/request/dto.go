package request

import (
	"time"

	"github.com/mbenkirane/cabinet-management/internal"
)

type CreateRequestDTO struct {
	ClientID int64      `json:"client_id"`
	Subject  string     `json:"subject"`
	Body     string     `json:"body"`
	DueDate  *time.Time `json:"due_date,omitempty"`
}

func (d CreateRequestDTO) Validate() error {
	if d.ClientID == 0 {
		return internal.NewValidationFieldError("client_id", "client_id is required", internal.ErrCodeValidationFailed)
	}
	if d.Subject == "" {
		return internal.NewValidationFieldError("subject", "subject is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateRequestDTO struct {
	Subject *string    `json:"subject,omitempty"`
	Body    *string    `json:"body,omitempty"`
	Status  *string    `json:"status,omitempty"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

func (d UpdateRequestDTO) Validate() error {
	if d.Subject != nil && *d.Subject == "" {
		return internal.NewValidationFieldError("subject", "subject cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Status != nil && !ValidStatus(*d.Status) {
		return internal.NewValidationFieldError("status", "status must be one of NOUVELLE, EN_COURS, EN_ATTENTE_CLIENT, CLOTUREE", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// AttachFileDTO carries the metadata side of a request file upload.
type AttachFileDTO struct {
	FileName string
	MimeType string
}

func (d AttachFileDTO) Validate() error {
	if d.FileName == "" {
		return internal.NewValidationFieldError("file_name", "file_name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type PostMessageDTO struct {
	Body string `json:"body"`
}

func (d PostMessageDTO) Validate() error {
	if d.Body == "" {
		return internal.NewValidationFieldError("body", "body is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
