package request

import (
	"time"

	"github.com/mbenkirane/cabinet-management/internal/authz"
	requestDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/request"
)

const (
	StatusNouvelle        = "NOUVELLE"
	StatusEnCours         = "EN_COURS"
	StatusEnAttenteClient = "EN_ATTENTE_CLIENT"
	StatusCloturee        = "CLOTUREE"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusNouvelle, StatusEnCours, StatusEnAttenteClient, StatusCloturee:
		return true
	}
	return false
}

// Request is a demande client: a tracked ask against a client dossier, with
// an attached file set and a message thread.
type Request struct {
	ID        int64      `json:"id"`
	ClientID  int64      `json:"client_id"`
	Reference string     `json:"reference"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	DueDate   *time.Time `json:"due_date"`
	CreatedBy int64      `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// View projects the request into the shape the authorization engine decides
// on.
func (r *Request) View() authz.RequestView {
	return authz.RequestView{
		ID:        r.ID,
		ClientID:  r.ClientID,
		CreatedBy: r.CreatedBy,
	}
}

type File struct {
	ID         int64     `json:"id"`
	RequestID  int64     `json:"request_id"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"-"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy int64     `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type Message struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(row *requestDatamodel.Request) *Request {
	return &Request{
		ID:        row.ID,
		ClientID:  row.ClientID,
		Reference: row.Reference,
		Subject:   row.Subject,
		Body:      row.Body,
		Status:    row.Status,
		DueDate:   row.DueDate,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func ToDataModel(r *Request) *requestDatamodel.Request {
	return &requestDatamodel.Request{
		ID:        r.ID,
		ClientID:  r.ClientID,
		Reference: r.Reference,
		Subject:   r.Subject,
		Body:      r.Body,
		Status:    r.Status,
		DueDate:   r.DueDate,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func FileFromDataModel(row *requestDatamodel.RequestFile) *File {
	return &File{
		ID:         row.ID,
		RequestID:  row.RequestID,
		FileName:   row.FileName,
		StorageKey: row.StorageKey,
		MimeType:   row.MimeType,
		SizeBytes:  row.SizeBytes,
		UploadedBy: row.UploadedBy,
		CreatedAt:  row.CreatedAt,
	}
}

func FileToDataModel(f *File) *requestDatamodel.RequestFile {
	return &requestDatamodel.RequestFile{
		ID:         f.ID,
		RequestID:  f.RequestID,
		FileName:   f.FileName,
		StorageKey: f.StorageKey,
		MimeType:   f.MimeType,
		SizeBytes:  f.SizeBytes,
		UploadedBy: f.UploadedBy,
		CreatedAt:  f.CreatedAt,
	}
}

func MessageFromDataModel(row *requestDatamodel.RequestMessage) *Message {
	return &Message{
		ID:        row.ID,
		RequestID: row.RequestID,
		AuthorID:  row.AuthorID,
		Body:      row.Body,
		CreatedAt: row.CreatedAt,
	}
}

func MessageToDataModel(m *Message) *requestDatamodel.RequestMessage {
	return &requestDatamodel.RequestMessage{
		ID:        m.ID,
		RequestID: m.RequestID,
		AuthorID:  m.AuthorID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}
