package client

import "time"

type Client struct {
	ID             int64     `gorm:"primaryKey"`
	PortfolioID    int64     `gorm:"column:portfolio_id;not null"`
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email"`
	Phone          string    `gorm:"column:phone"`
	ICE            string    `gorm:"column:ice"`
	FiscalID       string    `gorm:"column:fiscal_id"`
	MontantContrat *float64  `gorm:"column:montant_contrat"`
	Status         string    `gorm:"column:status;default:'actif'"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()"`
}

// ClientCollaborator is a direct user grant on one client, independent of the
// owning portfolio's collaborator set.
type ClientCollaborator struct {
	ID        int64     `gorm:"primaryKey"`
	ClientID  int64     `gorm:"column:client_id;not null;uniqueIndex:idx_client_collaborators_pair"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_client_collaborators_pair"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

type ClientDocument struct {
	ID             int64     `gorm:"primaryKey"`
	ClientID       int64     `gorm:"column:client_id;not null"`
	Title          string    `gorm:"column:title;not null"`
	FileName       string    `gorm:"column:file_name;not null"`
	StorageKey     string    `gorm:"column:storage_key;not null"`
	MimeType       string    `gorm:"column:mime_type"`
	SizeBytes      int64     `gorm:"column:size_bytes"`
	IsConfidential bool      `gorm:"column:is_confidential;default:false"`
	UploadedBy     int64     `gorm:"column:uploaded_by;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()"`
}
