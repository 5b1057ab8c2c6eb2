package request

import "time"

type Request struct {
	ID        int64      `gorm:"primaryKey"`
	ClientID  int64      `gorm:"column:client_id;not null"`
	Reference string     `gorm:"column:reference;uniqueIndex;not null"`
	Subject   string     `gorm:"column:subject;not null"`
	Body      string     `gorm:"column:body"`
	Status    string     `gorm:"column:status;default:'NOUVELLE'"`
	DueDate   *time.Time `gorm:"column:due_date"`
	CreatedBy int64      `gorm:"column:created_by;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time  `gorm:"column:updated_at;default:now()"`
}

type RequestFile struct {
	ID         int64     `gorm:"primaryKey"`
	RequestID  int64     `gorm:"column:request_id;not null"`
	FileName   string    `gorm:"column:file_name;not null"`
	StorageKey string    `gorm:"column:storage_key;not null"`
	MimeType   string    `gorm:"column:mime_type"`
	SizeBytes  int64     `gorm:"column:size_bytes"`
	UploadedBy int64     `gorm:"column:uploaded_by;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
}

type RequestMessage struct {
	ID        int64     `gorm:"primaryKey"`
	RequestID int64     `gorm:"column:request_id;not null"`
	AuthorID  int64     `gorm:"column:author_id;not null"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}
