package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mbenkirane/cabinet-management/internal"
	clientDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/client"
	requestDatamodel "github.com/mbenkirane/cabinet-management/internal/core/datamodel/request"
	"github.com/mbenkirane/cabinet-management/internal/request"
)

// RequestRepository implements request.Repository using GORM.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) GetByID(id int64) (*request.Request, error) {
	var row requestDatamodel.Request
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return request.FromDataModel(&row), nil
}

func (r *RequestRepository) List() ([]*request.Request, error) {
	var rows []*requestDatamodel.Request
	if err := r.db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *RequestRepository) ListByCreator(userID int64) ([]*request.Request, error) {
	var rows []*requestDatamodel.Request
	if err := r.db.Where("created_by = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *RequestRepository) ListForClient(clientID int64) ([]*request.Request, error) {
	var rows []*requestDatamodel.Request
	if err := r.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *RequestRepository) Create(req *request.Request) error {
	row := request.ToDataModel(req)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	req.ID = row.ID
	req.CreatedAt = row.CreatedAt
	req.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *RequestRepository) Update(req *request.Request) error {
	now := time.Now()
	err := r.db.Model(&requestDatamodel.Request{}).Where("id = ?", req.ID).Updates(map[string]interface{}{
		"subject":    req.Subject,
		"body":       req.Body,
		"status":     req.Status,
		"due_date":   req.DueDate,
		"updated_at": now,
	}).Error
	if err != nil {
		return err
	}
	req.UpdatedAt = now
	return nil
}

// Delete removes the request and its files and thread in one transaction.
func (r *RequestRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", id).Delete(&requestDatamodel.RequestFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("request_id = ?", id).Delete(&requestDatamodel.RequestMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&requestDatamodel.Request{}).Error
	})
}

func (r *RequestRepository) ClientExists(clientID int64) (bool, error) {
	var count int64
	err := r.db.Model(&clientDatamodel.Client{}).Where("id = ?", clientID).Count(&count).Error
	return count > 0, err
}

func (r *RequestRepository) CreateFile(f *request.File) error {
	row := request.FileToDataModel(f)
	row.CreatedAt = time.Now()
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	f.ID = row.ID
	f.CreatedAt = row.CreatedAt
	return nil
}

func (r *RequestRepository) GetFileByID(id int64) (*request.File, error) {
	var row requestDatamodel.RequestFile
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestFileNotFound
		}
		return nil, err
	}
	return request.FileFromDataModel(&row), nil
}

func (r *RequestRepository) ListFiles(requestID int64) ([]*request.File, error) {
	var rows []*requestDatamodel.RequestFile
	if err := r.db.Where("request_id = ?", requestID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	files := make([]*request.File, len(rows))
	for i, row := range rows {
		files[i] = request.FileFromDataModel(row)
	}
	return files, nil
}

func (r *RequestRepository) DeleteFile(id int64) error {
	return r.db.Where("id = ?", id).Delete(&requestDatamodel.RequestFile{}).Error
}

func (r *RequestRepository) CreateMessage(m *request.Message) error {
	row := request.MessageToDataModel(m)
	row.CreatedAt = time.Now()
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	m.ID = row.ID
	m.CreatedAt = row.CreatedAt
	return nil
}

func (r *RequestRepository) ListMessages(requestID int64) ([]*request.Message, error) {
	var rows []*requestDatamodel.RequestMessage
	if err := r.db.Where("request_id = ?", requestID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	messages := make([]*request.Message, len(rows))
	for i, row := range rows {
		messages[i] = request.MessageFromDataModel(row)
	}
	return messages, nil
}

func fromRows(rows []*requestDatamodel.Request) []*request.Request {
	out := make([]*request.Request, len(rows))
	for i, row := range rows {
		out[i] = request.FromDataModel(row)
	}
	return out
}
