package request

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
	"github.com/mbenkirane/cabinet-management/internal/storage"
)

type Repository interface {
	GetByID(id int64) (*Request, error)
	List() ([]*Request, error)
	ListByCreator(userID int64) ([]*Request, error)
	ListForClient(clientID int64) ([]*Request, error)
	Create(r *Request) error
	Update(r *Request) error
	Delete(id int64) error
	ClientExists(clientID int64) (bool, error)

	CreateFile(f *File) error
	GetFileByID(id int64) (*File, error)
	ListFiles(requestID int64) ([]*File, error)
	DeleteFile(id int64) error

	CreateMessage(m *Message) error
	ListMessages(requestID int64) ([]*Message, error)
}

type Service struct {
	repo   Repository
	files  storage.FileStore
	policy authz.RequestPolicy
	logger *slog.Logger
}

func NewService(repo Repository, files storage.FileStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		files:  files,
		logger: logger,
	}
}

// newReference mints the request's public reference.
func newReference() string {
	return fmt.Sprintf("DEM-%s", uuid.New().String())
}

// List returns the requests the actor may see: every request for
// requests.manage holders, otherwise the ones they created.
func (s *Service) List(actor *authz.Actor) ([]*Request, error) {
	if !s.policy.ViewAny(actor) {
		return nil, internal.ErrAccessDenied
	}

	if actor.Can(authz.PermRequestsManage) {
		requests, err := s.repo.List()
		if err != nil {
			s.logger.Error("failed to list requests", "error", err)
			return nil, err
		}
		return requests, nil
	}

	requests, err := s.repo.ListByCreator(actor.UserID)
	if err != nil {
		s.logger.Error("failed to list own requests", "error", err)
		return nil, err
	}
	return requests, nil
}

// ListForClient returns a client's requests, filtered to the ones the actor
// may view.
func (s *Service) ListForClient(actor *authz.Actor, clientID int64) ([]*Request, error) {
	if !s.policy.ViewAny(actor) {
		return nil, internal.ErrAccessDenied
	}

	exists, err := s.repo.ClientExists(clientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrClientNotFound
	}

	requests, err := s.repo.ListForClient(clientID)
	if err != nil {
		s.logger.Error("failed to list client requests", "error", err, "client_id", clientID)
		return nil, err
	}

	visible := make([]*Request, 0, len(requests))
	for _, r := range requests {
		if s.policy.View(actor, r.View()) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

func (s *Service) Get(actor *authz.Actor, id int64) (*Request, error) {
	r, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.View(actor, r.View()) {
		return nil, internal.ErrAccessDenied
	}
	return r, nil
}

func (s *Service) Create(actor *authz.Actor, dto CreateRequestDTO) (*Request, error) {
	if !s.policy.Create(actor) {
		s.logger.Warn("create request denied", "user_id", actorID(actor))
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ClientExists(dto.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrClientNotFound
	}

	r := &Request{
		ClientID:  dto.ClientID,
		Reference: newReference(),
		Subject:   dto.Subject,
		Body:      dto.Body,
		Status:    StatusNouvelle,
		DueDate:   dto.DueDate,
		CreatedBy: actorID(actor),
	}

	if err := s.repo.Create(r); err != nil {
		s.logger.Error("failed to create request", "error", err, "client_id", dto.ClientID)
		return nil, err
	}

	s.logger.Info("request created", "request_id", r.ID, "reference", r.Reference)
	return r, nil
}

func (s *Service) Update(actor *authz.Actor, id int64, dto UpdateRequestDTO) (*Request, error) {
	r, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.Update(actor, r.View()) {
		s.logger.Warn("update request denied", "user_id", actorID(actor), "request_id", id)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Subject != nil {
		r.Subject = *dto.Subject
	}
	if dto.Body != nil {
		r.Body = *dto.Body
	}
	if dto.Status != nil {
		r.Status = *dto.Status
	}
	if dto.DueDate != nil {
		r.DueDate = dto.DueDate
	}

	if err := s.repo.Update(r); err != nil {
		s.logger.Error("failed to update request", "error", err, "request_id", id)
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, actor *authz.Actor, id int64) error {
	r, err := s.load(id)
	if err != nil {
		return err
	}

	if !s.policy.Delete(actor, r.View()) {
		s.logger.Warn("delete request denied", "user_id", actorID(actor), "request_id", id)
		return internal.ErrAccessDenied
	}

	attached, err := s.repo.ListFiles(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete request", "error", err, "request_id", id)
		return err
	}

	for _, f := range attached {
		if err := s.files.Delete(ctx, f.StorageKey); err != nil {
			s.logger.Error("failed to delete request blob", "error", err, "storage_key", f.StorageKey)
		}
	}

	s.logger.Info("request deleted", "request_id", id, "reference", r.Reference)
	return nil
}

// AttachFile stores the upload and records its metadata against the request.
func (s *Service) AttachFile(ctx context.Context, actor *authz.Actor, requestID int64, dto AttachFileDTO, file io.Reader) (*File, error) {
	r, err := s.load(requestID)
	if err != nil {
		return nil, err
	}

	if !s.policy.Update(actor, r.View()) {
		s.logger.Warn("attach request file denied", "user_id", actorID(actor), "request_id", requestID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	key := storage.NewStorageKey(dto.FileName)
	size, err := s.files.Save(ctx, key, file)
	if err != nil {
		s.logger.Error("failed to store request file", "error", err, "request_id", requestID)
		return nil, internal.NewInternalError("failed to store file", err)
	}

	f := &File{
		RequestID:  requestID,
		FileName:   dto.FileName,
		StorageKey: key,
		MimeType:   dto.MimeType,
		SizeBytes:  size,
		UploadedBy: actorID(actor),
	}

	if err := s.repo.CreateFile(f); err != nil {
		s.logger.Error("failed to record request file", "error", err, "request_id", requestID)
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to clean up orphaned blob", "error", delErr, "storage_key", key)
		}
		return nil, err
	}

	s.logger.Info("request file attached", "file_id", f.ID, "request_id", requestID)
	return f, nil
}

func (s *Service) ListFiles(actor *authz.Actor, requestID int64) ([]*File, error) {
	r, err := s.load(requestID)
	if err != nil {
		return nil, err
	}

	if !s.policy.View(actor, r.View()) {
		return nil, internal.ErrAccessDenied
	}

	files, err := s.repo.ListFiles(requestID)
	if err != nil {
		s.logger.Error("failed to list request files", "error", err, "request_id", requestID)
		return nil, err
	}
	return files, nil
}

// DownloadFile opens a file addressed through its parent request. A
// mismatched request id yields NotFound, even for otherwise-authorized
// callers.
func (s *Service) DownloadFile(ctx context.Context, actor *authz.Actor, requestID, fileID int64) (*File, io.ReadCloser, error) {
	r, err := s.load(requestID)
	if err != nil {
		return nil, nil, err
	}

	if !s.policy.View(actor, r.View()) {
		return nil, nil, internal.ErrAccessDenied
	}

	f, err := s.repo.GetFileByID(fileID)
	if err != nil {
		return nil, nil, internal.ErrRequestFileNotFound
	}
	if f.RequestID != requestID {
		return nil, nil, internal.ErrRequestFileNotFound
	}

	blob, err := s.files.Open(ctx, f.StorageKey)
	if err != nil {
		s.logger.Error("failed to open request blob", "error", err, "file_id", fileID)
		return nil, nil, internal.NewInternalError("failed to open file", err)
	}
	return f, blob, nil
}

func (s *Service) DeleteFile(ctx context.Context, actor *authz.Actor, requestID, fileID int64) error {
	r, err := s.load(requestID)
	if err != nil {
		return err
	}

	if !s.policy.Update(actor, r.View()) {
		s.logger.Warn("delete request file denied", "user_id", actorID(actor), "file_id", fileID)
		return internal.ErrAccessDenied
	}

	f, err := s.repo.GetFileByID(fileID)
	if err != nil {
		return internal.ErrRequestFileNotFound
	}
	if f.RequestID != requestID {
		return internal.ErrRequestFileNotFound
	}

	if err := s.repo.DeleteFile(fileID); err != nil {
		s.logger.Error("failed to delete request file", "error", err, "file_id", fileID)
		return err
	}
	if err := s.files.Delete(ctx, f.StorageKey); err != nil {
		s.logger.Error("failed to delete request blob", "error", err, "storage_key", f.StorageKey)
	}

	s.logger.Info("request file deleted", "file_id", fileID, "request_id", requestID)
	return nil
}

// PostMessage appends to the request's thread. Participation follows the
// view policy: the creator or requests.manage holders.
func (s *Service) PostMessage(actor *authz.Actor, requestID int64, dto PostMessageDTO) (*Message, error) {
	r, err := s.load(requestID)
	if err != nil {
		return nil, err
	}

	if !s.policy.View(actor, r.View()) {
		s.logger.Warn("post request message denied", "user_id", actorID(actor), "request_id", requestID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m := &Message{
		RequestID: requestID,
		AuthorID:  actorID(actor),
		Body:      dto.Body,
	}

	if err := s.repo.CreateMessage(m); err != nil {
		s.logger.Error("failed to post request message", "error", err, "request_id", requestID)
		return nil, err
	}

	s.logger.Info("request message posted", "message_id", m.ID, "request_id", requestID)
	return m, nil
}

func (s *Service) ListMessages(actor *authz.Actor, requestID int64) ([]*Message, error) {
	r, err := s.load(requestID)
	if err != nil {
		return nil, err
	}

	if !s.policy.View(actor, r.View()) {
		return nil, internal.ErrAccessDenied
	}

	messages, err := s.repo.ListMessages(requestID)
	if err != nil {
		s.logger.Error("failed to list request messages", "error", err, "request_id", requestID)
		return nil, err
	}
	return messages, nil
}

func (s *Service) load(id int64) (*Request, error) {
	r, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrRequestNotFound
	}
	return r, nil
}

func actorID(actor *authz.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.UserID
}
