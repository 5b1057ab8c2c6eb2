package client

import (
	"context"
	"io"
	"log/slog"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
	"github.com/mbenkirane/cabinet-management/internal/storage"
)

type Repository interface {
	GetByID(id int64) (*Client, error)
	List() ([]*Client, error)
	ListForCollaborator(userID int64) ([]*Client, error)
	Create(c *Client) error
	Update(c *Client) error
	Delete(id int64) error
	PortfolioExists(portfolioID int64) (bool, error)
	CollaboratorIDs(clientID int64) ([]int64, error)
	PortfolioCollaboratorIDs(portfolioID int64) ([]int64, error)
	SyncCollaborators(clientID int64, userIDs []int64) error

	CreateDocument(d *Document) error
	GetDocumentByID(id int64) (*Document, error)
	ListDocuments(clientID int64) ([]*Document, error)
	DeleteDocument(id int64) error
}

type Service struct {
	repo   Repository
	files  storage.FileStore
	policy authz.ClientPolicy
	logger *slog.Logger
}

func NewService(repo Repository, files storage.FileStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		files:  files,
		logger: logger,
	}
}

// List returns the clients the actor may see, each serialized with the
// contract amount redacted per the requester. Broad visibility yields every
// client; otherwise the listing narrows to direct or portfolio collaborations.
func (s *Service) List(actor *authz.Actor) ([]*Response, error) {
	var (
		clients []*Client
		err     error
	)
	if actor.HasAnyRole(authz.RoleAdmin, authz.RoleChefEquipe) || actor.Can(authz.PermClientsView) {
		clients, err = s.repo.List()
	} else {
		clients, err = s.repo.ListForCollaborator(actorID(actor))
	}
	if err != nil {
		s.logger.Error("failed to list clients", "error", err)
		return nil, err
	}

	responses := make([]*Response, 0, len(clients))
	for _, c := range clients {
		if err := s.loadMemberships(c); err != nil {
			return nil, err
		}
		responses = append(responses, NewResponse(c, actor))
	}
	return responses, nil
}

func (s *Service) Get(actor *authz.Actor, id int64) (*Response, error) {
	c, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.View(actor, c.View()) {
		return nil, internal.ErrAccessDenied
	}
	return NewResponse(c, actor), nil
}

func (s *Service) Create(actor *authz.Actor, dto CreateClientDTO) (*Response, error) {
	if !s.policy.Create(actor) {
		s.logger.Warn("create client denied", "user_id", actorID(actor))
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.PortfolioExists(dto.PortfolioID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrPortfolioNotFound
	}

	status := dto.Status
	if status == "" {
		status = StatusActif
	}

	c := &Client{
		PortfolioID:     dto.PortfolioID,
		Name:            dto.Name,
		Email:           dto.Email,
		Phone:           dto.Phone,
		ICE:             dto.ICE,
		FiscalID:        dto.FiscalID,
		MontantContrat:  dto.MontantContrat,
		Status:          status,
		CollaboratorIDs: []int64{},
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create client", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("client created", "client_id", c.ID, "portfolio_id", c.PortfolioID)
	return NewResponse(c, actor), nil
}

func (s *Service) Update(actor *authz.Actor, id int64, dto UpdateClientDTO) (*Response, error) {
	c, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.Update(actor, c.View()) {
		s.logger.Warn("update client denied", "user_id", actorID(actor), "client_id", id)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.PortfolioID != nil {
		exists, err := s.repo.PortfolioExists(*dto.PortfolioID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, internal.ErrPortfolioNotFound
		}
		c.PortfolioID = *dto.PortfolioID
	}
	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.Email != nil {
		c.Email = *dto.Email
	}
	if dto.Phone != nil {
		c.Phone = *dto.Phone
	}
	if dto.ICE != nil {
		c.ICE = *dto.ICE
	}
	if dto.FiscalID != nil {
		c.FiscalID = *dto.FiscalID
	}
	if dto.MontantContrat != nil {
		c.MontantContrat = dto.MontantContrat
	}
	if dto.Status != nil {
		c.Status = *dto.Status
	}

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update client", "error", err, "client_id", id)
		return nil, err
	}
	return NewResponse(c, actor), nil
}

func (s *Service) Delete(actor *authz.Actor, id int64) error {
	c, err := s.load(id)
	if err != nil {
		return err
	}

	if !s.policy.Delete(actor, c.View()) {
		s.logger.Warn("delete client denied", "user_id", actorID(actor), "client_id", id)
		return internal.ErrAccessDenied
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete client", "error", err, "client_id", id)
		return err
	}

	s.logger.Info("client deleted", "client_id", id)
	return nil
}

// SyncCollaborators replaces the client's direct collaborator set. Gated like
// an update.
func (s *Service) SyncCollaborators(actor *authz.Actor, id int64, dto SyncCollaboratorsDTO) (*Response, error) {
	c, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.Update(actor, c.View()) {
		s.logger.Warn("sync client collaborators denied", "user_id", actorID(actor), "client_id", id)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SyncCollaborators(id, dto.UserIDs); err != nil {
		s.logger.Error("failed to sync client collaborators", "error", err, "client_id", id)
		return nil, err
	}

	if err := s.loadMemberships(c); err != nil {
		return nil, err
	}
	s.logger.Info("client collaborators replaced", "client_id", id, "count", len(c.CollaboratorIDs))
	return NewResponse(c, actor), nil
}

// UploadDocument stores the file bytes, then records metadata. Upload rights
// follow the client update policy.
func (s *Service) UploadDocument(ctx context.Context, actor *authz.Actor, clientID int64, dto UploadDocumentDTO, file io.Reader) (*Document, error) {
	c, err := s.load(clientID)
	if err != nil {
		return nil, err
	}

	if !s.policy.Update(actor, c.View()) {
		s.logger.Warn("upload document denied", "user_id", actorID(actor), "client_id", clientID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	key := storage.NewStorageKey(dto.FileName)
	size, err := s.files.Save(ctx, key, file)
	if err != nil {
		s.logger.Error("failed to store document", "error", err, "client_id", clientID)
		return nil, internal.NewInternalError("failed to store document", err)
	}

	doc := &Document{
		ClientID:       clientID,
		Title:          dto.Title,
		FileName:       dto.FileName,
		StorageKey:     key,
		MimeType:       dto.MimeType,
		SizeBytes:      size,
		IsConfidential: dto.IsConfidential,
		UploadedBy:     actorID(actor),
	}

	if err := s.repo.CreateDocument(doc); err != nil {
		s.logger.Error("failed to record document", "error", err, "client_id", clientID)
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to clean up orphaned blob", "error", delErr, "storage_key", key)
		}
		return nil, err
	}

	s.logger.Info("document uploaded", "document_id", doc.ID, "client_id", clientID, "confidential", doc.IsConfidential)
	return doc, nil
}

// ListDocuments returns the client's documents, filtering out confidential
// rows for requesters outside admin and chef d'equipe. Filtering removes the
// row entirely; a restricted requester cannot tell the document exists.
func (s *Service) ListDocuments(actor *authz.Actor, clientID int64) ([]*Document, error) {
	c, err := s.load(clientID)
	if err != nil {
		return nil, err
	}

	if !s.policy.View(actor, c.View()) {
		return nil, internal.ErrAccessDenied
	}

	docs, err := s.repo.ListDocuments(clientID)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err, "client_id", clientID)
		return nil, err
	}

	if authz.CanSeeConfidentialDocuments(actor) {
		return docs, nil
	}

	visible := make([]*Document, 0, len(docs))
	for _, d := range docs {
		if !d.IsConfidential {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

// DownloadDocument opens the document's blob for an authorized requester.
// Addressing a document through the wrong client yields NotFound, never
// Forbidden, even for admins.
func (s *Service) DownloadDocument(ctx context.Context, actor *authz.Actor, clientID, documentID int64) (*Document, io.ReadCloser, error) {
	c, err := s.load(clientID)
	if err != nil {
		return nil, nil, err
	}

	if !s.policy.View(actor, c.View()) {
		return nil, nil, internal.ErrAccessDenied
	}

	doc, err := s.repo.GetDocumentByID(documentID)
	if err != nil {
		return nil, nil, internal.ErrDocumentNotFound
	}
	if doc.ClientID != clientID {
		return nil, nil, internal.ErrDocumentNotFound
	}

	if doc.IsConfidential && !authz.CanSeeConfidentialDocuments(actor) {
		return nil, nil, internal.ErrAccessDenied
	}

	blob, err := s.files.Open(ctx, doc.StorageKey)
	if err != nil {
		s.logger.Error("failed to open document blob", "error", err, "document_id", documentID)
		return nil, nil, internal.NewInternalError("failed to open document", err)
	}
	return doc, blob, nil
}

func (s *Service) DeleteDocument(ctx context.Context, actor *authz.Actor, clientID, documentID int64) error {
	c, err := s.load(clientID)
	if err != nil {
		return err
	}

	if !s.policy.Delete(actor, c.View()) {
		s.logger.Warn("delete document denied", "user_id", actorID(actor), "document_id", documentID)
		return internal.ErrAccessDenied
	}

	doc, err := s.repo.GetDocumentByID(documentID)
	if err != nil {
		return internal.ErrDocumentNotFound
	}
	if doc.ClientID != clientID {
		return internal.ErrDocumentNotFound
	}

	if err := s.repo.DeleteDocument(documentID); err != nil {
		s.logger.Error("failed to delete document", "error", err, "document_id", documentID)
		return err
	}
	if err := s.files.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.Error("failed to delete document blob", "error", err, "storage_key", doc.StorageKey)
	}

	s.logger.Info("document deleted", "document_id", documentID, "client_id", clientID)
	return nil
}

func (s *Service) load(id int64) (*Client, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrClientNotFound
	}
	if err := s.loadMemberships(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) loadMemberships(c *Client) error {
	direct, err := s.repo.CollaboratorIDs(c.ID)
	if err != nil {
		s.logger.Error("failed to load client collaborators", "error", err, "client_id", c.ID)
		return err
	}
	if direct == nil {
		direct = []int64{}
	}
	c.CollaboratorIDs = direct

	viaPortfolio, err := s.repo.PortfolioCollaboratorIDs(c.PortfolioID)
	if err != nil {
		s.logger.Error("failed to load portfolio collaborators", "error", err, "portfolio_id", c.PortfolioID)
		return err
	}
	c.PortfolioCollaboratorIDs = viaPortfolio
	return nil
}

func actorID(actor *authz.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.UserID
}
