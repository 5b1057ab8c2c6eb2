package client

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/mbenkirane/cabinet-management/internal/auth"
	"github.com/mbenkirane/cabinet-management/internal/transport"
	"github.com/mbenkirane/cabinet-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service       *Service
	maxUploadSize int64
}

func NewHandler(service *Service, maxUploadSize int64) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(lg),
		Service:       service,
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.List(auth.ActorFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"clients": clients})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "client")
	if !ok {
		return
	}

	c, err := h.Service.Get(auth.ActorFromContext(r.Context()), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateClientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(auth.ActorFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "client")
	if !ok {
		return
	}

	var dto UpdateClientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(auth.ActorFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "client")
	if !ok {
		return
	}

	if err := h.Service.Delete(auth.ActorFromContext(r.Context()), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SyncCollaborators(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "client")
	if !ok {
		return
	}

	var dto SyncCollaboratorsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.SyncCollaborators(auth.ActorFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

// UploadDocument accepts a multipart form with a "file" part plus metadata
// fields.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.idParam(w, r, "id", "client")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	dto := UploadDocumentDTO{
		Title:          r.FormValue("title"),
		FileName:       header.Filename,
		MimeType:       header.Header.Get("Content-Type"),
		IsConfidential: r.FormValue("is_confidential") == "true",
	}

	doc, err := h.Service.UploadDocument(r.Context(), auth.ActorFromContext(r.Context()), clientID, dto, file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.idParam(w, r, "id", "client")
	if !ok {
		return
	}

	docs, err := h.Service.ListDocuments(auth.ActorFromContext(r.Context()), clientID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.idParam(w, r, "id", "client")
	if !ok {
		return
	}
	documentID, ok := h.idParam(w, r, "documentID", "document")
	if !ok {
		return
	}

	doc, blob, err := h.Service.DownloadDocument(r.Context(), auth.ActorFromContext(r.Context()), clientID, documentID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer blob.Close()

	if doc.MimeType != "" {
		w.Header().Set("Content-Type", doc.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	if doc.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}

	if _, err := io.Copy(w, blob); err != nil {
		h.Logger.Error("failed to stream document", "error", err, "document_id", doc.ID)
	}
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.idParam(w, r, "id", "client")
	if !ok {
		return
	}
	documentID, ok := h.idParam(w, r, "documentID", "document")
	if !ok {
		return
	}

	if err := h.Service.DeleteDocument(r.Context(), auth.ActorFromContext(r.Context()), clientID, documentID); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid "+label+" ID")
		return 0, false
	}
	return id, true
}
