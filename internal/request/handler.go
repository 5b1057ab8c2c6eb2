package request

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
	requests, err := h.Service.List(auth.ActorFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (h *Handler) ListForClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.idParam(w, r, "id", "client")
	if !ok {
		return
	}

	requests, err := h.Service.ListForClient(auth.ActorFromContext(r.Context()), clientID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "request")
	if !ok {
		return
	}

	req, err := h.Service.Get(auth.ActorFromContext(r.Context()), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.Create(auth.ActorFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "request")
	if !ok {
		return
	}

	var dto UpdateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.Update(auth.ActorFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "request")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), auth.ActorFromContext(r.Context()), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AttachFile(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.idParam(w, r, "id", "request")
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

	dto := AttachFileDTO{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
	}

	f, err := h.Service.AttachFile(r.Context(), auth.ActorFromContext(r.Context()), requestID, dto, file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, f)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.idParam(w, r, "id", "request")
	if !ok {
		return
	}

	files, err := h.Service.ListFiles(auth.ActorFromContext(r.Context()), requestID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.idParam(w, r, "id", "request")
	if !ok {
		return
	}
	fileID, ok := h.idParam(w, r, "fileID", "file")
	if !ok {
		return
	}

	f, blob, err := h.Service.DownloadFile(r.Context(), auth.ActorFromContext(r.Context()), requestID, fileID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer blob.Close()

	if f.MimeType != "" {
		w.Header().Set("Content-Type", f.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.FileName))
	if f.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(f.SizeBytes, 10))
	}

	if _, err := io.Copy(w, blob); err != nil {
		h.Logger.Error("failed to stream request file", "error", err, "file_id", f.ID)
	}
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.idParam(w, r, "id", "request")
	if !ok {
		return
	}
	fileID, ok := h.idParam(w, r, "fileID", "file")
	if !ok {
		return
	}

	if err := h.Service.DeleteFile(r.Context(), auth.ActorFromContext(r.Context()), requestID, fileID); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.idParam(w, r, "id", "request")
	if !ok {
		return
	}

	var dto PostMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.PostMessage(auth.ActorFromContext(r.Context()), requestID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.idParam(w, r, "id", "request")
	if !ok {
		return
	}

	messages, err := h.Service.ListMessages(auth.ActorFromContext(r.Context()), requestID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid "+label+" ID")
		return 0, false
	}
	return id, true
}
