package timeentry

import (
	"encoding/json"
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
	Service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) LogTime(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.idParam(w, r, "id", "task")
	if !ok {
		return
	}

	var dto LogTimeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.LogTime(auth.ActorFromContext(r.Context()), taskID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) ListByTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.idParam(w, r, "id", "task")
	if !ok {
		return
	}

	entries, err := h.Service.ListByTask(auth.ActorFromContext(r.Context()), taskID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"time_entries": entries})
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.idParam(w, r, "id", "user")
	if !ok {
		return
	}

	entries, err := h.Service.ListByUser(auth.ActorFromContext(r.Context()), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"time_entries": entries})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.idParam(w, r, "id", "task")
	if !ok {
		return
	}
	entryID, ok := h.idParam(w, r, "entryID", "time entry")
	if !ok {
		return
	}

	e, err := h.Service.Get(auth.ActorFromContext(r.Context()), taskID, entryID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.idParam(w, r, "id", "task")
	if !ok {
		return
	}
	entryID, ok := h.idParam(w, r, "entryID", "time entry")
	if !ok {
		return
	}

	var dto UpdateTimeEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.Update(auth.ActorFromContext(r.Context()), taskID, entryID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.idParam(w, r, "id", "task")
	if !ok {
		return
	}
	entryID, ok := h.idParam(w, r, "entryID", "time entry")
	if !ok {
		return
	}

	if err := h.Service.Delete(auth.ActorFromContext(r.Context()), taskID, entryID); err != nil {
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
