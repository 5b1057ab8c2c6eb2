package report

import (
	"log/slog"
	"net/http"
	"time"

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

func (h *Handler) Productivity(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.rangeParams(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.Productivity(auth.ActorFromContext(r.Context()), from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Cost(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.rangeParams(w, r)
	if !ok {
		return
	}

	costs, err := h.Service.Cost(auth.ActorFromContext(r.Context()), from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, costs)
}

func (h *Handler) ExportTime(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.rangeParams(w, r)
	if !ok {
		return
	}

	data, err := h.Service.ExportCSV(auth.ActorFromContext(r.Context()), from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="time-export.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("failed to write export", "error", err)
	}
}

// rangeParams parses the from/to query parameters, accepting dates or full
// timestamps. A bare "to" date is inclusive: it advances to the next day.
func (h *Handler) rangeParams(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, _, err := parseTimeParam(r.URL.Query().Get("from"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid from parameter")
		return time.Time{}, time.Time{}, false
	}
	to, toIsDate, err := parseTimeParam(r.URL.Query().Get("to"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid to parameter")
		return time.Time{}, time.Time{}, false
	}
	if toIsDate {
		to = to.AddDate(0, 0, 1)
	}
	return from, to, true
}

func parseTimeParam(raw string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t, false, err
}
