package report

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"strconv"
	"time"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/authz"
)

type Repository interface {
	TimeByClient(from, to time.Time) ([]*ClientTimeRow, error)
	TimeByUser(from, to time.Time) ([]*UserTimeRow, error)
	CostByUser(from, to time.Time) ([]*UserCostRow, error)
	ExportRows(from, to time.Time) ([]*ExportRow, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Productivity aggregates logged minutes per client and per user over the
// period.
func (s *Service) Productivity(actor *authz.Actor, from, to time.Time) (*ProductivitySummary, error) {
	if !authz.ViewReports(actor) {
		s.logger.Warn("productivity report denied", "user_id", actorID(actor))
		return nil, internal.ErrAccessDenied
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	byClient, err := s.repo.TimeByClient(from, to)
	if err != nil {
		s.logger.Error("failed to aggregate time by client", "error", err)
		return nil, err
	}
	byUser, err := s.repo.TimeByUser(from, to)
	if err != nil {
		s.logger.Error("failed to aggregate time by user", "error", err)
		return nil, err
	}

	var total int64
	for _, row := range byClient {
		total += row.Minutes
	}

	return &ProductivitySummary{
		From:      from,
		To:        to,
		ByClient:  byClient,
		ByUser:    byUser,
		TotalMins: total,
	}, nil
}

// Cost prices each user's aggregated minutes at their current hourly rate.
// A user without a rate on file contributes zero.
func (s *Service) Cost(actor *authz.Actor, from, to time.Time) (*CostReport, error) {
	if !authz.ViewReports(actor) {
		s.logger.Warn("cost report denied", "user_id", actorID(actor))
		return nil, internal.ErrAccessDenied
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	rows, err := s.repo.CostByUser(from, to)
	if err != nil {
		s.logger.Error("failed to aggregate cost by user", "error", err)
		return nil, err
	}

	var total float64
	for _, row := range rows {
		if row.HourlyRateMAD != nil {
			row.CostMAD = float64(row.Minutes) / 60.0 * *row.HourlyRateMAD
		}
		total += row.CostMAD
	}

	return &CostReport{
		From:         from,
		To:           to,
		ByUser:       rows,
		TotalCostMAD: total,
	}, nil
}

// ExportCSV renders the period's time entries as CSV. Gated tighter than the
// summaries.
func (s *Service) ExportCSV(actor *authz.Actor, from, to time.Time) ([]byte, error) {
	if !authz.ExportTime(actor) {
		s.logger.Warn("time export denied", "user_id", actorID(actor))
		return nil, internal.ErrAccessDenied
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	rows, err := s.repo.ExportRows(from, to)
	if err != nil {
		s.logger.Error("failed to load export rows", "error", err)
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"entry_id", "user", "client", "task", "started_at", "ended_at", "minutes", "note"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		ended := ""
		if row.EndedAt != nil {
			ended = row.EndedAt.Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatInt(row.EntryID, 10),
			row.UserName,
			row.ClientName,
			row.TaskTitle,
			row.StartedAt.Format(time.RFC3339),
			ended,
			strconv.FormatInt(row.Minutes, 10),
			row.Note,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.logger.Info("time export generated", "rows", len(rows), "user_id", actorID(actor))
	return buf.Bytes(), nil
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return internal.NewValidationFieldError("from", "from and to are required", internal.ErrCodeInvalidDateRange)
	}
	if to.Before(from) {
		return internal.NewValidationFieldError("to", "to cannot precede from", internal.ErrCodeInvalidDateRange)
	}
	return nil
}

func actorID(actor *authz.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.UserID
}
