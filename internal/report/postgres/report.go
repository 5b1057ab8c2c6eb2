package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mbenkirane/cabinet-management/internal/report"
)

// ReportRepository implements report.Repository on raw SQL. Aggregations
// resolve each entry's minutes as the explicit duration when present,
// falling back to the rounded started/ended interval.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const minutesExpr = `COALESCE(te.duration_minutes, ROUND(EXTRACT(EPOCH FROM (te.ended_at - te.started_at)) / 60), 0)`

func (r *ReportRepository) TimeByClient(from, to time.Time) ([]*report.ClientTimeRow, error) {
	query := `
		SELECT c.id AS client_id,
		       c.name AS client_name,
		       COALESCE(SUM(` + minutesExpr + `), 0)::bigint AS minutes,
		       COUNT(te.id) AS entries
		FROM time_entries te
		JOIN tasks t ON t.id = te.task_id
		JOIN clients c ON c.id = t.client_id
		WHERE te.started_at >= $1 AND te.started_at < $2
		GROUP BY c.id, c.name
		ORDER BY minutes DESC`

	var rows []*report.ClientTimeRow
	if err := r.db.Select(&rows, query, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) TimeByUser(from, to time.Time) ([]*report.UserTimeRow, error) {
	query := `
		SELECT u.id AS user_id,
		       u.name AS user_name,
		       COALESCE(SUM(` + minutesExpr + `), 0)::bigint AS minutes,
		       COUNT(te.id) AS entries
		FROM time_entries te
		JOIN users u ON u.id = te.user_id
		WHERE te.started_at >= $1 AND te.started_at < $2
		GROUP BY u.id, u.name
		ORDER BY minutes DESC`

	var rows []*report.UserTimeRow
	if err := r.db.Select(&rows, query, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

// CostByUser joins each user's aggregated minutes to their latest rate row.
// The latest effective_from wins outright, future-dated rates included.
func (r *ReportRepository) CostByUser(from, to time.Time) ([]*report.UserCostRow, error) {
	query := `
		SELECT u.id AS user_id,
		       u.name AS user_name,
		       COALESCE(SUM(` + minutesExpr + `), 0)::bigint AS minutes,
		       (SELECT ur.hourly_rate_mad
		        FROM user_rates ur
		        WHERE ur.user_id = u.id
		        ORDER BY ur.effective_from DESC
		        LIMIT 1) AS hourly_rate_mad
		FROM time_entries te
		JOIN users u ON u.id = te.user_id
		WHERE te.started_at >= $1 AND te.started_at < $2
		GROUP BY u.id, u.name
		ORDER BY minutes DESC`

	var rows []*report.UserCostRow
	if err := r.db.Select(&rows, query, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) ExportRows(from, to time.Time) ([]*report.ExportRow, error) {
	query := `
		SELECT te.id AS entry_id,
		       u.name AS user_name,
		       c.name AS client_name,
		       t.title AS task_title,
		       te.started_at,
		       te.ended_at,
		       (` + minutesExpr + `)::bigint AS minutes,
		       te.note
		FROM time_entries te
		JOIN users u ON u.id = te.user_id
		JOIN tasks t ON t.id = te.task_id
		JOIN clients c ON c.id = t.client_id
		WHERE te.started_at >= $1 AND te.started_at < $2
		ORDER BY te.started_at ASC, te.id ASC`

	var rows []*report.ExportRow
	if err := r.db.Select(&rows, query, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}
