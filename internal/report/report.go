package report

import "time"

// ClientTimeRow aggregates logged minutes against one client over a period.
type ClientTimeRow struct {
	ClientID   int64  `db:"client_id" json:"client_id"`
	ClientName string `db:"client_name" json:"client_name"`
	Minutes    int64  `db:"minutes" json:"minutes"`
	Entries    int64  `db:"entries" json:"entries"`
}

// UserTimeRow aggregates logged minutes by one user over a period.
type UserTimeRow struct {
	UserID   int64  `db:"user_id" json:"user_id"`
	UserName string `db:"user_name" json:"user_name"`
	Minutes  int64  `db:"minutes" json:"minutes"`
	Entries  int64  `db:"entries" json:"entries"`
}

// UserCostRow joins a user's aggregated minutes to their current hourly
// rate. Users with no rate on file cost zero.
type UserCostRow struct {
	UserID        int64    `db:"user_id" json:"user_id"`
	UserName      string   `db:"user_name" json:"user_name"`
	Minutes       int64    `db:"minutes" json:"minutes"`
	HourlyRateMAD *float64 `db:"hourly_rate_mad" json:"hourly_rate_mad"`
	CostMAD       float64  `db:"-" json:"cost_mad"`
}

// ExportRow is one line of the time CSV export.
type ExportRow struct {
	EntryID    int64      `db:"entry_id"`
	UserName   string     `db:"user_name"`
	ClientName string     `db:"client_name"`
	TaskTitle  string     `db:"task_title"`
	StartedAt  time.Time  `db:"started_at"`
	EndedAt    *time.Time `db:"ended_at"`
	Minutes    int64      `db:"minutes"`
	Note       string     `db:"note"`
}

type ProductivitySummary struct {
	From      time.Time        `json:"from"`
	To        time.Time        `json:"to"`
	ByClient  []*ClientTimeRow `json:"by_client"`
	ByUser    []*UserTimeRow   `json:"by_user"`
	TotalMins int64            `json:"total_minutes"`
}

type CostReport struct {
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	ByUser       []*UserCostRow `json:"by_user"`
	TotalCostMAD float64        `json:"total_cost_mad"`
}
