package rate

import "time"

// UserRate is an append-only record of a user's hourly rate effective as of a
// date. (user_id, effective_from) is unique.
type UserRate struct {
	ID            int64     `gorm:"primaryKey"`
	UserID        int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_rates_effective"`
	HourlyRateMAD float64   `gorm:"column:hourly_rate_mad;not null"`
	EffectiveFrom time.Time `gorm:"column:effective_from;not null;uniqueIndex:idx_user_rates_effective"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
}
