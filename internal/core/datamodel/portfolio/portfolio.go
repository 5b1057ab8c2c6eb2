package portfolio

import "time"

type Portfolio struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

// PortfolioCollaborator is the explicit join granting a user visibility over a
// portfolio and, transitively, its clients.
type PortfolioCollaborator struct {
	ID          int64     `gorm:"primaryKey"`
	PortfolioID int64     `gorm:"column:portfolio_id;not null;uniqueIndex:idx_portfolio_collaborators_pair"`
	UserID      int64     `gorm:"column:user_id;not null;uniqueIndex:idx_portfolio_collaborators_pair"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}
