package task

import "time"

type Task struct {
	ID          int64      `gorm:"primaryKey"`
	ClientID    int64      `gorm:"column:client_id;not null"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description"`
	Status      string     `gorm:"column:status;default:'EN_ATTENTE'"`
	Progress    int        `gorm:"column:progress;default:0"`
	OwnerID     *int64     `gorm:"column:owner_id"`
	DueDate     *time.Time `gorm:"column:due_date"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}

type TaskAssignee struct {
	ID        int64     `gorm:"primaryKey"`
	TaskID    int64     `gorm:"column:task_id;not null;uniqueIndex:idx_task_assignees_pair"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_task_assignees_pair"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

type TimeEntry struct {
	ID              int64      `gorm:"primaryKey"`
	TaskID          int64      `gorm:"column:task_id;not null"`
	UserID          int64      `gorm:"column:user_id;not null"`
	StartedAt       time.Time  `gorm:"column:started_at;not null"`
	EndedAt         *time.Time `gorm:"column:ended_at"`
	DurationMinutes *int64     `gorm:"column:duration_minutes"`
	Note            string     `gorm:"column:note"`
	CreatedAt       time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;default:now()"`
}
