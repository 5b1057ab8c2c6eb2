package postgres

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/timeentry"
)

func TestTimeEntryRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TimeEntryRepository Suite")
}

type SQLiteTask struct {
	ID          int64      `gorm:"primaryKey"`
	ClientID    int64      `gorm:"column:client_id;not null"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description"`
	Status      string     `gorm:"column:status"`
	Progress    int        `gorm:"column:progress"`
	OwnerID     *int64     `gorm:"column:owner_id"`
	DueDate     *time.Time `gorm:"column:due_date"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (SQLiteTask) TableName() string { return "tasks" }

type SQLiteTaskAssignee struct {
	ID        int64     `gorm:"primaryKey"`
	TaskID    int64     `gorm:"column:task_id;not null;uniqueIndex:idx_task_assignees_pair"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_task_assignees_pair"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteTaskAssignee) TableName() string { return "task_assignees" }

type SQLiteTimeEntry struct {
	ID              int64      `gorm:"primaryKey"`
	TaskID          int64      `gorm:"column:task_id;not null"`
	UserID          int64      `gorm:"column:user_id;not null"`
	StartedAt       time.Time  `gorm:"column:started_at;not null"`
	EndedAt         *time.Time `gorm:"column:ended_at"`
	DurationMinutes *int64     `gorm:"column:duration_minutes"`
	Note            string     `gorm:"column:note"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (SQLiteTimeEntry) TableName() string { return "time_entries" }

var _ = Describe("TimeEntryRepository", func() {
	var (
		db     *gorm.DB
		repo   *TimeEntryRepository
		taskID int64
	)

	ownerID := int64(10)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteTask{}, &SQLiteTaskAssignee{}, &SQLiteTimeEntry{})
		Expect(err).NotTo(HaveOccurred())

		task := &SQLiteTask{
			ClientID:  1,
			Title:     "Declaration TVA T2",
			Status:    "EN_COURS",
			OwnerID:   &ownerID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		Expect(db.Create(task).Error).To(Succeed())
		taskID = task.ID

		repo = NewTimeEntryRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	logEntry := func(userID int64, startedAt time.Time, minutes *int64) *timeentry.TimeEntry {
		e := &timeentry.TimeEntry{
			TaskID:          taskID,
			UserID:          userID,
			StartedAt:       startedAt,
			DurationMinutes: minutes,
			Note:            "revue des pieces",
		}
		Expect(repo.Create(e)).To(Succeed())
		return e
	}

	Describe("Create and GetByID", func() {
		It("round-trips an entry still running", func() {
			created := logEntry(10, time.Now().Add(-time.Hour), nil)
			Expect(created.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.EndedAt).To(BeNil())
			Expect(got.DurationMinutes).To(BeNil())
			Expect(got.Minutes()).To(Equal(int64(0)))
		})

		It("returns the entry-not-found sentinel for unknown ids", func() {
			_, err := repo.GetByID(777)
			Expect(errors.Is(err, internal.ErrTimeEntryNotFound)).To(BeTrue())
		})
	})

	Describe("listings", func() {
		It("lists a task's entries newest started first", func() {
			older := logEntry(10, time.Now().Add(-3*time.Hour), nil)
			newer := logEntry(11, time.Now().Add(-time.Hour), nil)

			got, err := repo.ListByTask(taskID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
			Expect(got[0].ID).To(Equal(newer.ID))
			Expect(got[1].ID).To(Equal(older.ID))
		})

		It("lists only the given user's entries", func() {
			mine := logEntry(10, time.Now().Add(-2*time.Hour), nil)
			logEntry(11, time.Now().Add(-time.Hour), nil)

			got, err := repo.ListByUser(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].ID).To(Equal(mine.ID))
		})
	})

	Describe("Update", func() {
		It("persists interval and duration changes", func() {
			e := logEntry(10, time.Now().Add(-2*time.Hour), nil)

			ended := e.StartedAt.Add(90 * time.Minute)
			minutes := int64(90)
			e.EndedAt = &ended
			e.DurationMinutes = &minutes
			e.Note = "revue terminee"
			Expect(repo.Update(e)).To(Succeed())

			got, err := repo.GetByID(e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.EndedAt).NotTo(BeNil())
			Expect(got.Minutes()).To(Equal(int64(90)))
			Expect(got.Note).To(Equal("revue terminee"))
		})
	})

	Describe("Delete", func() {
		It("removes the entry", func() {
			e := logEntry(10, time.Now().Add(-time.Hour), nil)

			Expect(repo.Delete(e.ID)).To(Succeed())

			_, err := repo.GetByID(e.ID)
			Expect(errors.Is(err, internal.ErrTimeEntryNotFound)).To(BeTrue())
		})
	})

	Describe("TaskView", func() {
		It("projects the parent task with owner and assignees", func() {
			Expect(db.Create(&SQLiteTaskAssignee{TaskID: taskID, UserID: 11, CreatedAt: time.Now()}).Error).To(Succeed())
			Expect(db.Create(&SQLiteTaskAssignee{TaskID: taskID, UserID: 12, CreatedAt: time.Now()}).Error).To(Succeed())

			view, err := repo.TaskView(taskID)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.ID).To(Equal(taskID))
			Expect(view.OwnerID).NotTo(BeNil())
			Expect(*view.OwnerID).To(Equal(int64(10)))
			Expect(view.AssigneeIDs).To(ConsistOf(int64(11), int64(12)))
		})

		It("returns the task-not-found sentinel for unknown tasks", func() {
			_, err := repo.TaskView(404)
			Expect(errors.Is(err, internal.ErrTaskNotFound)).To(BeTrue())
		})
	})
})
