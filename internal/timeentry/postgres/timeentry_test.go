package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	timeentryDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/timeentry"
	"github.com/vivekrana775/ems-backend/internal/timeentry"
	timeentryPostgres "github.com/vivekrana775/ems-backend/internal/timeentry/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestTimeEntryPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TimeEntry Postgres Suite")
}

// SQLite-compatible models for testing

type SQLiteTimeEntry struct {
	ID          string     `gorm:"primaryKey"`
	EmployeeID  string     `gorm:"column:employee_id;not null;index"`
	ClockInAt   time.Time  `gorm:"column:clock_in_at;not null"`
	ClockOutAt  *time.Time `gorm:"column:clock_out_at"`
	Note        *string    `gorm:"column:note"`
	CreatedByID *string    `gorm:"column:created_by_id"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (SQLiteTimeEntry) TableName() string {
	return "time_entries"
}

type SQLiteDirectoryEmployee struct {
	ID           string    `gorm:"primaryKey"`
	UserID       string    `gorm:"column:user_id;uniqueIndex;not null"`
	EmployeeCode string    `gorm:"column:employee_code;uniqueIndex;not null"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteDirectoryEmployee) TableName() string {
	return "employees"
}

var _ = Describe("TimeEntry PostgreSQL Repository", func() {
	var (
		db        *gorm.DB
		repo      timeentry.Repository
		directory timeentry.EmployeeDirectory
	)

	newEntry := func(id, employeeID string, clockInAt time.Time) *timeentryDatamodel.TimeEntry {
		return &timeentryDatamodel.TimeEntry{
			ID:         id,
			EmployeeID: employeeID,
			ClockInAt:  clockInAt,
			CreatedAt:  clockInAt,
			UpdatedAt:  clockInAt,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteTimeEntry{}, &SQLiteDirectoryEmployee{})
		Expect(err).NotTo(HaveOccurred())

		// Same partial unique index the production migration creates.
		err = db.Exec("CREATE UNIQUE INDEX idx_time_entries_one_open ON time_entries (employee_id) WHERE clock_out_at IS NULL").Error
		Expect(err).NotTo(HaveOccurred())

		repo = timeentryPostgres.NewTimeEntryRepository(db)
		directory = timeentryPostgres.NewEmployeeDirectory(db)
	})

	Describe("Create", func() {
		It("stores an open entry", func() {
			err := repo.Create(newEntry("entry-1", "emp-1", time.Now()))
			Expect(err).NotTo(HaveOccurred())

			found, err := repo.FindOpenByEmployee("emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal("entry-1"))
		})

		It("translates a second open entry to the duplicate sentinel", func() {
			Expect(repo.Create(newEntry("entry-1", "emp-1", time.Now()))).To(Succeed())

			err := repo.Create(newEntry("entry-2", "emp-1", time.Now()))
			Expect(err).To(Equal(timeentry.ErrDuplicateOpen))
		})

		It("allows a new open entry once the previous one is closed", func() {
			clockIn := time.Now().Add(-time.Hour)
			Expect(repo.Create(newEntry("entry-1", "emp-1", clockIn))).To(Succeed())
			Expect(repo.Close("entry-1", time.Now(), nil)).To(Succeed())

			err := repo.Create(newEntry("entry-2", "emp-1", time.Now()))
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps open entries of different employees independent", func() {
			Expect(repo.Create(newEntry("entry-1", "emp-1", time.Now()))).To(Succeed())
			Expect(repo.Create(newEntry("entry-2", "emp-2", time.Now()))).To(Succeed())
		})
	})

	Describe("FindOpenByEmployee", func() {
		It("returns the sentinel when nothing is open", func() {
			_, err := repo.FindOpenByEmployee("emp-1")
			Expect(err).To(Equal(timeentry.ErrNoOpenEntry))
		})

		It("ignores closed entries", func() {
			clockIn := time.Now().Add(-time.Hour)
			Expect(repo.Create(newEntry("entry-1", "emp-1", clockIn))).To(Succeed())
			Expect(repo.Close("entry-1", time.Now(), nil)).To(Succeed())

			_, err := repo.FindOpenByEmployee("emp-1")
			Expect(err).To(Equal(timeentry.ErrNoOpenEntry))
		})
	})

	Describe("Close", func() {
		It("sets the clock-out time and note", func() {
			clockIn := time.Now().Add(-time.Hour)
			Expect(repo.Create(newEntry("entry-1", "emp-1", clockIn))).To(Succeed())

			note := "left early"
			clockOut := time.Now()
			Expect(repo.Close("entry-1", clockOut, &note)).To(Succeed())

			items, total, err := repo.List(timeentry.ListFilter{}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(items[0].ClockOutAt).NotTo(BeNil())
			Expect(items[0].Note).NotTo(BeNil())
			Expect(*items[0].Note).To(Equal("left early"))
		})
	})

	Describe("List", func() {
		var base time.Time

		BeforeEach(func() {
			base = time.Now()
			older := newEntry("entry-1", "emp-1", base.Add(-48*time.Hour))
			closedAt := base.Add(-40 * time.Hour)
			Expect(repo.Create(older)).To(Succeed())
			Expect(repo.Close("entry-1", closedAt, nil)).To(Succeed())

			Expect(repo.Create(newEntry("entry-2", "emp-1", base.Add(-time.Hour)))).To(Succeed())
			Expect(repo.Create(newEntry("entry-3", "emp-2", base))).To(Succeed())
		})

		It("orders newest clock-ins first", func() {
			items, total, err := repo.List(timeentry.ListFilter{}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(items[0].ID).To(Equal("entry-3"))
			Expect(items[2].ID).To(Equal("entry-1"))
		})

		It("filters by employee", func() {
			employeeID := "emp-1"
			_, total, err := repo.List(timeentry.ListFilter{EmployeeID: &employeeID}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
		})

		It("applies the clock-in date range", func() {
			from := base.Add(-2 * time.Hour)
			items, total, err := repo.List(timeentry.ListFilter{From: &from}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			for _, item := range items {
				Expect(item.ClockInAt).To(BeTemporally(">=", from))
			}

			to := base.Add(-24 * time.Hour)
			_, total, err = repo.List(timeentry.ListFilter{To: &to}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})
	})

	Describe("EmployeeDirectory", func() {
		BeforeEach(func() {
			err := db.Create(&SQLiteDirectoryEmployee{
				ID:           "emp-1",
				UserID:       "user-1",
				EmployeeCode: "EMP-0001",
				Status:       "ACTIVE",
			}).Error
			Expect(err).NotTo(HaveOccurred())
		})

		It("resolves an employee by user id", func() {
			emp, err := directory.FindByUserID("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(emp.ID).To(Equal("emp-1"))
		})

		It("returns the not found sentinel for an unknown user", func() {
			_, err := directory.FindByUserID("user-missing")
			Expect(err).To(Equal(timeentry.ErrEmployeeNotFound))
		})

		It("reports existence by employee id", func() {
			exists, err := directory.Exists("emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = directory.Exists("emp-missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})
})
