package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	requestDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/request"
	"github.com/vivekrana775/ems-backend/internal/request"
	requestPostgres "github.com/vivekrana775/ems-backend/internal/request/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRequestPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Request Postgres Suite")
}

// SQLite-compatible models for testing

type SQLiteRequest struct {
	ID          string     `gorm:"primaryKey"`
	EmployeeID  string     `gorm:"column:employee_id;not null;index"`
	Type        string     `gorm:"column:type;not null"`
	Status      string     `gorm:"column:status;index"`
	Title       string     `gorm:"column:title;not null"`
	Description *string    `gorm:"column:description"`
	Priority    int        `gorm:"column:priority"`
	ApproverID  *string    `gorm:"column:approver_id"`
	SubmittedAt time.Time  `gorm:"column:submitted_at"`
	RespondedAt *time.Time `gorm:"column:responded_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (SQLiteRequest) TableName() string {
	return "requests"
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

var _ = Describe("Request PostgreSQL Repository", func() {
	var (
		db        *gorm.DB
		repo      request.Repository
		directory request.EmployeeDirectory
	)

	seedRequest := func(id, employeeID, reqType, status string, submittedAt time.Time) {
		err := repo.Create(&requestDatamodel.Request{
			ID:          id,
			EmployeeID:  employeeID,
			Type:        reqType,
			Status:      status,
			Title:       "Seeded request",
			Priority:    3,
			SubmittedAt: submittedAt,
			CreatedAt:   submittedAt,
			UpdatedAt:   submittedAt,
		})
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRequest{}, &SQLiteDirectoryEmployee{})
		Expect(err).NotTo(HaveOccurred())

		repo = requestPostgres.NewRequestRepository(db)
		directory = requestPostgres.NewEmployeeDirectory(db)
	})

	Describe("GetByID", func() {
		It("finds a stored request", func() {
			seedRequest("req-1", "emp-1", requestDatamodel.TypeLeave, requestDatamodel.StatusPending, time.Now())

			found, err := repo.GetByID("req-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.EmployeeID).To(Equal("emp-1"))
			Expect(found.Status).To(Equal(requestDatamodel.StatusPending))
		})

		It("returns the not found sentinel", func() {
			_, err := repo.GetByID("req-missing")
			Expect(err).To(Equal(request.ErrRequestNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			base := time.Now()
			seedRequest("req-1", "emp-1", requestDatamodel.TypeLeave, requestDatamodel.StatusPending, base.Add(-2*time.Hour))
			seedRequest("req-2", "emp-1", requestDatamodel.TypeEquipment, requestDatamodel.StatusApproved, base.Add(-time.Hour))
			seedRequest("req-3", "emp-2", requestDatamodel.TypeLeave, requestDatamodel.StatusPending, base)
		})

		It("orders newest submissions first", func() {
			items, total, err := repo.List(request.ListFilter{}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(items[0].ID).To(Equal("req-3"))
			Expect(items[2].ID).To(Equal("req-1"))
		})

		It("filters by employee", func() {
			employeeID := "emp-1"
			items, total, err := repo.List(request.ListFilter{EmployeeID: &employeeID}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			for _, item := range items {
				Expect(item.EmployeeID).To(Equal("emp-1"))
			}
		})

		It("combines status and type filters", func() {
			status := requestDatamodel.StatusPending
			reqType := requestDatamodel.TypeLeave
			items, total, err := repo.List(request.ListFilter{Status: &status, Type: &reqType}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(items).To(HaveLen(2))
		})

		It("pages with the total unchanged", func() {
			items, total, err := repo.List(request.ListFilter{}, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(items).To(HaveLen(1))
			Expect(items[0].ID).To(Equal("req-1"))
		})
	})

	Describe("UpdateStatus", func() {
		It("stores the decision fields", func() {
			seedRequest("req-1", "emp-1", requestDatamodel.TypeLeave, requestDatamodel.StatusPending, time.Now())

			respondedAt := time.Now()
			err := repo.UpdateStatus("req-1", requestDatamodel.StatusApproved, "user-manager", respondedAt)
			Expect(err).NotTo(HaveOccurred())

			found, err := repo.GetByID("req-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(requestDatamodel.StatusApproved))
			Expect(found.ApproverID).NotTo(BeNil())
			Expect(*found.ApproverID).To(Equal("user-manager"))
			Expect(found.RespondedAt).NotTo(BeNil())
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
			Expect(err).To(Equal(request.ErrEmployeeNotFound))
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
