package request_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vivekrana775/ems-backend/internal/audit"
	auditPostgres "github.com/vivekrana775/ems-backend/internal/audit/postgres"
	"github.com/vivekrana775/ems-backend/internal/auth"
	"github.com/vivekrana775/ems-backend/internal/core/events"
	"github.com/vivekrana775/ems-backend/internal/request"
	requestPostgres "github.com/vivekrana775/ems-backend/internal/request/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLite-compatible models for the integration test

type sqliteRequest struct {
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

func (sqliteRequest) TableName() string {
	return "requests"
}

type sqliteEmployee struct {
	ID           string    `gorm:"primaryKey"`
	UserID       string    `gorm:"column:user_id;uniqueIndex;not null"`
	EmployeeCode string    `gorm:"column:employee_code;uniqueIndex;not null"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (sqliteEmployee) TableName() string {
	return "employees"
}

type sqliteAuditLog struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    *string   `gorm:"column:user_id"`
	Action    string    `gorm:"column:action;not null"`
	Entity    *string   `gorm:"column:entity"`
	EntityID  *string   `gorm:"column:entity_id"`
	Metadata  []byte    `gorm:"column:metadata"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sqliteAuditLog) TableName() string {
	return "audit_logs"
}

var _ = Describe("Request Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *request.Handler

		employeeIdentity *auth.Identity
		managerIdentity  *auth.Identity
	)

	withIdentity := func(req *http.Request, identity *auth.Identity) *http.Request {
		return req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
	}

	withURLParam := func(req *http.Request, key, value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add(key, value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&sqliteRequest{}, &sqliteEmployee{}, &sqliteAuditLog{})
		Expect(err).NotTo(HaveOccurred())

		bus := events.NewEventBus(slogger)
		audit.RegisterPersistence(bus, auditPostgres.NewAuditWriter(db), slogger)
		recorder := audit.NewBusRecorder(bus, slogger)

		repo := requestPostgres.NewRequestRepository(db)
		directory := requestPostgres.NewEmployeeDirectory(db)
		service := request.NewService(repo, directory, recorder, slogger)
		handler = request.NewHandler(service)

		for _, emp := range []sqliteEmployee{
			{ID: "emp-1", UserID: "user-employee", EmployeeCode: "EMP-0001", Status: "ACTIVE"},
			{ID: "emp-2", UserID: "user-manager", EmployeeCode: "EMP-0002", Status: "ACTIVE"},
		} {
			Expect(db.Create(&emp).Error).To(Succeed())
		}

		employeeIdentity = &auth.Identity{UserID: "user-employee", Roles: []string{"EMPLOYEE"}}
		managerIdentity = &auth.Identity{UserID: "user-manager", Roles: []string{"MANAGER"}}
	})

	createRequest := func() string {
		body := `{"type":"LEAVE","title":"Summer vacation"}`
		req := httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
		req = withIdentity(req, employeeIdentity)
		w := httptest.NewRecorder()

		handler.Create(w, req)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var response struct {
			Success bool         `json:"success"`
			Data    request.View `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Success).To(BeTrue())
		return response.Data.ID
	}

	It("creates a request in PENDING state and records the audit trail", func() {
		body := `{"type":"LEAVE","title":"Summer vacation","description":"Two weeks off"}`
		req := httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
		req = withIdentity(req, employeeIdentity)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response struct {
			Success bool         `json:"success"`
			Data    request.View `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Success).To(BeTrue())
		Expect(response.Data.EmployeeID).To(Equal("emp-1"))
		Expect(response.Data.Status).To(Equal("PENDING"))
		Expect(response.Data.Priority).To(Equal(3))

		Eventually(func() int64 {
			var count int64
			db.Model(&sqliteAuditLog{}).Where("action = ?", "request.created").Count(&count)
			return count
		}).Should(Equal(int64(1)))
	})

	It("rejects an invalid payload with the error envelope", func() {
		body := `{"type":"HOLIDAY","title":"x"}`
		req := httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
		req = withIdentity(req, employeeIdentity)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var response struct {
			Success bool   `json:"success"`
			Code    string `json:"code"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Success).To(BeFalse())
		Expect(response.Code).To(Equal("VALIDATION_FAILED"))
	})

	It("requires an identity", func() {
		req := httptest.NewRequest(http.MethodGet, "/requests", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("lists requests in the paginated envelope", func() {
		createRequest()

		req := httptest.NewRequest(http.MethodGet, "/requests?page=1&pageSize=10", nil)
		req = withIdentity(req, managerIdentity)
		w := httptest.NewRecorder()

		handler.List(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response struct {
			Success bool `json:"success"`
			Data    struct {
				Items []request.View `json:"items"`
				Meta  struct {
					Total    int64 `json:"total"`
					Page     int   `json:"page"`
					PageSize int   `json:"pageSize"`
				} `json:"meta"`
			} `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Data.Items).To(HaveLen(1))
		Expect(response.Data.Meta.Total).To(Equal(int64(1)))
		Expect(response.Data.Meta.Page).To(Equal(1))
		Expect(response.Data.Meta.PageSize).To(Equal(10))
	})

	It("approves a pending request through the status endpoint", func() {
		id := createRequest()

		req := httptest.NewRequest(http.MethodPatch, "/requests/"+id+"/status", strings.NewReader(`{"status":"APPROVED"}`))
		req = withIdentity(req, managerIdentity)
		req = withURLParam(req, "id", id)
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response struct {
			Success bool         `json:"success"`
			Data    request.View `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Data.Status).To(Equal("APPROVED"))
		Expect(response.Data.ApproverID).NotTo(BeNil())
		Expect(*response.Data.ApproverID).To(Equal("user-manager"))
		Expect(response.Data.RespondedAt).NotTo(BeNil())
	})

	It("rejects an invalid transition with its details", func() {
		id := createRequest()

		approve := httptest.NewRequest(http.MethodPatch, "/requests/"+id+"/status", strings.NewReader(`{"status":"REJECTED"}`))
		approve = withIdentity(approve, managerIdentity)
		approve = withURLParam(approve, "id", id)
		w := httptest.NewRecorder()
		handler.UpdateStatus(w, approve)
		Expect(w.Code).To(Equal(http.StatusOK))

		reopen := httptest.NewRequest(http.MethodPatch, "/requests/"+id+"/status", strings.NewReader(`{"status":"APPROVED"}`))
		reopen = withIdentity(reopen, managerIdentity)
		reopen = withURLParam(reopen, "id", id)
		w = httptest.NewRecorder()
		handler.UpdateStatus(w, reopen)

		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var response struct {
			Success bool   `json:"success"`
			Code    string `json:"code"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Code).To(Equal("INVALID_TRANSITION"))
	})

	It("forbids a plain employee from driving the state machine", func() {
		id := createRequest()

		req := httptest.NewRequest(http.MethodPatch, "/requests/"+id+"/status", strings.NewReader(`{"status":"APPROVED"}`))
		req = withIdentity(req, employeeIdentity)
		req = withURLParam(req, "id", id)
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})
})
