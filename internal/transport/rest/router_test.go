package rest_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/internal/auth"
	"github.com/vivekrana775/ems-backend/internal/employee"
	"github.com/vivekrana775/ems-backend/internal/request"
	"github.com/vivekrana775/ems-backend/internal/timeentry"
	"github.com/vivekrana775/ems-backend/internal/transport/rest"
)

// mockAuthService resolves bearer tokens from a fixed table so route
// gates can be exercised without a credential store.
type mockAuthService struct {
	claims map[string]*auth.Claims
}

func (m *mockAuthService) Register(dto auth.RegisterDTO) (*auth.AuthUser, error) {
	return nil, internal.ErrInvalidCredentials
}

func (m *mockAuthService) Login(dto auth.LoginDTO, meta auth.ClientMeta) (*auth.LoginResult, error) {
	return nil, internal.ErrInvalidCredentials
}

func (m *mockAuthService) Refresh(rawToken string, meta auth.ClientMeta) (*auth.LoginResult, error) {
	return nil, internal.ErrInvalidToken
}

func (m *mockAuthService) Logout(rawToken string) {}

func (m *mockAuthService) LogoutAll(userID string) error {
	return nil
}

func (m *mockAuthService) ValidateAccessToken(tokenString string) (*auth.Claims, error) {
	claims, ok := m.claims[tokenString]
	if !ok {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

type mockEmployeeService struct{}

func (m *mockEmployeeService) List(filter employee.ListFilter, page internal.PageParams) (*employee.ListResult, error) {
	return &employee.ListResult{Items: []employee.View{}, Meta: internal.NewPageMeta(0, page)}, nil
}

func (m *mockEmployeeService) GetByID(id string) (*employee.View, error) {
	return &employee.View{ID: id, Status: "ACTIVE"}, nil
}

func (m *mockEmployeeService) Create(dto employee.CreateEmployeeDTO) (*employee.View, error) {
	return &employee.View{ID: "emp-new", Status: "ACTIVE"}, nil
}

func (m *mockEmployeeService) Update(id string, dto employee.UpdateEmployeeDTO) (*employee.View, error) {
	return &employee.View{ID: id, Status: "ACTIVE"}, nil
}

func (m *mockEmployeeService) UpdateStatus(id string, dto employee.UpdateStatusDTO) (*employee.View, error) {
	return &employee.View{ID: id, Status: dto.Status}, nil
}

type mockRequestService struct{}

func (m *mockRequestService) Create(ctx context.Context, identity *auth.Identity, dto request.CreateRequestDTO) (*request.View, error) {
	return nil, internal.ErrRequestNotFound
}

func (m *mockRequestService) GetByID(identity *auth.Identity, id string) (*request.View, error) {
	return nil, internal.ErrRequestNotFound
}

func (m *mockRequestService) List(identity *auth.Identity, filter request.ListFilter, page internal.PageParams) (*request.ListResult, error) {
	return &request.ListResult{Items: []request.View{}, Meta: internal.NewPageMeta(0, page)}, nil
}

func (m *mockRequestService) UpdateStatus(ctx context.Context, identity *auth.Identity, id string, dto request.UpdateStatusDTO) (*request.View, error) {
	return nil, internal.ErrRequestNotFound
}

type mockTimeEntryService struct{}

func (m *mockTimeEntryService) ClockIn(identity *auth.Identity, dto timeentry.ClockInDTO) (*timeentry.View, error) {
	return nil, internal.ErrAlreadyClockedIn
}

func (m *mockTimeEntryService) ClockOut(identity *auth.Identity, dto timeentry.ClockOutDTO) (*timeentry.View, error) {
	return nil, internal.ErrNoOpenTimeEntry
}

func (m *mockTimeEntryService) List(identity *auth.Identity, filter timeentry.ListFilter, page internal.PageParams) (*timeentry.ListResult, error) {
	return &timeentry.ListResult{Items: []timeentry.View{}, Meta: internal.NewPageMeta(0, page)}, nil
}

var _ = Describe("Route authorization", func() {
	var router *chi.Mux

	claimsFor := func(userID string, roles ...string) *auth.Claims {
		return &auth.Claims{
			Roles:            roles,
			RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		}
	}

	BeforeEach(func() {
		authService := &mockAuthService{claims: map[string]*auth.Claims{
			"admin-token":    claimsFor("user-admin", "ADMIN"),
			"hr-token":       claimsFor("user-hr", "HR"),
			"manager-token":  claimsFor("user-manager", "MANAGER"),
			"employee-token": claimsFor("user-employee", "EMPLOYEE"),
		}}

		router = chi.NewRouter()
		rest.RegisterAllRoutes(
			router,
			nil,
			auth.NewHandler(authService, false),
			employee.NewHandler(&mockEmployeeService{}),
			request.NewHandler(&mockRequestService{}),
			timeentry.NewHandler(&mockTimeEntryService{}),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)
	})

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		var reader *strings.Reader
		if body == "" {
			reader = strings.NewReader("{}")
		} else {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("rejects requests without a token", func() {
		w := do(http.MethodGet, "/api/employees/", "", "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	Describe("employee updates", func() {
		It("admits ADMIN", func() {
			w := do(http.MethodPut, "/api/employees/emp-1", "admin-token", `{"department":"Sales"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("admits MANAGER", func() {
			w := do(http.MethodPut, "/api/employees/emp-1", "manager-token", `{"department":"Sales"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("forbids EMPLOYEE", func() {
			w := do(http.MethodPut, "/api/employees/emp-1", "employee-token", `{"department":"Sales"}`)
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("employee onboarding and status", func() {
		It("forbids MANAGER from creating employees", func() {
			w := do(http.MethodPost, "/api/employees/", "manager-token", `{"employeeCode":"EMP-0009"}`)
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("forbids MANAGER from changing employment status", func() {
			w := do(http.MethodPatch, "/api/employees/emp-1/status", "manager-token", `{"status":"INACTIVE"}`)
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("admits HR to change employment status", func() {
			w := do(http.MethodPatch, "/api/employees/emp-1/status", "hr-token", `{"status":"INACTIVE"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("employee listing", func() {
		It("forbids EMPLOYEE", func() {
			w := do(http.MethodGet, "/api/employees/", "employee-token", "")
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("admits MANAGER", func() {
			w := do(http.MethodGet, "/api/employees/", "manager-token", "")
			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("signup", func() {
		It("forbids MANAGER", func() {
			w := do(http.MethodPost, "/api/auth/signup", "manager-token", `{}`)
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})
})
