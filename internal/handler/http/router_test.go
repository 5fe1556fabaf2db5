package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/jwt"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDriverID = "drv-1"

// testJWT returns a token service sharing the test secret, so tokens from any
// instance verify on the router.
func testJWT() jwt.Service {
	return jwt.NewJWTService("handler-test-secret", "1h", "24h", nil)
}

type testServer struct {
	t      *testing.T
	jwt    jwt.Service
	router *chi.Mux
}

// newTestServer routes through the real router and middleware. Handlers left
// nil in h are filled with handlers over zero-value fakes.
func newTestServer(t *testing.T, h Handlers) *testServer {
	t.Helper()
	svc := testJWT()

	if h.Auth == nil {
		h.Auth = NewAuthHandler(svc, &fakeAuthService{})
	}
	if h.Driver == nil {
		h.Driver = NewDriverHandler(&fakeDriverService{})
	}
	if h.Duty == nil {
		h.Duty = NewDutyHandler(&fakeDutyService{})
	}
	if h.Parking == nil {
		h.Parking = NewParkingHandler(&fakeParkingService{})
	}
	if h.Advance == nil {
		h.Advance = NewAdvanceHandler(&fakeAdvanceService{})
	}
	if h.Salary == nil {
		h.Salary = NewSalaryHandler(&fakeSalaryService{}, nil)
	}
	if h.Fuel == nil {
		h.Fuel = NewFuelHandler(&fakeFuelService{})
	}
	if h.Fastag == nil {
		h.Fastag = NewFastagHandler(&fakeFastagService{})
	}
	if h.Accident == nil {
		h.Accident = NewAccidentHandler(&fakeAccidentService{})
	}
	if h.Upload == nil {
		h.Upload = NewUploadHandler(&fakeFileService{})
	}

	cfg := RouterConfig{AppName: "fleet-test", Version: "test", Env: "test", LogLevel: "error"}
	return &testServer{t: t, jwt: svc, router: NewRouter(cfg, svc, h, metrics.New("fleet_test"))}
}

func (s *testServer) token(role user.Role) string {
	s.t.Helper()
	claims := jwt.AccessClaims{UserID: "usr-" + string(role), Email: string(role) + "@fleet.test", CompanyID: "cmp-1", Role: role}
	if role == user.RoleDriver {
		id := testDriverID
		claims.DriverID = &id
	}
	token, _, err := s.jwt.GenerateAccessToken(claims)
	require.NoError(s.t, err)
	return token
}

// do sends req with a bearer token for role; an empty role sends none.
func (s *testServer) do(role user.Role, req *http.Request) *httptest.ResponseRecorder {
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(role))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field    string
	filename string
	content  []byte
}

func multipartRequest(t *testing.T, target string, data interface{}, fields map[string]string, file *formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("data", string(raw)))
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile(file.field, file.filename)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestRouter_MetricsAndHeartbeat(t *testing.T) {
	s := newTestServer(t, Handlers{})

	w := s.do("", httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	s.do(user.RoleAdmin, jsonRequest(t, http.MethodGet, "/api/v1/admin/drivers", nil))

	w = s.do("", httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "fleet_test_http_requests_total")
	require.Contains(t, w.Body.String(), `route="/api/v1/admin/drivers`)
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	s := newTestServer(t, Handlers{})
	for _, path := range []string{
		"/api/v1/admin/salary-summary",
		"/api/v1/admin/drivers",
		"/api/v1/driver/duty",
		"/api/v1/auth/me",
	} {
		w := s.do("", httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_RolePermissions(t *testing.T) {
	s := newTestServer(t, Handlers{})
	tests := []struct {
		role   user.Role
		method string
		path   string
		want   int
	}{
		{user.RoleAdmin, http.MethodGet, "/api/v1/admin/salary-summary?month=5&year=2024", http.StatusOK},
		{user.RoleStaff, http.MethodGet, "/api/v1/admin/salary-summary?month=5&year=2024", http.StatusForbidden},
		{user.RoleStaff, http.MethodGet, "/api/v1/admin/drivers", http.StatusForbidden},
		{user.RoleStaff, http.MethodGet, "/api/v1/admin/advances", http.StatusForbidden},
		{user.RoleStaff, http.MethodGet, "/api/v1/admin/fuel", http.StatusOK},
		{user.RoleStaff, http.MethodGet, "/api/v1/admin/accident-logs", http.StatusOK},
		{user.RoleDriver, http.MethodGet, "/api/v1/admin/accident-logs", http.StatusForbidden},
		{user.RoleStaff, http.MethodGet, "/api/v1/admin/attendance", http.StatusOK},
		{user.RoleDriver, http.MethodGet, "/api/v1/admin/attendance", http.StatusForbidden},
		{user.RoleDriver, http.MethodGet, "/api/v1/admin/parking", http.StatusForbidden},
		{user.RoleDriver, http.MethodGet, "/api/v1/driver/duty", http.StatusOK},
		{user.RoleAdmin, http.MethodGet, "/api/v1/driver/duty", http.StatusForbidden},
		{user.RoleStaff, http.MethodGet, "/api/v1/driver/parking", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" "+tt.path, func(t *testing.T) {
			w := s.do(tt.role, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_RejectsMalformedPathIDs(t *testing.T) {
	s := newTestServer(t, Handlers{})
	tests := []struct {
		method string
		path   string
		field  string
	}{
		{http.MethodGet, "/api/v1/admin/drivers/42", "id"},
		{http.MethodPut, "/api/v1/admin/drivers/drv-9", "id"},
		{http.MethodDelete, "/api/v1/admin/drivers/x", "id"},
		{http.MethodGet, "/api/v1/admin/attendance/1", "id"},
		{http.MethodPut, "/api/v1/admin/attendance/1", "id"},
		{http.MethodPatch, "/api/v1/admin/attendance/1/expense/5e7d2c4a-1f3b-4a6e-9c8d-0b1a2f3e4d01", "duty_id"},
		{http.MethodPatch, "/api/v1/admin/attendance/5e7d2c4a-1f3b-4a6e-9c8d-0b1a2f3e4d01/expense/2", "id"},
		{http.MethodPatch, "/api/v1/admin/parking/abc/review", "id"},
		{http.MethodDelete, "/api/v1/admin/parking/abc", "id"},
		{http.MethodGet, "/api/v1/admin/advances/abc", "id"},
		{http.MethodPost, "/api/v1/admin/advances/abc/recover", "id"},
		{http.MethodDelete, "/api/v1/admin/advances/abc", "id"},
		{http.MethodDelete, "/api/v1/admin/fuel/abc", "id"},
		{http.MethodDelete, "/api/v1/admin/fastag/abc", "id"},
		{http.MethodDelete, "/api/v1/admin/accident-logs/abc", "id"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := s.do(user.RoleAdmin, jsonRequest(t, tt.method, tt.path, nil))
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.Contains(t, decodeEnvelope(t, w).Error.Details, tt.field)
		})
	}
}
