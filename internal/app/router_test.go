package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"emergency-center-scheduler/internal/config"
	"emergency-center-scheduler/internal/database"
	"emergency-center-scheduler/internal/service"
	"emergency-center-scheduler/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.SetPasswordCost(bcrypt.MinCost)
	utils.InitJWT("test-access", "test-refresh", time.Hour, 24*time.Hour)
	os.Exit(m.Run())
}

type testServer struct {
	t         *testing.T
	router    *gin.Engine
	container *Container
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// setupTestServer builds the full router over an in-memory store with an
// approved admin seeded. Today is 2025-03-10 in UTC.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)

	cfg := &config.Config{
		Server:   config.ServerConfig{GinMode: gin.TestMode},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Schedule: config.ScheduleConfig{Location: time.UTC, TokenPurgeInterval: time.Hour},
	}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	calendar := service.NewCalendarWithClock(time.UTC, func() time.Time { return now })

	container := NewContainer(db, cfg, calendar, zap.NewNop())
	created, err := container.Auth.EnsureAdmin("admin@example.com", "adminpass", "Ada", "Admin")
	require.NoError(t, err)
	require.True(t, created)

	router, err := NewRouter(container, cfg, zap.NewNop())
	require.NoError(t, err)

	return &testServer{t: t, router: router, container: container}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.AccessToken)
	require.Equal(s.t, 3600, data.ExpiresIn)
	return data.AccessToken
}

// registerApproved registers a medic and approves it, returning its id
func (s *testServer) registerApproved(adminToken, email string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/auth/register", "", gin.H{
		"first_name":       "Med",
		"last_name":        email,
		"email":            email,
		"password":         "secret123",
		"password_confirm": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		User struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.Equal(s.t, "pending", data.User.Status)

	w, _ = s.do(http.MethodPatch, "/admin/users/"+data.User.ID+"/approve", adminToken, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return data.User.ID
}

func (s *testServer) createCenter(adminToken, name string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/centers", adminToken, gin.H{"name": name})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var center struct {
		ID string `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &center))
	return center.ID
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)

	w, env := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestAuthRequired(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestPendingUserCannotLogin(t *testing.T) {
	s := setupTestServer(t)

	w, _ := s.do(http.MethodPost, "/auth/register", "", gin.H{
		"first_name":       "Pat",
		"last_name":        "Pending",
		"email":            "Pat@Example.com",
		"password":         "secret123",
		"password_confirm": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(http.MethodPost, "/auth/login", "", gin.H{"email": "pat@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, env.Success)
}

func TestRegisterValidation(t *testing.T) {
	s := setupTestServer(t)

	w, env := s.do(http.MethodPost, "/auth/register", "", gin.H{
		"first_name":       "Pat",
		"last_name":        "Short",
		"email":            "short@example.com",
		"password":         "abc",
		"password_confirm": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "password")
}

func TestMedicCannotUseAdminRoutes(t *testing.T) {
	s := setupTestServer(t)
	adminToken := s.login("admin@example.com", "adminpass")
	s.registerApproved(adminToken, "medic@example.com")
	medicToken := s.login("medic@example.com", "secret123")

	w, _ := s.do(http.MethodGet, "/admin/users", medicToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPost, "/centers", medicToken, gin.H{"name": "Rogue"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuditLimit(t *testing.T) {
	s := setupTestServer(t)
	adminToken := s.login("admin@example.com", "adminpass")
	s.registerApproved(adminToken, "medic@example.com")

	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: http.StatusOK},
		{query: "?limit=5", want: http.StatusOK},
		{query: "?limit=abc", want: http.StatusBadRequest},
		{query: "?limit=-1", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run("limit"+tt.query, func(t *testing.T) {
			w, _ := s.do(http.MethodGet, "/admin/audit"+tt.query, adminToken, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestSchedulingScenario(t *testing.T) {
	s := setupTestServer(t)
	adminToken := s.login("admin@example.com", "adminpass")

	medicID := s.registerApproved(adminToken, "medic@example.com")
	leadID := s.registerApproved(adminToken, "lead@example.com")
	centerID := s.createCenter(adminToken, "Central")

	w, _ := s.do(http.MethodPatch, "/centers/"+centerID+"/assign-lead", adminToken, gin.H{"user_id": leadID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	leadToken := s.login("lead@example.com", "secret123")
	medicToken := s.login("medic@example.com", "secret123")

	// Medic is not a member yet
	w, _ = s.do(http.MethodGet, "/centers/"+centerID+"/schedule?month=2025-03", medicToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPost, "/centers/"+centerID+"/members", leadToken, gin.H{"user_id": medicID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/centers/"+centerID+"/members", leadToken, gin.H{"user_id": medicID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env := s.do(http.MethodPost, "/centers/"+centerID+"/schedule", leadToken, gin.H{"medic_id": medicID, "date": "2025-03-15"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var assignment struct {
		Date    string `json:"date"`
		MedicID string `json:"medic_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &assignment))
	assert.Equal(t, "2025-03-15", assignment.Date)
	assert.Equal(t, medicID, assignment.MedicID)

	// Center calendar has every day of the month with only the 15th taken
	w, env = s.do(http.MethodGet, "/centers/"+centerID+"/schedule?month=2025-03", medicToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var schedule struct {
		Month string `json:"month"`
		Days  []struct {
			Date     string  `json:"date"`
			Assigned bool    `json:"assigned"`
			MedicID  *string `json:"medic_id"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &schedule))
	assert.Equal(t, "2025-03", schedule.Month)
	require.Len(t, schedule.Days, 31)
	for _, day := range schedule.Days {
		if day.Date == "2025-03-15" {
			assert.True(t, day.Assigned)
			require.NotNil(t, day.MedicID)
			assert.Equal(t, medicID, *day.MedicID)
			continue
		}
		assert.False(t, day.Assigned, day.Date)
		assert.Nil(t, day.MedicID, day.Date)
	}

	// Scheduled day cannot be marked busy
	w, _ = s.do(http.MethodPost, "/my/busy", medicToken, gin.H{"date": "2025-03-15"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Taken day cannot be assigned again with POST
	w, _ = s.do(http.MethodPost, "/centers/"+centerID+"/schedule", leadToken, gin.H{"medic_id": leadID, "date": "2025-03-15"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Past days are rejected
	w, _ = s.do(http.MethodPost, "/centers/"+centerID+"/schedule", leadToken, gin.H{"medic_id": medicID, "date": "2025-03-01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The medic sees the shift and a system notification
	w, env = s.do(http.MethodGet, "/my/schedule?month=2025-03", medicToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Days []struct {
			Date       string `json:"date"`
			CenterName string `json:"center_name"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine.Days, 1)
	assert.Equal(t, "Central", mine.Days[0].CenterName)

	w, env = s.do(http.MethodGet, "/messages/system_"+medicID, medicToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "2025-03-15")

	// Removing the member drops the future shift
	w, env = s.do(http.MethodDelete, "/centers/"+centerID+"/members/"+medicID, leadToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var removed struct {
		FutureShiftsRemoved int64 `json:"future_shifts_removed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &removed))
	assert.Equal(t, int64(1), removed.FutureShiftsRemoved)

	w, env = s.do(http.MethodGet, "/centers/"+centerID+"/schedule?month=2025-03", leadToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), `"assigned":true`)
}

func TestDoubleBookingAcrossCenters(t *testing.T) {
	s := setupTestServer(t)
	adminToken := s.login("admin@example.com", "adminpass")

	medicID := s.registerApproved(adminToken, "medic@example.com")
	central := s.createCenter(adminToken, "Central")
	north := s.createCenter(adminToken, "North")

	for _, centerID := range []string{central, north} {
		w, _ := s.do(http.MethodPost, "/centers/"+centerID+"/members", adminToken, gin.H{"user_id": medicID})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, _ := s.do(http.MethodPost, "/centers/"+central+"/schedule", adminToken, gin.H{"medic_id": medicID, "date": "2025-03-20"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := s.do(http.MethodPost, "/centers/"+north+"/schedule", adminToken, gin.H{"medic_id": medicID, "date": "2025-03-20"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotEmpty(t, env.Error)

	// Busy days block assignment too
	medicToken := s.login("medic@example.com", "secret123")
	w, _ = s.do(http.MethodPost, "/my/busy", medicToken, gin.H{"date": "2025-03-21"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/centers/"+north+"/schedule", adminToken, gin.H{"medic_id": medicID, "date": "2025-03-21"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReportCSV(t *testing.T) {
	s := setupTestServer(t)
	adminToken := s.login("admin@example.com", "adminpass")

	medicID := s.registerApproved(adminToken, "medic@example.com")
	centerID := s.createCenter(adminToken, "Central")
	w, _ := s.do(http.MethodPost, "/centers/"+centerID+"/members", adminToken, gin.H{"user_id": medicID})
	require.Equal(t, http.StatusCreated, w.Code)
	for _, day := range []string{"2025-03-11", "2025-03-12"} {
		w, _ = s.do(http.MethodPost, "/centers/"+centerID+"/schedule", adminToken, gin.H{"medic_id": medicID, "date": day})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, _ = s.do(http.MethodGet, "/centers/"+centerID+"/reports.csv?month=2025-03", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="center_`+centerID+`_2025-03_report.csv"`, w.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "medic_id,first_name,last_name,email,assigned_days", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",2"), lines[1])

	w, env := s.do(http.MethodGet, "/centers/"+centerID+"/reports?month=2025-03", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, int64(2), report.Total)
}

func TestSupportTickets(t *testing.T) {
	s := setupTestServer(t)

	w, _ := s.do(http.MethodPost, "/support", "", gin.H{"message": "cannot log in"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/support", "", gin.H{"message": "cannot log in", "email": "Guest@Example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/support", "not-a-token", gin.H{"message": "hello", "email": "x@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	adminToken := s.login("admin@example.com", "adminpass")
	w, env := s.do(http.MethodGet, "/admin/support?resolved=false", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			ID    string  `json:"id"`
			Email *string `json:"email"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	require.NotNil(t, list.Items[0].Email)
	assert.Equal(t, "guest@example.com", *list.Items[0].Email)

	w, _ = s.do(http.MethodPatch, "/admin/support/"+list.Items[0].ID, adminToken, gin.H{"resolved": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(http.MethodGet, "/admin/support?resolved=false", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.Items)
}

func TestDirectMessages(t *testing.T) {
	s := setupTestServer(t)
	adminToken := s.login("admin@example.com", "adminpass")
	aliceID := s.registerApproved(adminToken, "alice@example.com")
	bobID := s.registerApproved(adminToken, "bob@example.com")
	aliceToken := s.login("alice@example.com", "secret123")
	bobToken := s.login("bob@example.com", "secret123")

	w, _ := s.do(http.MethodPost, "/messages", aliceToken, gin.H{"to_user_id": "system", "content": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := s.do(http.MethodPost, "/messages", aliceToken, gin.H{"to_user_id": bobID, "content": "hi bob"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sent struct {
		ConversationID string `json:"conversation_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	assert.Equal(t, service.DirectConversationID(mustID(t, aliceID), mustID(t, bobID)), sent.ConversationID)

	w, env = s.do(http.MethodGet, "/messages/"+sent.ConversationID, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "hi bob")
}

func mustID(t *testing.T, s string) uint {
	t.Helper()
	id, err := service.ParseID(s)
	require.NoError(t, err)
	return id
}
