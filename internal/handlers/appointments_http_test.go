package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"appointment-scheduler/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestRouter wires the appointment routes against an in-memory database.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Appointment{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	h := NewAppointmentHandler(db)
	router := gin.New()
	group := router.Group("/api/appointment")
	group.GET("", h.ListAppointments)
	group.POST("", h.CreateAppointment)
	group.PUT("/:id", h.UpdateAppointment)
	group.DELETE("/:id", h.DeleteAppointment)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAppointment(t *testing.T, w *httptest.ResponseRecorder) AppointmentResponse {
	t.Helper()
	var envelope struct {
		Data AppointmentResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return envelope.Data
}

func decodeAppointments(t *testing.T, w *httptest.ResponseRecorder) []AppointmentResponse {
	t.Helper()
	var envelope struct {
		Data []AppointmentResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return envelope.Data
}

func mustCreate(t *testing.T, router *gin.Engine, title, start, end string) AppointmentResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/appointment", AppointmentRequest{
		Title:     title,
		StartTime: start,
		EndTime:   end,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create %q: status %d, body %s", title, w.Code, w.Body.String())
	}
	return decodeAppointment(t, w)
}

func TestCreateAppointmentAssignsIDAndDefaults(t *testing.T) {
	router := newTestRouter(t)

	created := mustCreate(t, router, "Checkup", "2023-05-15T10:00:00.000Z", "2023-05-15T11:00:00.000Z")
	if created.ID == "" {
		t.Error("expected a generated id")
	}
	if created.Priority != "low" {
		t.Errorf("priority = %q, want default %q", created.Priority, "low")
	}
	if created.StartTime != "2023-05-15T10:00:00.000Z" || created.EndTime != "2023-05-15T11:00:00.000Z" {
		t.Errorf("times not echoed back: %q - %q", created.StartTime, created.EndTime)
	}
}

func TestCreateAppointmentRejectsOverlap(t *testing.T) {
	// Each case gets a fresh store holding one appointment at 10:00-11:00.
	tests := []struct {
		name     string
		start    string
		end      string
		wantCode int
	}{
		{name: "contained", start: "2023-05-15T10:15:00.000Z", end: "2023-05-15T10:45:00.000Z", wantCode: http.StatusConflict},
		{name: "spills into start", start: "2023-05-15T09:30:00.000Z", end: "2023-05-15T10:30:00.000Z", wantCode: http.StatusConflict},
		{name: "spills past end", start: "2023-05-15T10:30:00.000Z", end: "2023-05-15T11:30:00.000Z", wantCode: http.StatusConflict},
		{name: "covers existing", start: "2023-05-15T09:00:00.000Z", end: "2023-05-15T12:00:00.000Z", wantCode: http.StatusConflict},
		{name: "ends at start", start: "2023-05-15T09:00:00.000Z", end: "2023-05-15T10:00:00.000Z", wantCode: http.StatusCreated},
		{name: "starts at end", start: "2023-05-15T11:00:00.000Z", end: "2023-05-15T12:00:00.000Z", wantCode: http.StatusCreated},
		{name: "other day", start: "2023-05-16T10:00:00.000Z", end: "2023-05-16T11:00:00.000Z", wantCode: http.StatusCreated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t)
			mustCreate(t, router, "Existing", "2023-05-15T10:00:00.000Z", "2023-05-15T11:00:00.000Z")

			w := doJSON(t, router, http.MethodPost, "/api/appointment", AppointmentRequest{
				Title:     "Candidate",
				StartTime: tc.start,
				EndTime:   tc.end,
			})
			if w.Code != tc.wantCode {
				t.Errorf("status = %d, want %d, body %s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		req  AppointmentRequest
	}{
		{name: "missing title", req: AppointmentRequest{StartTime: "2023-05-15T10:00:00.000Z", EndTime: "2023-05-15T11:00:00.000Z"}},
		{name: "bad startTime", req: AppointmentRequest{Title: "X", StartTime: "yesterday", EndTime: "2023-05-15T11:00:00.000Z"}},
		{name: "end equals start", req: AppointmentRequest{Title: "X", StartTime: "2023-05-15T10:00:00.000Z", EndTime: "2023-05-15T10:00:00.000Z"}},
		{name: "end before start", req: AppointmentRequest{Title: "X", StartTime: "2023-05-15T11:00:00.000Z", EndTime: "2023-05-15T10:00:00.000Z"}},
		{name: "crosses midnight", req: AppointmentRequest{Title: "X", StartTime: "2023-05-15T23:00:00.000Z", EndTime: "2023-05-16T01:00:00.000Z"}},
		{name: "unknown priority", req: AppointmentRequest{Title: "X", StartTime: "2023-05-15T10:00:00.000Z", EndTime: "2023-05-15T11:00:00.000Z", Priority: "urgent"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/appointment", tc.req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d, body %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestListAppointmentsByDateAndRange(t *testing.T) {
	router := newTestRouter(t)

	mustCreate(t, router, "Late", "2023-05-15T14:00:00.000Z", "2023-05-15T15:00:00.000Z")
	mustCreate(t, router, "Early", "2023-05-15T09:00:00.000Z", "2023-05-15T10:00:00.000Z")
	mustCreate(t, router, "Next day", "2023-05-16T09:00:00.000Z", "2023-05-16T10:00:00.000Z")
	mustCreate(t, router, "Next month", "2023-06-01T09:00:00.000Z", "2023-06-01T10:00:00.000Z")

	w := doJSON(t, router, http.MethodGet, "/api/appointment?date=2023-05-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("day query: status %d, body %s", w.Code, w.Body.String())
	}
	day := decodeAppointments(t, w)
	if len(day) != 2 {
		t.Fatalf("day query returned %d appointments, want 2", len(day))
	}
	if day[0].Title != "Early" || day[1].Title != "Late" {
		t.Errorf("day query not sorted by start time: %q, %q", day[0].Title, day[1].Title)
	}

	w = doJSON(t, router, http.MethodGet, "/api/appointment?start=2023-05-15&end=2023-05-16", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("range query: status %d, body %s", w.Code, w.Body.String())
	}
	if got := decodeAppointments(t, w); len(got) != 3 {
		t.Errorf("inclusive range returned %d appointments, want 3", len(got))
	}

	w = doJSON(t, router, http.MethodGet, "/api/appointment", nil)
	if got := decodeAppointments(t, w); len(got) != 4 {
		t.Errorf("unfiltered query returned %d appointments, want 4", len(got))
	}

	for _, path := range []string{
		"/api/appointment?date=15-05-2023",
		"/api/appointment?start=2023-05-15&end=soon",
		"/api/appointment?start=2023-05-15",
	} {
		w = doJSON(t, router, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", path, w.Code, http.StatusBadRequest)
		}
	}
}

func TestUpdateAppointmentExcludesItselfFromOverlapScan(t *testing.T) {
	router := newTestRouter(t)

	created := mustCreate(t, router, "Checkup", "2023-05-15T10:00:00.000Z", "2023-05-15T11:00:00.000Z")
	mustCreate(t, router, "Neighbor", "2023-05-15T12:00:00.000Z", "2023-05-15T13:00:00.000Z")

	// Saving the record back into its own slot must not conflict with itself.
	w := doJSON(t, router, http.MethodPut, "/api/appointment/"+created.ID, AppointmentRequest{
		Title:     "Checkup renamed",
		StartTime: "2023-05-15T10:00:00.000Z",
		EndTime:   "2023-05-15T11:00:00.000Z",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("self update: status %d, body %s", w.Code, w.Body.String())
	}
	if got := decodeAppointment(t, w); got.Title != "Checkup renamed" {
		t.Errorf("title = %q, want %q", got.Title, "Checkup renamed")
	}

	// Moving onto another appointment is still rejected.
	w = doJSON(t, router, http.MethodPut, "/api/appointment/"+created.ID, AppointmentRequest{
		Title:     "Checkup",
		StartTime: "2023-05-15T12:30:00.000Z",
		EndTime:   "2023-05-15T13:30:00.000Z",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("overlapping update: status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestUpdateAppointmentMovesAcrossDays(t *testing.T) {
	router := newTestRouter(t)

	created := mustCreate(t, router, "Checkup", "2023-05-15T10:00:00.000Z", "2023-05-15T11:00:00.000Z")

	w := doJSON(t, router, http.MethodPut, "/api/appointment/"+created.ID, AppointmentRequest{
		Title:     "Checkup",
		StartTime: "2023-05-20T10:00:00.000Z",
		EndTime:   "2023-05-20T11:00:00.000Z",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("move update: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/appointment?date=2023-05-15", nil)
	if got := decodeAppointments(t, w); len(got) != 0 {
		t.Errorf("old day still holds %d appointments", len(got))
	}
	w = doJSON(t, router, http.MethodGet, "/api/appointment?date=2023-05-20", nil)
	if got := decodeAppointments(t, w); len(got) != 1 {
		t.Errorf("new day holds %d appointments, want 1", len(got))
	}
}

func TestUpdateAppointmentUnknownID(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/appointment/no-such-id", AppointmentRequest{
		Title:     "Ghost",
		StartTime: "2023-05-15T10:00:00.000Z",
		EndTime:   "2023-05-15T11:00:00.000Z",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDeleteAppointment(t *testing.T) {
	router := newTestRouter(t)

	created := mustCreate(t, router, "Checkup", "2023-05-15T10:00:00.000Z", "2023-05-15T11:00:00.000Z")

	w := doJSON(t, router, http.MethodDelete, "/api/appointment/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/appointment?date=2023-05-15", nil)
	if got := decodeAppointments(t, w); len(got) != 0 {
		t.Errorf("appointment still listed after delete: %d", len(got))
	}

	// A second delete and a made-up id both miss.
	for _, id := range []string{created.ID, "no-such-id"} {
		w = doJSON(t, router, http.MethodDelete, "/api/appointment/"+id, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("delete %q: status = %d, want %d", id, w.Code, http.StatusNotFound)
		}
	}
}
