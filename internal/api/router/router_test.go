package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oakcrest-health/kiosk/internal/appointments"
)

type noopPropagator struct{}

func (noopPropagator) UpdateAppointmentStatus(ctx context.Context, id int64, status string) error {
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *appointments.InMemoryRepository) {
	t.Helper()
	repo := appointments.NewInMemoryRepository()
	handler := appointments.NewHandler(appointments.NewTransitionService(repo, noopPropagator{}, nil), nil, nil)
	return New(&Config{AppointmentHandler: handler}), repo
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestStatusChangeRoute(t *testing.T) {
	r, repo := newTestRouter(t)
	if err := repo.Create(context.Background(), &appointments.Appointment{ID: 5, Status: appointments.StatusCheckedIn}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/appointments/5/status", strings.NewReader(`{"status":"Complete"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestUnwiredRoutesReturn404(t *testing.T) {
	r := New(&Config{})

	for _, path := range []string{"/dashboard", "/sync", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s = %d, want 404/405", path, rec.Code)
		}
	}
}
