package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/oakcrest-health/kiosk/internal/appointments"
	"github.com/oakcrest-health/kiosk/internal/observability/metrics"
)

type stubGatherer struct {
	families []*dto.MetricFamily
	err      error
}

func (s stubGatherer) Gather() ([]*dto.MetricFamily, error) {
	return s.families, s.err
}

func TestGetDashboard(t *testing.T) {
	f := newFixture(t, nil)
	seedPatient(t, f, 1, "Ada", "Lovelace")
	seed(t, f, &appointments.Appointment{ID: 10, PatientID: 1, ScheduledTime: time.Now().UTC(), Status: appointments.StatusArrived})

	reg := prometheus.NewRegistry()
	m := metrics.NewKioskMetrics(reg)
	m.ObserveSyncDuration(0.2)
	m.ObserveSyncDuration(0.3)
	m.ObserveSyncDuration(4.0)

	handler := NewHandler(f.svc, reg, nil)
	r := chi.NewRouter()
	r.Get("/dashboard", handler.GetDashboard)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var view Dashboard
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Queue) != 1 || view.Queue[0].PatientName != "Ada Lovelace" {
		t.Errorf("queue = %+v", view.Queue)
	}
	if view.CurrentOrNext == nil || view.CurrentOrNext.Kind != "Next" {
		t.Errorf("CurrentOrNext = %+v", view.CurrentOrNext)
	}
	if view.SyncLatency.Total != 3 {
		t.Errorf("SyncLatency.Total = %d, want 3", view.SyncLatency.Total)
	}
	if view.SyncLatency.P90Ms <= 0 {
		t.Errorf("SyncLatency.P90Ms = %v, want positive", view.SyncLatency.P90Ms)
	}
}

func TestGetDashboardBuildFailure(t *testing.T) {
	f := newFixture(t, nil)
	seed(t, f, &appointments.Appointment{ID: 10, PatientID: 1, ScheduledTime: time.Now().UTC(), Status: appointments.Status("Bogus")})

	handler := NewHandler(f.svc, prometheus.NewRegistry(), nil)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.GetDashboard(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestSnapshotSyncLatencyEmpty(t *testing.T) {
	snap := snapshotSyncLatency(prometheus.NewRegistry())
	if snap.Total != 0 || snap.P90Ms != 0 || snap.P95Ms != 0 {
		t.Errorf("snapshot = %+v, want zeros", snap)
	}
}

func TestSnapshotSyncLatencyGatherError(t *testing.T) {
	snap := snapshotSyncLatency(stubGatherer{err: context.DeadlineExceeded})
	if snap.Total != 0 {
		t.Errorf("snapshot = %+v, want zeros on gather failure", snap)
	}
}

func TestSnapshotSyncLatencyQuantiles(t *testing.T) {
	name := metrics.SyncLatencyMetric
	metricType := dto.MetricType_HISTOGRAM
	count := uint64(10)
	sum := 12.0
	bounds := []float64{0.5, 1.0, 2.5}
	cums := []uint64{5, 9, 10}

	buckets := make([]*dto.Bucket, len(bounds))
	for i := range bounds {
		buckets[i] = &dto.Bucket{UpperBound: &bounds[i], CumulativeCount: &cums[i]}
	}

	snap := snapshotSyncLatency(stubGatherer{families: []*dto.MetricFamily{{
		Name: &name,
		Type: &metricType,
		Metric: []*dto.Metric{{
			Histogram: &dto.Histogram{SampleCount: &count, SampleSum: &sum, Bucket: buckets},
		}},
	}}})

	if snap.Total != 10 {
		t.Fatalf("Total = %d", snap.Total)
	}
	// p90 lands on the 9th sample, the upper edge of the second bucket.
	if snap.P90Ms != 1000 {
		t.Errorf("P90Ms = %v, want 1000", snap.P90Ms)
	}
	// p95 target 9.5 interpolates halfway through the last bucket.
	if snap.P95Ms != 1750 {
		t.Errorf("P95Ms = %v, want 1750", snap.P95Ms)
	}
}
