package dashboard

import (
	"math"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/oakcrest-health/kiosk/internal/observability/metrics"
)

// SyncLatencySnapshot summarizes the sync-run latency histogram at render
// time. All zero when no sync has run yet.
type SyncLatencySnapshot struct {
	Total int64   `json:"total"`
	P90Ms float64 `json:"p90_ms"`
	P95Ms float64 `json:"p95_ms"`
}

func snapshotSyncLatency(gatherer prometheus.Gatherer) SyncLatencySnapshot {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return SyncLatencySnapshot{}
	}

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == metrics.SyncLatencyMetric {
			family = mf
			break
		}
	}
	if family == nil {
		return SyncLatencySnapshot{}
	}

	cumulativeByUpper := map[float64]uint64{}
	var sampleCount uint64
	for _, metric := range family.Metric {
		if metric == nil {
			continue
		}
		h := metric.GetHistogram()
		if h == nil {
			continue
		}
		sampleCount += h.GetSampleCount()
		for _, b := range h.Bucket {
			if b == nil {
				continue
			}
			cumulativeByUpper[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}
	if sampleCount == 0 || len(cumulativeByUpper) == 0 {
		return SyncLatencySnapshot{}
	}

	uppers := make([]float64, 0, len(cumulativeByUpper))
	for upper := range cumulativeByUpper {
		uppers = append(uppers, upper)
	}
	sort.Float64s(uppers)

	return SyncLatencySnapshot{
		Total: int64(sampleCount),
		P90Ms: histogramQuantile(0.90, sampleCount, uppers, cumulativeByUpper) * 1000.0,
		P95Ms: histogramQuantile(0.95, sampleCount, uppers, cumulativeByUpper) * 1000.0,
	}
}

// histogramQuantile interpolates within the bucket containing the target
// rank, falling back to bucket bounds where interpolation is impossible.
func histogramQuantile(q float64, total uint64, uppers []float64, cumulativeByUpper map[float64]uint64) float64 {
	if total == 0 || q <= 0 {
		return 0
	}
	if q >= 1 {
		for i := len(uppers) - 1; i >= 0; i-- {
			if !math.IsInf(uppers[i], 1) {
				return uppers[i]
			}
		}
		return 0
	}

	target := q * float64(total)
	var prevUpper float64
	var prevCum float64

	for _, upper := range uppers {
		cum := float64(cumulativeByUpper[upper])
		if cum < target {
			prevUpper = upper
			prevCum = cum
			continue
		}

		bucketCount := cum - prevCum
		if bucketCount <= 0 || upper == prevUpper {
			return upper
		}
		if math.IsInf(upper, 1) {
			return prevUpper
		}

		fraction := (target - prevCum) / bucketCount
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
		return prevUpper + fraction*(upper-prevUpper)
	}

	return uppers[len(uppers)-1]
}
