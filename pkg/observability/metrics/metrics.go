package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

var (
	predictionsServed    atomic.Int64
	predictionsFailed    atomic.Int64
	validationRejected   atomic.Int64
	cacheHits            atomic.Int64
	cacheMisses          atomic.Int64
	eventsPublishFailed  atomic.Int64
	auditWritesFailed    atomic.Int64
	predictionLatencySum atomic.Int64 // microseconds
)

func ObservePrediction(latency time.Duration) {
	predictionsServed.Add(1)
	predictionLatencySum.Add(latency.Microseconds())
}

func ObserveFailure(validation bool) {
	if validation {
		validationRejected.Add(1)
		return
	}
	predictionsFailed.Add(1)
}

func ObserveCache(hit bool) {
	if hit {
		cacheHits.Add(1)
		return
	}
	cacheMisses.Add(1)
}

func ObservePublishFailure() {
	eventsPublishFailed.Add(1)
}

func ObserveAuditFailure() {
	auditWritesFailed.Add(1)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	PredictionsServed   int64
	PredictionsFailed   int64
	ValidationRejected  int64
	CacheHits           int64
	CacheMisses         int64
	EventsPublishFailed int64
	AuditWritesFailed   int64
	LatencySumMicros    int64
}

func Current() Snapshot {
	return Snapshot{
		PredictionsServed:   predictionsServed.Load(),
		PredictionsFailed:   predictionsFailed.Load(),
		ValidationRejected:  validationRejected.Load(),
		CacheHits:           cacheHits.Load(),
		CacheMisses:         cacheMisses.Load(),
		EventsPublishFailed: eventsPublishFailed.Load(),
		AuditWritesFailed:   auditWritesFailed.Load(),
		LatencySumMicros:    predictionLatencySum.Load(),
	}
}

func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	WritePrometheus(w)
}

func WritePrometheus(w io.Writer) {
	s := Current()
	write := func(name, kind, help string, value int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(w, "%s %d\n", name, value)
	}

	write("premium_predictions_total", "counter", "Number of premium estimates served.", s.PredictionsServed)
	write("premium_prediction_failures_total", "counter", "Number of predictions that failed after validation.", s.PredictionsFailed)
	write("premium_validation_rejections_total", "counter", "Number of requests rejected as invalid input.", s.ValidationRejected)
	write("premium_cache_hits_total", "counter", "Number of estimates answered from the prediction cache.", s.CacheHits)
	write("premium_cache_misses_total", "counter", "Number of prediction cache misses.", s.CacheMisses)
	write("premium_event_publish_failures_total", "counter", "Number of prediction events that could not be published.", s.EventsPublishFailed)
	write("premium_audit_write_failures_total", "counter", "Number of audit log writes that failed.", s.AuditWritesFailed)
	write("premium_prediction_latency_microseconds_sum", "counter", "Total time spent producing estimates.", s.LatencySumMicros)
}
