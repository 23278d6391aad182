package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	loginsSucceeded     atomic.Int64
	loginsRejected      atomic.Int64
	predictionsRelayed  atomic.Int64
	predictionsUpstream atomic.Int64
	predictionsTimedOut atomic.Int64
	predictionsDeduped  atomic.Int64
)

func LoginSucceeded()            { loginsSucceeded.Add(1) }
func LoginRejected()             { loginsRejected.Add(1) }
func PredictionRelayed()         { predictionsRelayed.Add(1) }
func PredictionUpstreamFailed()  { predictionsUpstream.Add(1) }
func PredictionTimedOut()        { predictionsTimedOut.Add(1) }
func PredictionDuplicateReject() { predictionsDeduped.Add(1) }

// Reset zeroes every counter. Test helper.
func Reset() {
	loginsSucceeded.Store(0)
	loginsRejected.Store(0)
	predictionsRelayed.Store(0)
	predictionsUpstream.Store(0)
	predictionsTimedOut.Store(0)
	predictionsDeduped.Store(0)
}

// WritePrometheus renders the counters in Prometheus text exposition format.
func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeCounter(w, "readmit_gateway_logins_succeeded_total",
		"Number of successful operator logins.", loginsSucceeded.Load())
	writeCounter(w, "readmit_gateway_logins_rejected_total",
		"Number of logins rejected for invalid credentials.", loginsRejected.Load())
	writeCounter(w, "readmit_gateway_predictions_relayed_total",
		"Number of prediction requests relayed to the model service successfully.", predictionsRelayed.Load())
	writeCounter(w, "readmit_gateway_predictions_upstream_failed_total",
		"Number of prediction relays that failed at the model service.", predictionsUpstream.Load())
	writeCounter(w, "readmit_gateway_predictions_timed_out_total",
		"Number of prediction relays that hit the downstream deadline.", predictionsTimedOut.Load())
	writeCounter(w, "readmit_gateway_predictions_duplicate_rejected_total",
		"Number of concurrent duplicate submissions rejected by the single-flight guard.", predictionsDeduped.Load())
}

func writeCounter(w http.ResponseWriter, name, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s counter\n", name)
	fmt.Fprintf(w, "%s %d\n", name, value)
}
