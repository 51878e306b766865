package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef names a counter for exporters.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef names a latency histogram for exporters.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricSignUpSuccess, Name: "gosession_sign_up_success_total", Help: "Registrations accepted by the remote API."},
	{ID: goSession.MetricSignUpFailure, Name: "gosession_sign_up_failure_total", Help: "Rejected or failed registrations."},
	{ID: goSession.MetricSignInSuccess, Name: "gosession_sign_in_success_total", Help: "Sign-ins that published an authenticated session."},
	{ID: goSession.MetricSignInFailure, Name: "gosession_sign_in_failure_total", Help: "Sign-ins that returned an error."},
	{ID: goSession.MetricSignInIncomplete, Name: "gosession_sign_in_incomplete_total", Help: "Sign-in responses missing user or tokens."},
	{ID: goSession.MetricSignOut, Name: "gosession_sign_out_total", Help: "Sign-out operations."},
	{ID: goSession.MetricRestoreAuthenticated, Name: "gosession_restore_authenticated_total", Help: "Restorations that found a stored session."},
	{ID: goSession.MetricRestoreAnonymous, Name: "gosession_restore_anonymous_total", Help: "Restorations that fell back to anonymous."},
	{ID: goSession.MetricStorageFailure, Name: "gosession_storage_failure_total", Help: "Storage errors surfaced to the caller."},
	{ID: goSession.MetricStorageDegraded, Name: "gosession_storage_degraded_total", Help: "Storage errors absorbed as degraded operation."},
	{ID: goSession.MetricRemoteTimeout, Name: "gosession_remote_timeout_total", Help: "Remote calls cut off by the remote timeout."},
}

// HistogramDefs lists every exported latency histogram.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricSignInLatency, Name: "gosession_sign_in_latency_seconds", Help: "Sign-in latency histogram."},
}

// AuditDroppedName is the counter for audit events dropped under backpressure.
const AuditDroppedName = "gosession_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// HistogramBounds are the upper bucket bounds in seconds, as Prometheus le labels.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds in a form usable inside instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
