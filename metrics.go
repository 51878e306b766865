package goSession

import (
	internalmetrics "github.com/MrEthical07/goSession/internal/metrics"
)

// MetricID identifies a counter or histogram in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricSignUpSuccess counts registrations accepted by the remote API.
	MetricSignUpSuccess = internalmetrics.MetricSignUpSuccess
	// MetricSignUpFailure counts rejected or failed registrations.
	MetricSignUpFailure = internalmetrics.MetricSignUpFailure
	// MetricSignInSuccess counts sign-ins that published an authenticated session.
	MetricSignInSuccess = internalmetrics.MetricSignInSuccess
	// MetricSignInFailure counts sign-ins that returned an error.
	MetricSignInFailure = internalmetrics.MetricSignInFailure
	// MetricSignInIncomplete counts sign-in responses missing user or tokens.
	MetricSignInIncomplete = internalmetrics.MetricSignInIncomplete
	// MetricSignOut counts sign-outs.
	MetricSignOut = internalmetrics.MetricSignOut
	// MetricRestoreAuthenticated counts restorations that found a stored session.
	MetricRestoreAuthenticated = internalmetrics.MetricRestoreAuthenticated
	// MetricRestoreAnonymous counts restorations that fell back to anonymous.
	MetricRestoreAnonymous = internalmetrics.MetricRestoreAnonymous
	// MetricStorageFailure counts storage errors surfaced to a caller.
	MetricStorageFailure = internalmetrics.MetricStorageFailure
	// MetricStorageDegraded counts storage errors absorbed by the Manager.
	MetricStorageDegraded = internalmetrics.MetricStorageDegraded
	// MetricRemoteTimeout counts remote calls cut off by RemoteTimeout.
	MetricRemoteTimeout = internalmetrics.MetricRemoteTimeout
	// MetricSignInLatency is the sign-in latency histogram.
	MetricSignInLatency = internalmetrics.MetricSignInLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance. When Enabled is false, all operations are
// no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
