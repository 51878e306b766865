// Package prometheus renders goSession metrics in Prometheus text exposition format.
//
// [NewPrometheusExporter] accepts a [goSession.Manager] and exposes an [http.Handler].
// Counter names are prefixed gosession_*_total; the single histogram is
// gosession_sign_in_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate Manager state.
package prometheus
