// Package metrics keeps the Manager's counters and its sign-in latency histogram.
//
// Each counter sits in its own cache line and is bumped with a single atomic add. The
// histogram has 8 fixed buckets from 5ms to +Inf. Nothing on the write path allocates,
// and a disabled Metrics turns every call into a no-op.
//
// Exporters under metrics/export read [Snapshot] values and never touch the live slots.
package metrics
