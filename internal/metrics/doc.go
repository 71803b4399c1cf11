// Package metrics provides observability hooks for the daemon's collection
// ticks and IPC traffic.
//
// Hot paths take a Recorder through dependency injection and call it
// unconditionally. NoopRecorder keeps those call sites free of nil checks
// when metrics are disabled, which is the default; enabling the debug
// endpoint swaps in PrometheusRecorder, which exposes tick durations and
// outcomes, per-command IPC counters, connection counts, and the state
// version gauge on a local scrape handler.
package metrics
