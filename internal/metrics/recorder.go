package metrics

import "time"

// ResultLabel enumerates outcome categories for tick and command counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines the observability hooks the daemon calls. All methods
// must be safe on the zero value so injection stays optional.
type Recorder interface {
	ObserveCollectDuration(domain string, d time.Duration)
	IncTickResult(domain string, result ResultLabel)
	ObserveRequestDuration(command string, d time.Duration)
	IncCommandResult(command string, result ResultLabel)
	ConnOpened()
	ConnClosed()
	SetStateVersion(v uint64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are
// not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCollectDuration(string, time.Duration) {}
func (NoopRecorder) IncTickResult(string, ResultLabel)            {}
func (NoopRecorder) ObserveRequestDuration(string, time.Duration) {}
func (NoopRecorder) IncCommandResult(string, ResultLabel)         {}
func (NoopRecorder) ConnOpened()                                  {}
func (NoopRecorder) ConnClosed()                                  {}
func (NoopRecorder) SetStateVersion(uint64)                       {}
