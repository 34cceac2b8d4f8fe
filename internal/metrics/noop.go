package metrics

import "time"

// NoopRecorder discards all metrics.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (NoopRecorder) IncUserRegistered() {}
func (NoopRecorder) IncLogin(bool) {}
func (NoopRecorder) IncRequestCreated() {}
func (NoopRecorder) IncRequestResponded(string) {}
func (NoopRecorder) IncMessageSent() {}
func (NoopRecorder) IncConnectionCreated() {}
func (NoopRecorder) IncActivityProcessed(string) {}
func (NoopRecorder) SetActivityQueueDepth(int64) {}
func (NoopRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {}
