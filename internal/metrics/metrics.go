// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(success bool)

	// Networking metrics
	IncRequestCreated()
	IncRequestResponded(status string) // status: "accepted" or "rejected"
	IncMessageSent()
	IncConnectionCreated()

	// Activity feed worker metrics
	IncActivityProcessed(result string) // result: "success", "failed" or "dead_lettered"
	SetActivityQueueDepth(depth int64)

	// HTTP metrics, route is the chi route pattern
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
