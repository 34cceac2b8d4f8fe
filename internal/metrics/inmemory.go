package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered    uint64
	LoginsSucceeded    uint64
	LoginsFailed       uint64
	RequestsCreated    uint64
	RequestsAccepted   uint64
	RequestsRejected   uint64
	MessagesSent       uint64
	ConnectionsCreated uint64
	HTTPRequests       uint64
	HTTPByStatus       map[int]uint64
	ActivityProcessed  map[string]uint64
	ActivityQueueDepth int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered    uint64
	loginsSucceeded    uint64
	loginsFailed       uint64
	requestsCreated    uint64
	requestsAccepted   uint64
	requestsRejected   uint64
	messagesSent       uint64
	connectionsCreated uint64
	httpRequests       uint64
	activityDepth      int64

	mu                sync.Mutex
	httpByStatus      map[int]uint64
	activityProcessed map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		httpByStatus:      make(map[int]uint64),
		activityProcessed: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	byStatus := make(map[int]uint64, len(m.httpByStatus))
	for k, v := range m.httpByStatus {
		byStatus[k] = v
	}
	processed := make(map[string]uint64, len(m.activityProcessed))
	for k, v := range m.activityProcessed {
		processed[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		UsersRegistered:    atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:    atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:       atomic.LoadUint64(&m.loginsFailed),
		RequestsCreated:    atomic.LoadUint64(&m.requestsCreated),
		RequestsAccepted:   atomic.LoadUint64(&m.requestsAccepted),
		RequestsRejected:   atomic.LoadUint64(&m.requestsRejected),
		MessagesSent:       atomic.LoadUint64(&m.messagesSent),
		ConnectionsCreated: atomic.LoadUint64(&m.connectionsCreated),
		HTTPRequests:       atomic.LoadUint64(&m.httpRequests),
		HTTPByStatus:       byStatus,
		ActivityProcessed:  processed,
		ActivityQueueDepth: atomic.LoadInt64(&m.activityDepth),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(success bool) {
	if success {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncRequestCreated increments the collaboration request counter.
func (m *InMemoryRecorder) IncRequestCreated() {
	atomic.AddUint64(&m.requestsCreated, 1)
}

// IncRequestResponded counts a status change on a request.
func (m *InMemoryRecorder) IncRequestResponded(status string) {
	switch status {
	case "accepted":
		atomic.AddUint64(&m.requestsAccepted, 1)
	case "rejected":
		atomic.AddUint64(&m.requestsRejected, 1)
	}
}

// IncMessageSent increments the message counter.
func (m *InMemoryRecorder) IncMessageSent() {
	atomic.AddUint64(&m.messagesSent, 1)
}

// IncConnectionCreated increments the connection counter.
func (m *InMemoryRecorder) IncConnectionCreated() {
	atomic.AddUint64(&m.connectionsCreated, 1)
}

// ObserveHTTPRequest counts a served request by status.
func (m *InMemoryRecorder) ObserveHTTPRequest(_, _ string, status int, _ time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	m.mu.Lock()
	m.httpByStatus[status]++
	m.mu.Unlock()
}

// IncActivityProcessed counts a feed worker outcome.
func (m *InMemoryRecorder) IncActivityProcessed(result string) {
	m.mu.Lock()
	m.activityProcessed[result]++
	m.mu.Unlock()
}

// SetActivityQueueDepth stores the last observed backlog.
func (m *InMemoryRecorder) SetActivityQueueDepth(depth int64) {
	atomic.StoreInt64(&m.activityDepth, depth)
}
