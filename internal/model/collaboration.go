package model

import "time"

// RequestStatus is the lifecycle state of a collaboration request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// IsValid checks if the status is a known value.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a request in status s may move to next.
// Pending may be accepted or rejected; re-applying the current status is allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s == next {
		return true
	}
	return s == RequestPending && (next == RequestAccepted || next == RequestRejected)
}

// CollaborationRequest is a directed proposal from one user to another.
type CollaborationRequest struct {
	ID         int64         `json:"id"`
	FromUserID int64         `json:"fromUserId"`
	ToUserID   int64         `json:"toUserId"`
	Status     RequestStatus `json:"status"`
	Message    *string       `json:"message"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Involves reports whether userID is the sender or the recipient.
func (r *CollaborationRequest) Involves(userID int64) bool {
	return r.FromUserID == userID || r.ToUserID == userID
}

// Clone returns a copy safe to hand out of a store.
func (r *CollaborationRequest) Clone() *CollaborationRequest {
	if r == nil {
		return nil
	}
	c := *r
	c.Message = cloneString(r.Message)
	return &c
}

// RequestDirection filters requests by the caller's side of the request.
type RequestDirection string

const (
	DirectionAll      RequestDirection = "all"
	DirectionIncoming RequestDirection = "incoming"
	DirectionOutgoing RequestDirection = "outgoing"
)

// IsValid checks if the direction is a known value.
func (d RequestDirection) IsValid() bool {
	switch d {
	case DirectionAll, DirectionIncoming, DirectionOutgoing:
		return true
	}
	return false
}

// Matches reports whether r belongs in userID's list for direction d.
func (d RequestDirection) Matches(r *CollaborationRequest, userID int64) bool {
	switch d {
	case DirectionIncoming:
		return r.ToUserID == userID
	case DirectionOutgoing:
		return r.FromUserID == userID
	default:
		return r.Involves(userID)
	}
}

// CollaborationRequestFilter scopes ListCollaborationRequests.
type CollaborationRequestFilter struct {
	UserID    int64
	Direction RequestDirection
	Status    RequestStatus // empty means any status
}
