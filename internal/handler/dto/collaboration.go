package dto

import (
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// CreateCollaborationRequest represents the body of POST /api/collaboration-requests.
type CreateCollaborationRequest struct {
	ToUserID int64  `json:"toUserId"`
	Message  string `json:"message,omitempty"`
}

// UpdateCollaborationStatusRequest represents the body of
// PUT /api/collaboration-requests/{id}.
type UpdateCollaborationStatusRequest struct {
	Status string `json:"status"`
}

// CollaborationRequestResponse is a request with both parties embedded.
// Embedded users are omitted when not requested and null when unknown.
type CollaborationRequestResponse struct {
	ID         int64               `json:"id"`
	FromUserID int64               `json:"fromUserId"`
	ToUserID   int64               `json:"toUserId"`
	Status     model.RequestStatus `json:"status"`
	Message    *string             `json:"message"`
	CreatedAt  time.Time           `json:"createdAt"`
	FromUser   *UserSummary        `json:"fromUser,omitempty"`
	ToUser     *UserSummary        `json:"toUser,omitempty"`
}

// ToCollaborationRequestResponse converts a request without embedded users.
func ToCollaborationRequestResponse(r *model.CollaborationRequest) *CollaborationRequestResponse {
	return &CollaborationRequestResponse{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Status:     r.Status,
		Message:    r.Message,
		CreatedAt:  r.CreatedAt,
	}
}

// ToCollaborationRequestResponses converts requests and embeds both parties
// from users, keyed by id.
func ToCollaborationRequestResponses(reqs []*model.CollaborationRequest, users map[int64]*model.User) []*CollaborationRequestResponse {
	out := make([]*CollaborationRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		resp := ToCollaborationRequestResponse(r)
		resp.FromUser = ToUserSummary(users[r.FromUserID])
		resp.ToUser = ToUserSummary(users[r.ToUserID])
		out = append(out, resp)
	}
	return out
}
