package dto

import (
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// CreateConnectionRequest represents the body of POST /api/connections.
type CreateConnectionRequest struct {
	OtherUserID int64 `json:"otherUserId"`
}

// ConnectionResponse is a connection seen from one participant.
type ConnectionResponse struct {
	ID          int64        `json:"id"`
	UserID1     int64        `json:"userId1"`
	UserID2     int64        `json:"userId2"`
	CreatedAt   time.Time    `json:"createdAt"`
	OtherUserID int64        `json:"otherUserId"`
	OtherUser   *UserSummary `json:"otherUser"`
	ConnectedAt time.Time    `json:"connectedAt"`
}

// ConnectionCheckResponse answers GET /api/connections/check/{otherUserId}.
type ConnectionCheckResponse struct {
	Connected bool `json:"connected"`
}

// ToConnectionResponse converts a connection from viewerID's side.
func ToConnectionResponse(c *model.Connection, viewerID int64, other *model.User) *ConnectionResponse {
	return &ConnectionResponse{
		ID:          c.ID,
		UserID1:     c.UserID1,
		UserID2:     c.UserID2,
		CreatedAt:   c.CreatedAt,
		OtherUserID: c.OtherUserID(viewerID),
		OtherUser:   ToUserSummary(other),
		ConnectedAt: c.CreatedAt,
	}
}

// ToConnectionResponses converts viewerID's connections.
func ToConnectionResponses(conns []*model.Connection, viewerID int64, users map[int64]*model.User) []*ConnectionResponse {
	out := make([]*ConnectionResponse, 0, len(conns))
	for _, c := range conns {
		out = append(out, ToConnectionResponse(c, viewerID, users[c.OtherUserID(viewerID)]))
	}
	return out
}
