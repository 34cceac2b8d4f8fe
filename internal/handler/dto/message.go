package dto

import (
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// SendMessageRequest represents the body of POST /api/messages.
type SendMessageRequest struct {
	ToUserID int64  `json:"toUserId"`
	Content  string `json:"content"`
}

// MessageDTO is a direct message, optionally with its sender embedded.
type MessageDTO struct {
	ID         int64        `json:"id"`
	FromUserID int64        `json:"fromUserId"`
	ToUserID   int64        `json:"toUserId"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	FromUser   *UserSummary `json:"fromUser,omitempty"`
}

// ToMessageDTO converts a Message model without the sender.
func ToMessageDTO(m *model.Message) *MessageDTO {
	return &MessageDTO{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}

// ToMessageDTOs converts a conversation and embeds each sender.
func ToMessageDTOs(msgs []*model.Message, users map[int64]*model.User) []*MessageDTO {
	out := make([]*MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		d := ToMessageDTO(m)
		d.FromUser = ToUserSummary(users[m.FromUserID])
		out = append(out, d)
	}
	return out
}
