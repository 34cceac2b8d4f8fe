package handler

import (
	"log/slog"
	"net/http"

	"github.com/muhammadafham46/Business-Nexus/internal/handler/dto"
	"github.com/muhammadafham46/Business-Nexus/internal/service"
)

// MessageHandler handles direct messages.
type MessageHandler struct {
	svc    *service.MessageService
	users  *service.UserService
	logger *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(svc *service.MessageService, users *service.UserService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		svc:    svc,
		users:  users,
		logger: logger,
	}
}

// Conversation handles GET /api/messages/{otherUserId}.
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	otherID, ok := pathID(w, r, "otherUserId")
	if !ok {
		return
	}

	msgs, err := h.svc.Conversation(r.Context(), userID, otherID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	users, err := h.users.Summaries(r.Context(), []int64{userID, otherID})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMessageDTOs(msgs, users))
}

// Send handles POST /api/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.svc.Send(r.Context(), userID, req.ToUserID, req.Content)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Debug("message_sent", "message_id", msg.ID, "to_user_id", msg.ToUserID)

	writeJSON(w, http.StatusCreated, dto.ToMessageDTO(msg))
}
