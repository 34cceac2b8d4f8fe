package handler

import (
	"log/slog"
	"net/http"

	"github.com/muhammadafham46/Business-Nexus/internal/handler/dto"
	"github.com/muhammadafham46/Business-Nexus/internal/service"
)

// ConnectionHandler handles the caller's network.
type ConnectionHandler struct {
	svc    *service.ConnectionService
	users  *service.UserService
	logger *slog.Logger
}

// NewConnectionHandler creates a new ConnectionHandler.
func NewConnectionHandler(svc *service.ConnectionService, users *service.UserService, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		svc:    svc,
		users:  users,
		logger: logger,
	}
}

// List handles GET /api/connections.
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	conns, err := h.svc.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	ids := make([]int64, 0, len(conns))
	for _, c := range conns {
		ids = append(ids, c.OtherUserID(userID))
	}
	users, err := h.users.Summaries(r.Context(), ids)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToConnectionResponses(conns, userID, users))
}

// Create handles POST /api/connections.
func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateConnectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	conn, err := h.svc.Connect(r.Context(), userID, req.OtherUserID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	other, err := h.users.Get(r.Context(), req.OtherUserID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("connection_created", "connection_id", conn.ID)

	writeJSON(w, http.StatusCreated, dto.ToConnectionResponse(conn, userID, other))
}

// Check handles GET /api/connections/check/{otherUserId}.
func (h *ConnectionHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	otherID, ok := pathID(w, r, "otherUserId")
	if !ok {
		return
	}

	connected, err := h.svc.Check(r.Context(), userID, otherID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConnectionCheckResponse{Connected: connected})
}
