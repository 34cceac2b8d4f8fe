package handler

import (
	"log/slog"
	"net/http"

	"github.com/muhammadafham46/Business-Nexus/internal/handler/dto"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/service"
)

// CollaborationHandler handles collaboration requests.
type CollaborationHandler struct {
	svc    *service.CollaborationService
	users  *service.UserService
	logger *slog.Logger
}

// NewCollaborationHandler creates a new CollaborationHandler.
func NewCollaborationHandler(svc *service.CollaborationService, users *service.UserService, logger *slog.Logger) *CollaborationHandler {
	return &CollaborationHandler{
		svc:    svc,
		users:  users,
		logger: logger,
	}
}

// List handles GET /api/collaboration-requests?direction=&status=.
func (h *CollaborationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	reqs, err := h.svc.List(r.Context(), userID, query.Get("direction"), query.Get("status"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.writeList(w, r, reqs)
}

// Between handles GET /api/collaboration-requests/with/{otherUserId}.
func (h *CollaborationHandler) Between(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	otherID, ok := pathID(w, r, "otherUserId")
	if !ok {
		return
	}

	reqs, err := h.svc.Between(r.Context(), userID, otherID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.writeList(w, r, reqs)
}

// Create handles POST /api/collaboration-requests.
func (h *CollaborationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateCollaborationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.svc.Create(r.Context(), userID, req.ToUserID, req.Message)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("collaboration_request_created",
		"request_id", created.ID,
		"from_user_id", created.FromUserID,
		"to_user_id", created.ToUserID,
	)

	writeJSON(w, http.StatusCreated, dto.ToCollaborationRequestResponse(created))
}

// UpdateStatus handles PUT /api/collaboration-requests/{id}.
func (h *CollaborationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateCollaborationStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.svc.Respond(r.Context(), userID, id, req.Status)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("collaboration_request_updated",
		"request_id", updated.ID,
		"status", updated.Status,
	)

	writeJSON(w, http.StatusOK, dto.ToCollaborationRequestResponse(updated))
}

func (h *CollaborationHandler) writeList(w http.ResponseWriter, r *http.Request, reqs []*model.CollaborationRequest) {
	ids := make([]int64, 0, 2*len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.FromUserID, req.ToUserID)
	}

	users, err := h.users.Summaries(r.Context(), ids)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCollaborationRequestResponses(reqs, users))
}
