package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/muhammadafham46/Business-Nexus/internal/handler/dto"
	"github.com/muhammadafham46/Business-Nexus/internal/service"
)

// ActivityHandler serves the member activity feed.
type ActivityHandler struct {
	svc    *service.ActivityService
	users  *service.UserService
	logger *slog.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(svc *service.ActivityService, users *service.UserService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		svc:    svc,
		users:  users,
		logger: logger,
	}
}

// List handles GET /api/activity?limit=.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	limit := service.DefaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.svc.Recent(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ActorID)
	}
	users, err := h.users.Summaries(r.Context(), ids)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToActivityResponses(entries, users))
}
