package health

import (
	"log/slog"
	"net/http"

	"github.com/kanworks/kanapi/internal/api"
)

type HealthHandler struct {
	logger *slog.Logger
	db     api.Connection
}

func NewHealthHandler(db api.Connection, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		db:     db,
	}
}

// Startup reports that the process finished booting.
func (h *HealthHandler) Startup(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Live reports process liveness.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the service can reach its database and is fit to
// receive traffic.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "Readiness check failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
