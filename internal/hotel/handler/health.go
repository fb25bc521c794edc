package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage,omitempty"`
}

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage Pinger
	log     *logger.Logger
}

func NewHealthHandler(storage Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		log:     log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.log.Error("Storage health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unavailable",
			Storage: "error",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "ready",
		Storage: "ok",
	})
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
