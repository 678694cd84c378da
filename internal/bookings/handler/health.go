package handler

import (
	"net/http"

	"fleetbook/pkg/client"
	httputil "fleetbook/pkg/http"
	"fleetbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type HealthHandler struct {
	mongo *client.MongoClient
	log   *logger.Logger
}

// NewHealthHandler reports liveness and, when a Mongo client is wired,
// readiness against the database. With the in-memory backend mongo is nil
// and readiness degrades to liveness.
func NewHealthHandler(mongo *client.MongoClient, log *logger.Logger) *HealthHandler {
	return &HealthHandler{mongo: mongo, log: log}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.mongo != nil {
		if err := h.mongo.Ping(r.Context()); err != nil {
			h.log.Error("Readiness check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
