package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/unkn0wn-root/repcache"
)

type statusBody struct {
	Status       string                  `json:"status"`
	Uptime       string                  `json:"uptime"`
	CapacityUsed int                     `json:"capacity_used"`
	Generations  int                     `json:"generations"`
	Cache        *repcache.StatsSnapshot `json:"cache,omitempty"`
	StoreError   string                  `json:"store_error,omitempty"`
}

// status is never cached.
func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	body := statusBody{
		Status:       "ok",
		Uptime:       time.Since(s.started).Round(time.Second).String(),
		CapacityUsed: s.cache.Store().CapacityUsed(),
		Generations:  s.cache.Store().Generations(),
	}
	if s.stats != nil {
		snap := s.stats.Snapshot()
		body.Cache = &snap
	}
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		body.Status = "degraded"
		body.StoreError = err.Error()
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
