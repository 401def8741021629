package httpserver

import (
	"encoding/json"
	"net/http"
	"time"
)

type componentStatus struct {
	Healthy     bool   `json:"healthy"`
	Ready       bool   `json:"ready"`
	LastRun     string `json:"lastRun,omitempty"`
	LastLatency string `json:"lastLatency,omitempty"`
	LastError   string `json:"lastError,omitempty"`
}

type statusResponse struct {
	State       string                     `json:"state"`
	Uptime      string                     `json:"uptime"`
	StartTime   time.Time                  `json:"startTime"`
	UptimeSec   float64                    `json:"uptimeSeconds"`
	TrackedPods int                        `json:"trackedPods"`
	Components  map[string]componentStatus `json:"components"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	if !s.appState.IsHealthy() {
		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.appState.IsReady() {
		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uptime := s.appState.GetUptime()

	response := statusResponse{
		State:       string(s.appState.GetState()),
		Uptime:      uptime.String(),
		StartTime:   s.appState.GetStartTime(),
		UptimeSec:   uptime.Seconds(),
		TrackedPods: s.records.Len(),
		Components:  make(map[string]componentStatus),
	}

	for name, stats := range s.appState.GetAllStats() {
		cs := componentStatus{
			Healthy:     stats.IsHealthy,
			Ready:       stats.IsReady,
			LastLatency: stats.LastLatency.String(),
		}

		if !stats.LastRun.IsZero() {
			cs.LastRun = stats.LastRun.Format(time.RFC3339)
		}

		if stats.LastError != nil {
			cs.LastError = stats.LastError.Error()
		}

		response.Components[name] = cs
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.ErrorContext(ctx, "failed to encode status response",
			"error", err,
		)
	}
}
