package httpapi

import (
	"net/http"

	"github.com/cuemby/taskbook/internal/server/health"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := health.Check(r.Context(), s.DB)
	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
