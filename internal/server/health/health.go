// Package health reports process liveness and database readiness for
// the /health endpoint.
package health

import (
	"context"
	"time"

	"github.com/cuemby/taskbook/internal/server/db"
)

// Response is the JSON body returned by GET /health.
type Response struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Message string            `json:"message,omitempty"`
}

// Check pings the database with a short timeout and reports the
// resulting status. A database that can't be reached within the
// timeout marks the response "not ready" rather than hanging the
// request on a stalled connection.
func Check(ctx context.Context, d *db.DB) Response {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	if err := d.Pool.Ping(ctx); err != nil {
		checks["database"] = "error: " + err.Error()
		return Response{Status: "not ready", Checks: checks, Message: "database not reachable"}
	}
	checks["database"] = "ok"
	return Response{Status: "ready", Checks: checks}
}
