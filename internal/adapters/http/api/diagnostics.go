package api

import (
	"context"
	"net/http"

	"github.com/okian/levelboard/internal/domain/aggregate"
)

// DiagnosticsDependencies defines the diagnostics read.
type DiagnosticsDependencies interface {
	Diagnostics(ctx context.Context) ([]aggregate.Diagnostic, error)
}

// DiagnosticsHandler handles diagnostics requests.
type DiagnosticsHandler struct {
	deps DiagnosticsDependencies
}

// NewDiagnosticsHandler creates a new diagnostics handler.
func NewDiagnosticsHandler(deps DiagnosticsDependencies) *DiagnosticsHandler {
	return &DiagnosticsHandler{deps: deps}
}

// HandleDiagnostics handles GET /diagnostics requests.
func (h *DiagnosticsHandler) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	const op = "api.diagnostics"
	diags, err := h.deps.Diagnostics(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newDiagnosticViews(diags))
}
