package api

import (
	"context"
	"net/http"

	"github.com/okian/levelboard/internal/adapters/mq/queue"
	"github.com/okian/levelboard/internal/domain/model"
)

// ReloadDependencies defines the reload trigger.
type ReloadDependencies interface {
	RequestReload(ctx context.Context, trigger string) (queue.Outcome, error)
}

// ReloadHandler handles reload requests.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	Status string `json:"status"`
}

// HandleReload handles POST /reload requests. A queued or coalesced request
// is accepted; anything else is backpressure.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	outcome, err := h.deps.RequestReload(r.Context(), model.TriggerAPI)
	if err != nil {
		writeError(w, WrapKind(op, ErrBackpressure, err))
		return
	}
	if outcome == queue.OutcomeRejected {
		writeError(w, NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, reloadResponse{Status: string(outcome)})
}
