package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/levelboard/internal/domain/model"
)

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard/{criterion}?limit=N requests.
// A missing limit means the maximum.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	criterion, ok := model.ParseCriterion(r.PathValue("criterion"))
	if !ok {
		writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("unknown criterion %q", r.PathValue("criterion"))))
		return
	}
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("limit must be a positive integer")))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("limit must not exceed %d", h.maxLimit)))
		return
	}
	entries, err := h.deps.TopN(r.Context(), criterion, n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newEntryViews(entries))
}
