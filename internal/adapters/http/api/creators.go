package api

import (
	"net/http"
)

// CreatorHandler handles creator detail requests.
type CreatorHandler struct {
	deps CreatorDependencies
}

// NewCreatorHandler creates a new creator handler.
func NewCreatorHandler(deps CreatorDependencies) *CreatorHandler {
	return &CreatorHandler{deps: deps}
}

// HandleGetCreator handles GET /creators/{name} requests. Names match
// exactly, including case.
func (h *CreatorHandler) HandleGetCreator(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_creator"
	stats, profile, err := h.deps.CreatorDetail(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newCreatorView(stats, profile))
}

// HandleCreatorLevels handles GET /creators/{name}/levels?q=&sort= requests.
func (h *CreatorHandler) HandleCreatorLevels(w http.ResponseWriter, r *http.Request) {
	const op = "api.creator_levels"
	q, err := parseQuery(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.deps.CreatorLevels(r.Context(), r.PathValue("name"), q)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newLevelViews(items))
}
