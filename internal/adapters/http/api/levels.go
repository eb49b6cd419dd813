package api

import (
	"net/http"

	"github.com/okian/levelboard/internal/domain/model"
)

// LevelHandler handles level catalog requests.
type LevelHandler struct {
	deps LevelDependencies
}

// NewLevelHandler creates a new level handler.
func NewLevelHandler(deps LevelDependencies) *LevelHandler {
	return &LevelHandler{deps: deps}
}

// HandleListLevels handles GET /levels/{category}?q=&sort= requests.
func (h *LevelHandler) HandleListLevels(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_levels"
	category, err := model.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	q, err := parseQuery(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.deps.Levels(r.Context(), category, q)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newLevelViews(items))
}

// HandleGetLevel handles GET /levels/{category}/{id} requests.
func (h *LevelHandler) HandleGetLevel(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_level"
	category, err := model.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	item, err := h.deps.Level(r.Context(), category, r.PathValue("id"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newLevelView(item))
}
