package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/earnbox/earnbox/internal/app/reward"
	"github.com/earnbox/earnbox/internal/domain"
)

// ─── Reward Surfaces API ────────────────────────────────────────────────────
//
// GET  /api/surfaces                                — every surface
// GET  /api/surfaces/{name}                         — one surface
// POST /api/surfaces/{name}/slots/{index}/click     — press the slot button
// POST /api/surfaces/{name}/slots/{index}/start     — idle → started
// POST /api/surfaces/{name}/slots/{index}/confirm   — pending → payment

type slotAction int

const (
	actionClick slotAction = iota
	actionStart
	actionConfirm
)

func (s *Server) handleListSurfaces(w http.ResponseWriter, r *http.Request) {
	var out []reward.SurfaceView
	for _, surface := range s.surfaces.Surfaces() {
		out = append(out, surface.Snapshot())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"surfaces": out,
	})
}

func (s *Server) handleGetSurface(w http.ResponseWriter, r *http.Request) {
	surface, err := s.surfaces.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, surface.Snapshot())
}

func (s *Server) handleSlotAction(kind slotAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surface, err := s.surfaces.Get(chi.URLParam(r, "name"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeDomainError(w, fmt.Errorf("%w: %q", domain.ErrSlotOutOfRange, chi.URLParam(r, "index")))
			return
		}

		var act reward.Action
		switch kind {
		case actionStart:
			act, err = surface.Start(index)
		case actionConfirm:
			act, err = surface.Confirm(index)
		default:
			act, err = surface.Click(index)
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, act)
	}
}
