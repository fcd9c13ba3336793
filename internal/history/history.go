package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"Plinth/internal/auth"
	"Plinth/internal/calc/footing"
	"Plinth/internal/calc/report"
	"Plinth/internal/repo"
	"Plinth/internal/respond"
)

// Handler serves the signed-in user's saved designs.
type Handler struct {
	Repo    repo.Repository
	Timeout time.Duration
}

type SaveRequest struct {
	Name   string          `json:"name"`
	Inputs footing.Request `json:"inputs"`
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	out, err := footing.Run(r.Context(), h.Timeout, req.Inputs)
	if err != nil {
		footing.Fail(w, r, err)
		return
	}

	d := repo.Design{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Soil:      out.Soil,
		Width:     out.Width,
		Thickness: out.Thickness,
		Request:   req.Inputs,
		Output:    out,
		CreatedAt: time.Now().UTC(),
	}
	if d.Name == "" {
		d.Name = "Footing " + d.CreatedAt.Format("2006-01-02 15:04")
	}
	if err := h.Repo.SaveDesign(r.Context(), d); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("save design failed")
		respond.Error(w, http.StatusInternalServerError, "DB error")
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("design_id", d.ID.String()).Int("user_id", userID).Msg("design saved")
	respond.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": d})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	designs, err := h.Repo.ListDesigns(r.Context(), userID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list designs failed")
		respond.Error(w, http.StatusInternalServerError, "DB error")
		return
	}
	respond.OK(w, designs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	respond.OK(w, d)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	in, err := d.Request.Input()
	if err != nil {
		footing.Fail(w, r, err)
		return
	}
	meta := report.Meta{Project: d.Name, Author: auth.UserLogin(r.Context()), Date: d.CreatedAt}
	report.Serve(w, r, meta, in, d.Output)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (repo.Design, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return repo.Design{}, false
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid design id")
		return repo.Design{}, false
	}
	d, err := h.Repo.GetDesign(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Design not found")
		return repo.Design{}, false
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load design failed")
		respond.Error(w, http.StatusInternalServerError, "DB error")
		return repo.Design{}, false
	}
	return d, true
}
