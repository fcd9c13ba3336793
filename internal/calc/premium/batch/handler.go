package batch

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"Plinth/internal/respond"
)

type Handler struct {
	Runner Runner
}

func (h *Handler) Footing(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	res, err := h.Runner.Run(r.Context(), input)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	zerolog.Ctx(r.Context()).Info().Int("count", res.Count).Int("failed", res.Failed).Msg("batch designed")
	respond.OK(w, res)
}
