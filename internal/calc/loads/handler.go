package loads

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"Plinth/internal/respond"
)

type Handler struct{}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	res, err := Calculate(input)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("load combination rejected")
		respond.Error(w, http.StatusBadRequest, "Calculation error")
		return
	}
	respond.JSON(w, http.StatusOK, res)
}
