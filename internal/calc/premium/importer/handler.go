package importer

import (
	"net/http"

	"github.com/rs/zerolog"

	"Plinth/internal/calc/premium/batch"
	"Plinth/internal/respond"
)

type Handler struct {
	Runner batch.Runner
}

func (h *Handler) Footing(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "File required")
		return
	}
	defer file.Close()

	res, err := Import(r.Context(), h.Runner, file)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("import rejected")
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.OK(w, res)
}
