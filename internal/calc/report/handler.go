package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"Plinth/internal/calc/footing"
	"Plinth/internal/respond"
)

type Input struct {
	Meta
	Inputs footing.Request `json:"inputs"`
}

type Handler struct {
	Timeout time.Duration
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	in, err := input.Inputs.Input()
	if err != nil {
		footing.Fail(w, r, err)
		return
	}
	out, err := footing.Run(r.Context(), h.Timeout, input.Inputs)
	if err != nil {
		footing.Fail(w, r, err)
		return
	}
	Serve(w, r, input.Meta, in, out)
}

// Serve writes the PDF as an attachment.
func Serve(w http.ResponseWriter, r *http.Request, meta Meta, in footing.Input, out *footing.Output) {
	var buf bytes.Buffer
	if err := Write(&buf, meta, in, out); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("report generation failed")
		respond.Error(w, http.StatusInternalServerError, "Report generation error")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"footing-report.pdf\"")
	w.Write(buf.Bytes())
}
