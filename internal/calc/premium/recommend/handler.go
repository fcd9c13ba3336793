package recommend

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Plinth/internal/calc/footing"
	"Plinth/internal/respond"
)

type Handler struct {
	Timeout time.Duration
}

func (h *Handler) Bars(w http.ResponseWriter, r *http.Request) {
	var req footing.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req == nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if _, ok := req["bar"]; !ok {
		req["bar"] = Bars[0]
	}
	in, err := req.Input()
	if err != nil {
		footing.Fail(w, r, err)
		return
	}
	res, err := BarSize(r.Context(), h.Timeout, in)
	if errors.Is(err, ErrNoOption) {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		footing.Fail(w, r, err)
		return
	}
	respond.OK(w, res)
}
