package footing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"Plinth/internal/respond"
)

// ErrInvalidInput is returned by Run when a value is outside its admissible range.
var ErrInvalidInput = errors.New("invalid input values")

// DefaultTimeout bounds a design when the caller sets no timeout.
const DefaultTimeout = 10 * time.Second

// Run converts req and designs it under a deadline of timeout.
func Run(ctx context.Context, timeout time.Duration, req Request) (*Output, error) {
	in, err := req.Input()
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := Design(ctx, in)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrInvalidInput
	}
	return out, nil
}

// Status maps a Run error to an HTTP status and a client-facing detail.
func Status(err error) (int, string) {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, reqErr.Error()
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input values"
	case errors.Is(err, ErrInfeasible):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Calculation timed out"
	}
	return http.StatusInternalServerError, "Calculation error"
}

// Handler serves single footing designs over HTTP.
type Handler struct {
	Timeout time.Duration
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	out, ok := h.Design(w, r)
	if !ok {
		return
	}
	respond.OK(w, out)
}

// Design decodes the request and runs it, writing the error response itself when it fails.
func (h *Handler) Design(w http.ResponseWriter, r *http.Request) (*Output, bool) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request payload")
		return nil, false
	}
	out, err := Run(r.Context(), h.Timeout, req)
	if err != nil {
		Fail(w, r, err)
		return nil, false
	}
	return out, true
}

// Fail logs err and writes its mapped response.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := Status(err)
	ev := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		ev = zerolog.Ctx(r.Context()).Error()
	}
	ev.Err(err).Int("status", status).Msg("footing design failed")
	respond.Error(w, status, detail)
}
