package footing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clayRequest() Request {
	return Request{
		"soilType": "cu",
		"DL":       1000,
		"LL":       "500",
		"colx":     400,
		"coly":     400,
		"fck":      30,
		"fyk":      500,
		"bar":      16,
		"covr":     50,
		"Df":       1500,
		"gamma":    18,
		"CU":       50,
	}
}

func TestRequestInput(t *testing.T) {
	in, err := clayRequest().Input()
	require.NoError(t, err)
	assert.Equal(t, clayInput(), in)
}

func TestRequestDefaults(t *testing.T) {
	req := clayRequest()
	req["soilType"] = " s "
	req["mxp"] = ""
	in, err := req.Input()
	require.NoError(t, err)
	assert.Equal(t, Sand{FrictionAngle: DefaultFrictionAngle}, in.Soil)
	assert.Zero(t, in.MomentXPermanent)

	custom := Request{"soilType": "Cust", "DL": 1000, "LL": 500, "colx": 400, "coly": 400,
		"fck": 30, "fyk": 500, "bar": 16, "covr": 50}
	in, err = custom.Input()
	require.NoError(t, err)
	assert.Equal(t, CustomBearing{AllowablePressure: DefaultAllowablePressure}, in.Soil)
}

func TestRequestErrors(t *testing.T) {
	cases := map[string]struct {
		mutate func(Request)
		want   string
	}{
		"missing soil":     {func(r Request) { delete(r, "soilType") }, "Missing soilType parameter"},
		"unknown soil":     {func(r Request) { r["soilType"] = "rock" }, "Invalid soilType: ROCK"},
		"numeric soil":     {func(r Request) { r["soilType"] = 3 }, "Invalid soilType: 3"},
		"null soil":        {func(r Request) { r["soilType"] = nil }, "Missing soilType parameter"},
		"missing load":     {func(r Request) { delete(r, "DL") }, "Missing parameter: DL"},
		"clay needs cu":    {func(r Request) { delete(r, "CU") }, "Missing parameter: CU"},
		"clay needs depth": {func(r Request) { r["Df"] = nil }, "Missing parameter: Df"},
		"not a number":     {func(r Request) { r["fck"] = "C30" }, "Invalid number: fck"},
		"first error wins": {func(r Request) { delete(r, "LL"); delete(r, "bar") }, "Missing parameter: LL"},
		"wrong value type": {func(r Request) { r["gamma"] = []any{18} }, "Invalid number: gamma"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := clayRequest()
			tc.mutate(req)
			_, err := req.Input()
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&RequestError{Field: "DL", Msg: "Missing parameter"}, http.StatusBadRequest},
		{ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("pass 2: %w", infeasible("flexure", "lever arm radicand", -0.1)), http.StatusUnprocessableEntity},
		{fmt.Errorf("pass 1: width search: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("ratio search: %w", ErrNotConverged), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := Status(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}

type envelope struct {
	Success bool    `json:"success"`
	Detail  string  `json:"detail"`
	Data    *Output `json:"data"`
}

func post(t *testing.T, h *Handler, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/tools/footing/calc", &buf))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandlerCalc(t *testing.T) {
	rec, env := post(t, &Handler{}, clayRequest())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Data)
	assert.InDelta(t, 4.1, env.Data.Width, 1e-9)
	assert.Equal(t, 22, env.Data.BarCount)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandlerErrors(t *testing.T) {
	outOfRange := clayRequest()
	outOfRange["DL"] = 100

	infeasibleReq := clayRequest()
	infeasibleReq["DL"] = 200
	infeasibleReq["LL"] = 130
	infeasibleReq["colx"] = 1500
	infeasibleReq["coly"] = 1500
	infeasibleReq["bar"] = 12
	infeasibleReq["fck"] = 25
	infeasibleReq["CU"] = 1000

	cases := []struct {
		name    string
		handler *Handler
		body    any
		status  int
		detail  string
	}{
		{"malformed json", &Handler{}, "{", http.StatusBadRequest, "Invalid request payload"},
		{"unknown soil", &Handler{}, Request{"soilType": "XX"}, http.StatusBadRequest, "Invalid soilType: XX"},
		{"out of range", &Handler{}, outOfRange, http.StatusBadRequest, "Invalid input values"},
		{"infeasible", &Handler{}, infeasibleReq, http.StatusUnprocessableEntity, ""},
		{"timed out", &Handler{Timeout: time.Nanosecond}, clayRequest(), http.StatusGatewayTimeout, "Calculation timed out"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := post(t, tc.handler, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, env.Success)
			if tc.detail != "" {
				assert.Equal(t, tc.detail, env.Detail)
			}
		})
	}
}
