package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"Plinth/internal/calc/footing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func customRequest(pressure float64) footing.Request {
	return footing.Request{
		"soilType": "CUST", "DL": 1000, "LL": 500, "colx": 400, "coly": 400,
		"fck": 30, "fyk": 500, "bar": 16, "covr": 50, "bc": pressure,
	}
}

func TestRunKeepsOrderAndReportsFailures(t *testing.T) {
	in := Input{Items: []footing.Request{
		customRequest(150),
		customRequest(10),
		{"soilType": "granite"},
		customRequest(300),
	}}

	res, err := Runner{Workers: 3}.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Count)
	assert.Equal(t, 2, res.Failed)
	for i, it := range res.Results {
		assert.Equal(t, i, it.Index)
	}
	assert.True(t, res.Results[0].Success)
	assert.Equal(t, http.StatusBadRequest, res.Results[1].Status)
	assert.Equal(t, "Invalid input values", res.Results[1].Detail)
	assert.Equal(t, "Invalid soilType: GRANITE", res.Results[2].Detail)
	require.True(t, res.Results[3].Success)
	assert.Less(t, res.Results[3].Data.Width, res.Results[0].Data.Width)
}

func TestRunLimits(t *testing.T) {
	_, err := Runner{}.Run(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrNoItems)

	items := make([]footing.Request, MaxItems+1)
	_, err = Runner{}.Run(context.Background(), Input{Items: items})
	assert.Error(t, err)
}

func TestRunTimesOutPerItem(t *testing.T) {
	res, err := Runner{Workers: 2, Timeout: time.Nanosecond}.Run(context.Background(),
		Input{Items: []footing.Request{customRequest(150), customRequest(200)}})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Failed)
	for _, it := range res.Results {
		assert.Equal(t, http.StatusGatewayTimeout, it.Status)
	}
}

func TestHandlerFooting(t *testing.T) {
	body, err := json.Marshal(Input{Items: []footing.Request{customRequest(150)}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h := &Handler{Runner: Runner{Workers: 2}}
	h.Footing(rec, httptest.NewRequest(http.MethodPost, "/api/tools/footing/batch", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Success bool   `json:"success"`
		Data    Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Data.Count)
	assert.Zero(t, env.Data.Failed)
}
