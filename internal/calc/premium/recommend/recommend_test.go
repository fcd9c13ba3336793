package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Plinth/internal/calc/footing"
)

func customInput() footing.Input {
	return footing.Input{
		DeadLoad: 1000, LiveLoad: 500, ColumnX: 0.4, ColumnY: 0.4,
		Fck: 30, Fyk: 500, Cover: 0.05,
		Soil: footing.CustomBearing{AllowablePressure: 150},
	}
}

func TestBarSizeOrdersByProvidedArea(t *testing.T) {
	res, err := BarSize(context.Background(), 0, customInput())
	require.NoError(t, err)
	require.Len(t, res.Options, len(Bars))

	var order []float64
	for _, o := range res.Options {
		order = append(order, o.BarDiameter)
	}
	assert.Equal(t, []float64{16, 12, 20, 25, 32}, order)
	assert.True(t, res.Options[0].Lightest)
	assert.False(t, res.Options[1].Lightest)
	assert.Equal(t, 21, res.Options[0].BarCount)
	assert.Equal(t, 6, res.Options[4].BarCount)
}

func TestBarSizeWithoutValidOption(t *testing.T) {
	in := customInput()
	in.DeadLoad = 50
	_, err := BarSize(context.Background(), 0, in)
	assert.ErrorIs(t, err, ErrNoOption)
}

func TestHandlerBars(t *testing.T) {
	body, err := json.Marshal(footing.Request{
		"soilType": "cust", "DL": 1000, "LL": 500, "colx": 400, "coly": 400,
		"fck": 30, "fyk": 500, "covr": 50,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	(&Handler{}).Bars(rec, httptest.NewRequest(http.MethodPost, "/api/tools/footing/recommend", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Options)
	assert.Equal(t, 16.0, env.Data.Options[0].BarDiameter)
}

func TestHandlerBarsRejectsNull(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{}).Bars(rec, httptest.NewRequest(http.MethodPost, "/api/tools/footing/recommend", bytes.NewBufferString("null")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
