package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Plinth/internal/calc/footing"
)

func TestDesignJSONOmitsBodiesInLists(t *testing.T) {
	d := Design{ID: uuid.New(), UserID: 4, Name: "Grid A1", Soil: "clay", Width: 4.1, Thickness: 0.6}

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "inputs")
	assert.NotContains(t, fields, "design")
	assert.NotContains(t, fields, "UserID")
	assert.Equal(t, "Grid A1", fields["name"])
}

// openTestDB connects to PLINTH_TEST_DATABASE_URL, skipping when it is unset.
func openTestDB(t *testing.T) *PostgresRepository {
	t.Helper()
	dsn := os.Getenv("PLINTH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PLINTH_TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := NewPostgres(db)
	require.NoError(t, r.EnsureSchema(context.Background()))
	return r
}

func TestPostgresDesigns(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	login := "eng-" + uuid.NewString()
	userID, err := r.CreateUser(ctx, login, login+"@example.com", "hash")
	require.NoError(t, err)

	id, hash, err := r.GetByLogin(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, userID, id)
	assert.Equal(t, "hash", hash)

	_, _, err = r.GetByLogin(ctx, "nobody-"+uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	d := Design{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "Grid A1",
		Soil:      "custom",
		Width:     2.4,
		Thickness: 0.55,
		Request:   footing.Request{"soilType": "CUST", "DL": 1000, "bc": 150},
		Output:    &footing.Output{Soil: "custom", Width: 2.4, Thickness: 0.55, BarCount: 11},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, r.SaveDesign(ctx, d))

	list, err := r.ListDesigns(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, d.ID, list[0].ID)
	assert.Nil(t, list[0].Output)

	got, err := r.GetDesign(ctx, userID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "CUST", got.Request["soilType"])
	assert.Equal(t, float64(1000), got.Request["DL"])
	require.NotNil(t, got.Output)
	assert.Equal(t, 11, got.Output.BarCount)

	_, err = r.GetDesign(ctx, userID+1, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
