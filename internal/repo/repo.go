package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Plinth/internal/calc/footing"
)

var ErrNotFound = errors.New("not found")

// Design is a saved footing design. Request is kept as submitted so the design can be re-run.
type Design struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int             `json:"-"`
	Name      string          `json:"name"`
	Soil      string          `json:"soil"`
	Width     float64         `json:"width_m"`
	Thickness float64         `json:"thickness_m"`
	Request   footing.Request `json:"inputs,omitempty"`
	Output    *footing.Output `json:"design,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)

	SaveDesign(ctx context.Context, d Design) error
	// ListDesigns returns the user's designs newest first, without request and output bodies.
	ListDesigns(ctx context.Context, userID int) ([]Design, error)
	GetDesign(ctx context.Context, userID int, id uuid.UUID) (Design, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS designs (
	id UUID PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	soil TEXT NOT NULL,
	width_m DOUBLE PRECISION NOT NULL,
	thickness_m DOUBLE PRECISION NOT NULL,
	request JSONB NOT NULL,
	output JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS designs_user_created ON designs (user_id, created_at DESC);
`

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrNotFound
	}
	if err != nil {
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveDesign(ctx context.Context, d Design) error {
	req, err := json.Marshal(d.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	out, err := json.Marshal(d.Output)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	query := `INSERT INTO designs (id, user_id, name, soil, width_m, thickness_m, request, output, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.ExecContext(ctx, query, d.ID, d.UserID, d.Name, d.Soil, d.Width, d.Thickness, req, out, d.CreatedAt)
	return err
}

func (r *PostgresRepository) ListDesigns(ctx context.Context, userID int) ([]Design, error) {
	query := `SELECT id, name, soil, width_m, thickness_m, created_at FROM designs
		WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	designs := []Design{}
	for rows.Next() {
		d := Design{UserID: userID}
		if err := rows.Scan(&d.ID, &d.Name, &d.Soil, &d.Width, &d.Thickness, &d.CreatedAt); err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

func (r *PostgresRepository) GetDesign(ctx context.Context, userID int, id uuid.UUID) (Design, error) {
	d := Design{UserID: userID}
	var req, out []byte
	query := `SELECT id, name, soil, width_m, thickness_m, request, output, created_at FROM designs
		WHERE id=$1 AND user_id=$2`
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&d.ID, &d.Name, &d.Soil, &d.Width, &d.Thickness, &req, &out, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Design{}, ErrNotFound
	}
	if err != nil {
		return Design{}, err
	}
	if err := json.Unmarshal(req, &d.Request); err != nil {
		return Design{}, fmt.Errorf("decode request: %w", err)
	}
	if err := json.Unmarshal(out, &d.Output); err != nil {
		return Design{}, fmt.Errorf("decode output: %w", err)
	}
	return d, nil
}
