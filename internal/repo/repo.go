package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Expected schema:
//
//	CREATE TABLE operators (
//	    id            SERIAL PRIMARY KEY,
//	    login         TEXT NOT NULL UNIQUE,
//	    email         TEXT NOT NULL,
//	    organisation  TEXT NOT NULL DEFAULT '',
//	    description   TEXT NOT NULL DEFAULT '',
//	    password      TEXT NOT NULL,
//	    is_premium    BOOLEAN NOT NULL DEFAULT FALSE,
//	    premium_until TIMESTAMPTZ,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
//	CREATE TABLE runs (
//	    id          UUID PRIMARY KEY,
//	    operator_id INTEGER NOT NULL REFERENCES operators(id),
//	    tool        TEXT NOT NULL,
//	    ph_class    TEXT NOT NULL DEFAULT '',
//	    payload     JSONB NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//	CREATE INDEX runs_operator_created_idx ON runs (operator_id, created_at DESC);

type Profile struct {
	ID           int        `json:"id"`
	Login        string     `json:"login"`
	Email        string     `json:"email"`
	Organisation string     `json:"organisation"`
	Description  string     `json:"description"`
	IsPremium    bool       `json:"is_premium"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Run is one saved analysis: the full response payload of a tool call, kept
// for the operator's audit trail.
type Run struct {
	ID         uuid.UUID       `json:"id"`
	OperatorID int             `json:"-"`
	Tool       string          `json:"tool"`
	PHClass    string          `json:"ph_class"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

type RunSummary struct {
	ID        uuid.UUID `json:"id"`
	Tool      string    `json:"tool"`
	PHClass   string    `json:"ph_class"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	CreateOperator(ctx context.Context, login, email, organisation, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
	GetProfileByID(ctx context.Context, id int) (Profile, error)
	UpdateProfile(ctx context.Context, id int, login, organisation, description string) (int64, error)
	SetPremium(ctx context.Context, id int, until time.Time) error
	ClearPremium(ctx context.Context, id int) error
	SaveRun(ctx context.Context, run Run) error
	ListRuns(ctx context.Context, operatorID, limit int) ([]RunSummary, error)
	GetRun(ctx context.Context, operatorID int, id uuid.UUID) (Run, error)
}

type PostgresOperatorRepository struct {
	db *sql.DB
}

func NewPostgresOperatorDB(db *sql.DB) *PostgresOperatorRepository {
	return &PostgresOperatorRepository{db: db}
}

func (r *PostgresOperatorRepository) CreateOperator(ctx context.Context, login, email, organisation, password string) (int, error) {
	var id int
	query := "INSERT INTO operators (login, email, organisation, password) VALUES ($1, $2, $3, $4) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, organisation, password).Scan(&id)
	return id, err
}

func (r *PostgresOperatorRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM operators WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresOperatorRepository) GetProfileByID(ctx context.Context, id int) (Profile, error) {
	var p Profile
	query := `SELECT id, login, email, organisation, description, is_premium, premium_until, created_at
	          FROM operators WHERE id=$1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Login, &p.Email, &p.Organisation, &p.Description,
		&p.IsPremium, &p.PremiumUntil, &p.CreatedAt,
	)
	return p, err
}

func (r *PostgresOperatorRepository) UpdateProfile(ctx context.Context, id int, login, organisation, description string) (int64, error) {
	query := "UPDATE operators SET login=$2, organisation=$3, description=$4 WHERE id=$1"
	res, err := r.db.ExecContext(ctx, query, id, login, organisation, description)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresOperatorRepository) SetPremium(ctx context.Context, id int, until time.Time) error {
	query := "UPDATE operators SET is_premium=TRUE, premium_until=$2 WHERE id=$1"
	_, err := r.db.ExecContext(ctx, query, id, until)
	return err
}

func (r *PostgresOperatorRepository) ClearPremium(ctx context.Context, id int) error {
	query := "UPDATE operators SET is_premium=FALSE, premium_until=NULL WHERE id=$1"
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *PostgresOperatorRepository) SaveRun(ctx context.Context, run Run) error {
	query := "INSERT INTO runs (id, operator_id, tool, ph_class, payload, created_at) VALUES ($1, $2, $3, $4, $5, $6)"
	_, err := r.db.ExecContext(ctx, query, run.ID, run.OperatorID, run.Tool, run.PHClass, []byte(run.Payload), run.CreatedAt)
	return err
}

func (r *PostgresOperatorRepository) ListRuns(ctx context.Context, operatorID, limit int) ([]RunSummary, error) {
	query := `SELECT id, tool, ph_class, created_at FROM runs
	          WHERE operator_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, operatorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RunSummary, 0)
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.Tool, &s.PHClass, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresOperatorRepository) GetRun(ctx context.Context, operatorID int, id uuid.UUID) (Run, error) {
	var run Run
	var payload []byte
	query := `SELECT id, operator_id, tool, ph_class, payload, created_at FROM runs
	          WHERE id=$1 AND operator_id=$2`
	err := r.db.QueryRowContext(ctx, query, id, operatorID).Scan(
		&run.ID, &run.OperatorID, &run.Tool, &run.PHClass, &payload, &run.CreatedAt,
	)
	run.Payload = payload
	return run, err
}
