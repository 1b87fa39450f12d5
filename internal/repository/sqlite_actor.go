package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/alexanderramin/budgetflow/internal/domain"
)

type SQLiteActorRepo struct {
	db db.DBTX
}

func NewSQLiteActorRepo(conn db.DBTX) *SQLiteActorRepo {
	return &SQLiteActorRepo{db: conn}
}

const actorColumns = `id, name, role, agency_id`

func (r *SQLiteActorRepo) Create(ctx context.Context, a *domain.Actor) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO actors (id, name, role, agency_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Role), a.AgencyID, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("inserting actor: %w", err)
	}
	return nil
}

func (r *SQLiteActorRepo) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+actorColumns+` FROM actors WHERE id = ?`, id)
	a, err := scanActor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("actor %s: %w", id, domain.ErrNotFound)
	}
	return a, err
}

func (r *SQLiteActorRepo) List(ctx context.Context) ([]*domain.Actor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+actorColumns+` FROM actors ORDER BY role, name`)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	defer rows.Close()

	var actors []*domain.Actor
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating actors: %w", err)
	}
	return actors, nil
}

func scanActor(row rowScanner) (*domain.Actor, error) {
	var a domain.Actor
	var role string
	if err := row.Scan(&a.ID, &a.Name, &role, &a.AgencyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning actor: %w", err)
	}
	a.Role = domain.Role(role)
	return &a, nil
}
