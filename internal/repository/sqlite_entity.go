package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/alexanderramin/budgetflow/internal/domain"
)

// SQLiteEntityRepo stores projects, work programmes and procurement plans
// in one table keyed by kind.
type SQLiteEntityRepo struct {
	db db.DBTX
}

func NewSQLiteEntityRepo(conn db.DBTX) *SQLiteEntityRepo {
	return &SQLiteEntityRepo{db: conn}
}

const entityColumns = `id, kind, agency_id, fiscal_year_id, title, description, status, created_by, created_at, updated_at`

func (r *SQLiteEntityRepo) Create(ctx context.Context, e *domain.PlanningEntity) error {
	query := `INSERT INTO planning_entities (` + entityColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		string(e.Kind),
		e.AgencyID,
		e.FiscalYearID,
		e.Title,
		e.Description,
		string(e.Status),
		e.CreatedBy,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting planning entity: %w", err)
	}
	return nil
}

func (r *SQLiteEntityRepo) GetByID(ctx context.Context, id string) (*domain.PlanningEntity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entityColumns+` FROM planning_entities WHERE id = ?`, id)
	e, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("planning entity %s: %w", id, domain.ErrNotFound)
	}
	return e, err
}

func (r *SQLiteEntityRepo) List(ctx context.Context, f EntityFilter) ([]*domain.PlanningEntity, error) {
	var where []string
	var args []any
	if f.FiscalYearID != "" {
		where = append(where, "fiscal_year_id = ?")
		args = append(args, f.FiscalYearID)
	}
	if f.AgencyID != "" {
		where = append(where, "agency_id = ?")
		args = append(args, f.AgencyID)
	}
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}

	query := `SELECT ` + entityColumns + ` FROM planning_entities`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY fiscal_year_id, agency_id, kind, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing planning entities: %w", err)
	}
	defer rows.Close()

	var out []*domain.PlanningEntity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating planning entities: %w", err)
	}
	return out, nil
}

func (r *SQLiteEntityRepo) ListByFiscalYear(ctx context.Context, fiscalYearID string) ([]*domain.PlanningEntity, error) {
	return r.List(ctx, EntityFilter{FiscalYearID: fiscalYearID})
}

func (r *SQLiteEntityRepo) UpdateStatus(ctx context.Context, c StatusChange) error {
	query := `UPDATE planning_entities SET status = ?, updated_at = ?
		WHERE id = ? AND status = ? AND updated_at = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(c.To),
		formatTime(c.UpdatedAt),
		c.ID,
		string(c.From),
		formatTime(c.ExpectedUpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("updating entity status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entity %s: %w", c.ID, domain.ErrConcurrentModify)
	}
	return nil
}

func (r *SQLiteEntityRepo) Touch(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE planning_entities SET updated_at = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("touching entity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("planning entity %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanEntity(row rowScanner) (*domain.PlanningEntity, error) {
	var e domain.PlanningEntity
	var kind, status, createdAt, updatedAt string
	err := row.Scan(
		&e.ID, &kind, &e.AgencyID, &e.FiscalYearID,
		&e.Title, &e.Description, &status, &e.CreatedBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning planning entity: %w", err)
	}
	e.Kind = domain.EntityKind(kind)
	e.Status = domain.Status(status)

	if e.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &e, nil
}
