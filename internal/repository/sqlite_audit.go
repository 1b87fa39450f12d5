package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/alexanderramin/budgetflow/internal/domain"
)

type SQLiteAuditRepo struct {
	db db.DBTX
}

func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

func (r *SQLiteAuditRepo) Append(ctx context.Context, a *domain.WorkflowAction) error {
	query := `INSERT INTO workflow_actions (id, entity_id, type, from_status, to_status, actor_id, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.EntityID,
		string(a.Type),
		string(a.FromStatus),
		string(a.ToStatus),
		a.ActorID,
		a.Comment,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("appending workflow action: %w", err)
	}
	return nil
}

// ListByEntity returns an entity's history oldest first.
func (r *SQLiteAuditRepo) ListByEntity(ctx context.Context, entityID string) ([]*domain.WorkflowAction, error) {
	query := `SELECT id, entity_id, type, from_status, to_status, actor_id, comment, created_at
		FROM workflow_actions WHERE entity_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("listing workflow actions: %w", err)
	}
	defer rows.Close()

	var out []*domain.WorkflowAction
	for rows.Next() {
		var a domain.WorkflowAction
		var typ, from, to, createdAt string
		if err := rows.Scan(&a.ID, &a.EntityID, &typ, &from, &to, &a.ActorID, &a.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning workflow action: %w", err)
		}
		a.Type = domain.ActionType(typ)
		a.FromStatus = domain.Status(from)
		a.ToStatus = domain.Status(to)
		if a.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workflow actions: %w", err)
	}
	return out, nil
}
