package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/budgetflow/internal/domain"
)

type ActorRepo interface {
	Create(ctx context.Context, a *domain.Actor) error
	GetByID(ctx context.Context, id string) (*domain.Actor, error)
	List(ctx context.Context) ([]*domain.Actor, error)
}

// EntityFilter narrows List; empty fields match everything.
type EntityFilter struct {
	FiscalYearID string
	AgencyID     string
	Kind         domain.EntityKind
}

// StatusChange moves an entity from one status to another, provided the
// stored row still carries From and ExpectedUpdatedAt.
type StatusChange struct {
	ID                string
	From              domain.Status
	To                domain.Status
	ExpectedUpdatedAt time.Time
	UpdatedAt         time.Time
}

type EntityRepo interface {
	Create(ctx context.Context, e *domain.PlanningEntity) error
	GetByID(ctx context.Context, id string) (*domain.PlanningEntity, error)
	List(ctx context.Context, f EntityFilter) ([]*domain.PlanningEntity, error)
	ListByFiscalYear(ctx context.Context, fiscalYearID string) ([]*domain.PlanningEntity, error)
	// UpdateStatus returns domain.ErrConcurrentModify when the row changed
	// since it was read.
	UpdateStatus(ctx context.Context, c StatusChange) error
	// Touch bumps updated_at after a line item change.
	Touch(ctx context.Context, id string, at time.Time) error
}

// Lines holds the line items of one entity, in insertion order.
type Lines struct {
	BudgetLines      []domain.BudgetLine
	Activities       []domain.Activity
	ProcurementItems []domain.ProcurementItem
}

// LineRef locates a line item without knowing its kind up front.
type LineRef struct {
	ID       string
	EntityID string
	Kind     domain.EntityKind
}

type LineItemRepo interface {
	CreateBudgetLine(ctx context.Context, l *domain.BudgetLine) error
	UpdateBudgetLine(ctx context.Context, l *domain.BudgetLine) error
	CreateActivity(ctx context.Context, a *domain.Activity) error
	UpdateActivity(ctx context.Context, a *domain.Activity) error
	CreateProcurementItem(ctx context.Context, p *domain.ProcurementItem) error
	UpdateProcurementItem(ctx context.Context, p *domain.ProcurementItem) error
	Delete(ctx context.Context, ref LineRef) error
	Locate(ctx context.Context, lineID string) (*LineRef, error)
	ListByEntity(ctx context.Context, entityID string) (Lines, error)
	ListByEntities(ctx context.Context, entityIDs []string) (map[string]Lines, error)
}

// AuditRepo is append-only; it has no update or delete.
type AuditRepo interface {
	Append(ctx context.Context, a *domain.WorkflowAction) error
	ListByEntity(ctx context.Context, entityID string) ([]*domain.WorkflowAction, error)
}
