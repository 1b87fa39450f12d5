package service

import (
	"context"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/permission"
	"github.com/alexanderramin/budgetflow/internal/reconcile"
	"github.com/alexanderramin/budgetflow/internal/repository"
	"github.com/alexanderramin/budgetflow/internal/validation"
	"github.com/alexanderramin/budgetflow/internal/workflow"
)

type ActorService interface {
	Create(ctx context.Context, a *domain.Actor) error
	GetByID(ctx context.Context, id string) (*domain.Actor, error)
	List(ctx context.Context) ([]*domain.Actor, error)
}

// CreatePlanRequest opens a new draft entity on behalf of ActorID.
type CreatePlanRequest struct {
	ActorID      string
	Kind         domain.EntityKind
	AgencyID     string
	FiscalYearID string
	Title        string
	Description  string
}

// Permissions is what one actor may do to one entity right now.
type Permissions struct {
	Decision permission.Decision `json:"decision"`
	Actions  []domain.Action     `json:"actions"`
}

type PlanService interface {
	Create(ctx context.Context, req CreatePlanRequest) (*domain.PlanningEntity, error)
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, f repository.EntityFilter) ([]*domain.PlanningEntity, error)
	Validate(ctx context.Context, id string) (*validation.Result, error)
	Permissions(ctx context.Context, id, actorID string) (*Permissions, error)
}

// LineItemService edits line items. Every mutation is refused once the
// entity is locked or completed, and otherwise requires CanEdit. The
// returned result is the entity's validation after the change.
type LineItemService interface {
	AddBudgetLine(ctx context.Context, actorID string, l *domain.BudgetLine) (*validation.Result, error)
	UpdateBudgetLine(ctx context.Context, actorID string, l *domain.BudgetLine) (*validation.Result, error)
	AddActivity(ctx context.Context, actorID string, a *domain.Activity) (*validation.Result, error)
	UpdateActivity(ctx context.Context, actorID string, a *domain.Activity) (*validation.Result, error)
	AddProcurementItem(ctx context.Context, actorID string, p *domain.ProcurementItem) (*validation.Result, error)
	UpdateProcurementItem(ctx context.Context, actorID string, p *domain.ProcurementItem) (*validation.Result, error)
	Remove(ctx context.Context, actorID, lineID string) (*validation.Result, error)
}

type TransitionRequest struct {
	EntityID string
	ActorID  string
	Action   domain.Action
	Comment  string
}

type WorkflowService interface {
	Transition(ctx context.Context, req TransitionRequest) (*workflow.Outcome, error)
	History(ctx context.Context, entityID string) ([]*domain.WorkflowAction, error)
}

type ReconciliationService interface {
	Reconcile(ctx context.Context, fiscalYearID string) (*reconcile.Report, error)
}
