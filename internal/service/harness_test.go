package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/reconcile"
	"github.com/alexanderramin/budgetflow/internal/repository"
	"github.com/alexanderramin/budgetflow/internal/testutil"
	"github.com/alexanderramin/budgetflow/internal/validation"
	"github.com/alexanderramin/budgetflow/internal/workflow"
	"github.com/stretchr/testify/require"
)

// recordingObserver keeps every use-case event for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type cast struct {
	user, head, otherUser, reviewer, approver, admin *domain.Actor
}

type harness struct {
	db        *sql.DB
	uow       db.UnitOfWork
	validator *validation.Engine
	machine   *workflow.Machine
	observer  *recordingObserver

	actors    ActorService
	plans     PlanService
	lines     LineItemService
	workflow  WorkflowService
	reconcile ReconciliationService

	cast cast
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := &harness{
		db:        database,
		uow:       testutil.NewTestUoW(database),
		validator: validation.NewEngine(validation.DefaultWeights()),
		observer:  &recordingObserver{},
	}
	h.machine = workflow.NewMachine(h.validator)

	actorRepo := repository.NewSQLiteActorRepo(database)
	entityRepo := repository.NewSQLiteEntityRepo(database)
	lineRepo := repository.NewSQLiteLineItemRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	h.actors = NewActorService(actorRepo, h.observer)
	h.plans = NewPlanService(actorRepo, entityRepo, lineRepo, h.validator, h.machine, h.observer)
	h.lines = NewLineItemService(h.uow, h.validator, h.observer)
	h.workflow = NewWorkflowService(entityRepo, auditRepo, h.uow, h.machine, h.observer)
	h.reconcile = NewReconciliationService(entityRepo, lineRepo, reconcile.NewEngine(reconcile.DefaultThresholds()), h.observer)

	ctx := context.Background()
	h.cast = cast{
		user:      testutil.NewTestActor(domain.RoleAgencyUser),
		head:      testutil.NewTestActor(domain.RoleAgencyApprover),
		otherUser: testutil.NewTestActor(domain.RoleAgencyUser, testutil.WithAgency("AG2")),
		reviewer:  testutil.NewTestActor(domain.RoleReviewer),
		approver:  testutil.NewTestActor(domain.RoleApprover),
		admin:     testutil.NewTestActor(domain.RoleAdmin),
	}
	for _, a := range []*domain.Actor{h.cast.user, h.cast.head, h.cast.otherUser, h.cast.reviewer, h.cast.approver, h.cast.admin} {
		require.NoError(t, h.actors.Create(ctx, a))
	}
	return h
}

// newPlan opens a draft of kind for agency AG1 as the agency user.
func (h *harness) newPlan(t *testing.T, kind domain.EntityKind, fy string) *domain.PlanningEntity {
	t.Helper()
	e, err := h.plans.Create(context.Background(), CreatePlanRequest{
		ActorID: h.cast.user.ID, Kind: kind, AgencyID: "AG1", FiscalYearID: fy, Title: "Plan " + string(kind),
	})
	require.NoError(t, err)
	return e
}

func (h *harness) step(t *testing.T, entityID string, actor *domain.Actor, action domain.Action, comment string) *workflow.Outcome {
	t.Helper()
	out, err := h.workflow.Transition(context.Background(), TransitionRequest{
		EntityID: entityID, ActorID: actor.ID, Action: action, Comment: comment,
	})
	require.NoError(t, err, "%s by %s", action, actor.Role)
	return out
}
