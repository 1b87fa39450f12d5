package service

import (
	"context"
	"time"

	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/repository"
	"github.com/alexanderramin/budgetflow/internal/workflow"
)

type workflowService struct {
	entities repository.EntityRepo
	audit    repository.AuditRepo
	uow      db.UnitOfWork
	machine  *workflow.Machine
	observer UseCaseObserver
}

func NewWorkflowService(
	entities repository.EntityRepo,
	audit repository.AuditRepo,
	uow db.UnitOfWork,
	machine *workflow.Machine,
	observers ...UseCaseObserver,
) WorkflowService {
	return &workflowService{
		entities: entities,
		audit:    audit,
		uow:      uow,
		machine:  machine,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Transition loads a snapshot, runs the state machine on it and writes the
// new status and audit entry in one transaction. The status update only
// applies if the row is unchanged since the snapshot was read; otherwise
// nothing is written and domain.ErrConcurrentModify is returned.
func (s *workflowService) Transition(ctx context.Context, req TransitionRequest) (out *workflow.Outcome, err error) {
	fields := map[string]any{"entity": req.EntityID, "actor": req.ActorID, "action": req.Action}
	defer observe(ctx, s.observer, "transition", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)

		plan, err := loadPlan(ctx, r.entities, r.lines, req.EntityID)
		if err != nil {
			return err
		}
		actor, err := r.actors.GetByID(ctx, req.ActorID)
		if err != nil {
			return err
		}

		o, err := s.machine.Transition(workflow.Request{
			Plan:    *plan,
			Action:  req.Action,
			Actor:   actor,
			Comment: req.Comment,
		})
		if err != nil {
			return err
		}

		if err := r.entities.UpdateStatus(ctx, repository.StatusChange{
			ID:                plan.Entity.ID,
			From:              plan.Entity.Status,
			To:                o.Entity.Status,
			ExpectedUpdatedAt: plan.Entity.UpdatedAt,
			UpdatedAt:         o.Entity.UpdatedAt,
		}); err != nil {
			return err
		}
		if err := r.audit.Append(ctx, &o.Record); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["from"] = out.Record.FromStatus
	fields["to"] = out.Record.ToStatus
	return out, nil
}

// History returns the audit trail of an entity, oldest first.
func (s *workflowService) History(ctx context.Context, entityID string) ([]*domain.WorkflowAction, error) {
	if _, err := s.entities.GetByID(ctx, entityID); err != nil {
		return nil, err
	}
	return s.audit.ListByEntity(ctx, entityID)
}
