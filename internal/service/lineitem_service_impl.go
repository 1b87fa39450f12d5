package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/permission"
	"github.com/alexanderramin/budgetflow/internal/repository"
	"github.com/alexanderramin/budgetflow/internal/validation"
	"github.com/google/uuid"
)

type lineItemService struct {
	uow       db.UnitOfWork
	validator *validation.Engine
	now       func() time.Time
	observer  UseCaseObserver
}

func NewLineItemService(uow db.UnitOfWork, validator *validation.Engine, observers ...UseCaseObserver) LineItemService {
	return &lineItemService{
		uow:       uow,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
		observer:  useCaseObserverOrNoop(observers),
	}
}

// ownerFunc names the entity a line change applies to and the kind that
// entity must have. It runs inside the mutation's transaction.
type ownerFunc func(ctx context.Context, r txRepos) (entityID string, kind domain.EntityKind, err error)

func ownedBy(entityID string, kind domain.EntityKind) ownerFunc {
	return func(context.Context, txRepos) (string, domain.EntityKind, error) {
		return entityID, kind, nil
	}
}

// mutate runs write inside a transaction after the frozen and CanEdit
// guards pass, bumps the entity's updated_at and re-validates.
func (s *lineItemService) mutate(
	ctx context.Context,
	name, actorID string,
	owner ownerFunc,
	write func(ctx context.Context, r txRepos) error,
) (res *validation.Result, err error) {
	fields := map[string]any{"actor": actorID}
	defer observe(ctx, s.observer, name, time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)

		entityID, kind, err := owner(ctx, r)
		if err != nil {
			return err
		}
		fields["entity"] = entityID

		e, err := r.entities.GetByID(ctx, entityID)
		if err != nil {
			return err
		}
		if e.Kind != kind {
			return fmt.Errorf("%s lines do not belong on a %s: %w", kind, e.Kind, domain.ErrInvalidArgument)
		}
		if e.LinesFrozen() {
			return fmt.Errorf("entity %s is %s: %w", e.ID, e.Status, domain.ErrLinesFrozen)
		}
		actor, err := r.actors.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		if !permission.CanEdit(actor, e.Status, e.AgencyID) {
			return fmt.Errorf("%s %s cannot edit %s entity %s: %w", actor.Role, actor.ID, e.Status, e.ID, domain.ErrPermissionDenied)
		}

		if err := write(ctx, r); err != nil {
			return err
		}
		if err := r.entities.Touch(ctx, e.ID, s.now()); err != nil {
			return err
		}

		plan, err := loadPlan(ctx, r.entities, r.lines, e.ID)
		if err != nil {
			return err
		}
		v := s.validator.Validate(*plan)
		res = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["score"] = res.CompletenessScore
	return res, nil
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

func (s *lineItemService) AddBudgetLine(ctx context.Context, actorID string, l *domain.BudgetLine) (*validation.Result, error) {
	ensureID(&l.ID)
	return s.mutate(ctx, "add-budget-line", actorID, ownedBy(l.EntityID, domain.KindProject), func(ctx context.Context, r txRepos) error {
		return r.lines.CreateBudgetLine(ctx, l)
	})
}

func (s *lineItemService) UpdateBudgetLine(ctx context.Context, actorID string, l *domain.BudgetLine) (*validation.Result, error) {
	return s.mutate(ctx, "update-budget-line", actorID, ownedBy(l.EntityID, domain.KindProject), func(ctx context.Context, r txRepos) error {
		return r.lines.UpdateBudgetLine(ctx, l)
	})
}

func (s *lineItemService) AddActivity(ctx context.Context, actorID string, a *domain.Activity) (*validation.Result, error) {
	ensureID(&a.ID)
	return s.mutate(ctx, "add-activity", actorID, ownedBy(a.EntityID, domain.KindWorkProgramme), func(ctx context.Context, r txRepos) error {
		return r.lines.CreateActivity(ctx, a)
	})
}

func (s *lineItemService) UpdateActivity(ctx context.Context, actorID string, a *domain.Activity) (*validation.Result, error) {
	return s.mutate(ctx, "update-activity", actorID, ownedBy(a.EntityID, domain.KindWorkProgramme), func(ctx context.Context, r txRepos) error {
		return r.lines.UpdateActivity(ctx, a)
	})
}

func (s *lineItemService) AddProcurementItem(ctx context.Context, actorID string, p *domain.ProcurementItem) (*validation.Result, error) {
	ensureID(&p.ID)
	return s.mutate(ctx, "add-procurement-item", actorID, ownedBy(p.EntityID, domain.KindProcurementPlan), func(ctx context.Context, r txRepos) error {
		return r.lines.CreateProcurementItem(ctx, p)
	})
}

func (s *lineItemService) UpdateProcurementItem(ctx context.Context, actorID string, p *domain.ProcurementItem) (*validation.Result, error) {
	return s.mutate(ctx, "update-procurement-item", actorID, ownedBy(p.EntityID, domain.KindProcurementPlan), func(ctx context.Context, r txRepos) error {
		return r.lines.UpdateProcurementItem(ctx, p)
	})
}

// Remove deletes a line of any kind. The owner lookup shares the
// transaction with the guards and the delete.
func (s *lineItemService) Remove(ctx context.Context, actorID, lineID string) (*validation.Result, error) {
	var ref *repository.LineRef
	owner := func(ctx context.Context, r txRepos) (string, domain.EntityKind, error) {
		var err error
		if ref, err = r.lines.Locate(ctx, lineID); err != nil {
			return "", "", err
		}
		return ref.EntityID, ref.Kind, nil
	}
	return s.mutate(ctx, "remove-line", actorID, owner, func(ctx context.Context, r txRepos) error {
		return r.lines.Delete(ctx, *ref)
	})
}
