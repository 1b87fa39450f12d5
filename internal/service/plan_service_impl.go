package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/permission"
	"github.com/alexanderramin/budgetflow/internal/repository"
	"github.com/alexanderramin/budgetflow/internal/validation"
	"github.com/alexanderramin/budgetflow/internal/workflow"
	"github.com/google/uuid"
)

type planService struct {
	actors    repository.ActorRepo
	entities  repository.EntityRepo
	lines     repository.LineItemRepo
	validator *validation.Engine
	machine   *workflow.Machine
	observer  UseCaseObserver
}

func NewPlanService(
	actors repository.ActorRepo,
	entities repository.EntityRepo,
	lines repository.LineItemRepo,
	validator *validation.Engine,
	machine *workflow.Machine,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		actors:    actors,
		entities:  entities,
		lines:     lines,
		validator: validator,
		machine:   machine,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Create opens a draft. Only members of the owning agency, or an admin,
// may open one.
func (s *planService) Create(ctx context.Context, req CreatePlanRequest) (e *domain.PlanningEntity, err error) {
	fields := map[string]any{"kind": req.Kind, "agency": req.AgencyID, "fiscal_year": req.FiscalYearID}
	defer observe(ctx, s.observer, "create-plan", time.Now(), fields, &err)

	if !domain.ValidEntityKinds[string(req.Kind)] {
		return nil, fmt.Errorf("unknown entity kind %q: %w", req.Kind, domain.ErrInvalidArgument)
	}
	if req.AgencyID == "" || req.FiscalYearID == "" {
		return nil, fmt.Errorf("agency and fiscal year are required: %w", domain.ErrInvalidArgument)
	}

	actor, err := s.actors.GetByID(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && !(actor.Role.IsAgencyRole() && actor.SameAgency(req.AgencyID)) {
		return nil, fmt.Errorf("%s %s cannot open plans for agency %s: %w",
			actor.Role, actor.ID, req.AgencyID, domain.ErrPermissionDenied)
	}

	now := time.Now().UTC()
	e = &domain.PlanningEntity{
		ID:           uuid.New().String(),
		Kind:         req.Kind,
		AgencyID:     req.AgencyID,
		FiscalYearID: req.FiscalYearID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Status:       domain.StatusDraft,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = s.entities.Create(ctx, e); err != nil {
		return nil, err
	}
	fields["id"] = e.ID
	return e, nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	return loadPlan(ctx, s.entities, s.lines, id)
}

func (s *planService) List(ctx context.Context, f repository.EntityFilter) ([]*domain.PlanningEntity, error) {
	return s.entities.List(ctx, f)
}

func (s *planService) Validate(ctx context.Context, id string) (*validation.Result, error) {
	plan, err := loadPlan(ctx, s.entities, s.lines, id)
	if err != nil {
		return nil, err
	}
	res := s.validator.Validate(*plan)
	return &res, nil
}

// Permissions reports every predicate plus the actions that would currently
// pass both the transition table and the permission check.
func (s *planService) Permissions(ctx context.Context, id, actorID string) (*Permissions, error) {
	e, err := s.entities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	actor, err := s.actors.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	out := &Permissions{Decision: permission.Check(actor, *e), Actions: []domain.Action{}}
	if table := s.machine.Table(e.Kind); table != nil {
		for _, a := range table.ActionsFrom(e.Status) {
			if permission.Allowed(a, actor, e.Status, e.AgencyID) {
				out.Actions = append(out.Actions, a)
			}
		}
	}
	return out, nil
}
