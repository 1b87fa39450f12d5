package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/reconcile"
	"github.com/alexanderramin/budgetflow/internal/repository"
)

type reconciliationService struct {
	entities repository.EntityRepo
	lines    repository.LineItemRepo
	engine   *reconcile.Engine
	observer UseCaseObserver
}

func NewReconciliationService(
	entities repository.EntityRepo,
	lines repository.LineItemRepo,
	engine *reconcile.Engine,
	observers ...UseCaseObserver,
) ReconciliationService {
	return &reconciliationService{
		entities: entities,
		lines:    lines,
		engine:   engine,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Reconcile reads the fiscal year with one query for entities and one per line table, then hands the
// plans to the engine. Report generation is allowed in every status.
func (s *reconciliationService) Reconcile(ctx context.Context, fiscalYearID string) (report *reconcile.Report, err error) {
	fields := map[string]any{"fiscal_year": fiscalYearID}
	defer observe(ctx, s.observer, "reconcile", time.Now(), fields, &err)

	if fiscalYearID == "" {
		return nil, fmt.Errorf("fiscal year is required: %w", domain.ErrInvalidArgument)
	}

	entities, err := s.entities.ListByFiscalYear(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("loading entities: %w", err)
	}
	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	byEntity, err := s.lines.ListByEntities(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading line items: %w", err)
	}

	plans := make([]domain.Plan, 0, len(entities))
	for _, e := range entities {
		plans = append(plans, *assemblePlan(*e, byEntity[e.ID]))
	}

	r := s.engine.Reconcile(reconcile.Input{FiscalYearID: fiscalYearID, Plans: plans})
	fields["agencies"] = r.Summary.Agencies
	fields["critical"] = r.Summary.Critical
	return &r, nil
}
