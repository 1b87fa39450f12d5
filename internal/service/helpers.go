package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/repository"
)

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	actors   repository.ActorRepo
	entities repository.EntityRepo
	lines    repository.LineItemRepo
	audit    repository.AuditRepo
}

func reposFor(tx db.DBTX) txRepos {
	return txRepos{
		actors:   repository.NewSQLiteActorRepo(tx),
		entities: repository.NewSQLiteEntityRepo(tx),
		lines:    repository.NewSQLiteLineItemRepo(tx),
		audit:    repository.NewSQLiteAuditRepo(tx),
	}
}

// loadPlan reads an entity together with its line items.
func loadPlan(ctx context.Context, entities repository.EntityRepo, lines repository.LineItemRepo, id string) (*domain.Plan, error) {
	e, err := entities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ls, err := lines.ListByEntity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading lines of %s: %w", id, err)
	}
	return assemblePlan(*e, ls), nil
}

// assemblePlan keeps only the line slice matching the entity's kind.
func assemblePlan(e domain.PlanningEntity, ls repository.Lines) *domain.Plan {
	p := &domain.Plan{Entity: e}
	switch e.Kind {
	case domain.KindProject:
		p.BudgetLines = ls.BudgetLines
	case domain.KindWorkProgramme:
		p.Activities = ls.Activities
	case domain.KindProcurementPlan:
		p.ProcurementItems = ls.ProcurementItems
	}
	return p
}
