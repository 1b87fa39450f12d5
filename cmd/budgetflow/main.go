package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/budgetflow/internal/cli"
	"github.com/alexanderramin/budgetflow/internal/config"
	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/alexanderramin/budgetflow/internal/reconcile"
	"github.com/alexanderramin/budgetflow/internal/repository"
	"github.com/alexanderramin/budgetflow/internal/service"
	"github.com/alexanderramin/budgetflow/internal/validation"
	"github.com/alexanderramin/budgetflow/internal/workflow"
	_ "github.com/joho/godotenv/autoload"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.Describe(err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	actorRepo := repository.NewSQLiteActorRepo(database)
	entityRepo := repository.NewSQLiteEntityRepo(database)
	lineRepo := repository.NewSQLiteLineItemRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	validator := validation.NewEngine(validation.Weights{Error: cfg.ErrorWeight, Warning: cfg.WarningWeight})
	machine := workflow.NewMachine(validator)
	engine := reconcile.NewEngine(reconcile.ThresholdsFromPercent(cfg.MinorPct, cfg.MajorPct, cfg.CriticalPct))

	app := &cli.App{
		Actors:    service.NewActorService(actorRepo, observer),
		Plans:     service.NewPlanService(actorRepo, entityRepo, lineRepo, validator, machine, observer),
		Lines:     service.NewLineItemService(uow, validator, observer),
		Workflow:  service.NewWorkflowService(entityRepo, auditRepo, uow, machine, observer),
		Reconcile: service.NewReconciliationService(entityRepo, lineRepo, engine, observer),
		IsTTY: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
