package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/service"
	"github.com/alexanderramin/budgetflow/internal/workflow"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Actors    service.ActorService
	Plans     service.PlanService
	Lines     service.LineItemService
	Workflow  service.WorkflowService
	Reconcile service.ReconciliationService

	// IsTTY reports whether stdout is a terminal. Nil means not a terminal.
	IsTTY func() bool
}

func (a *App) isTTY() bool {
	return a.IsTTY != nil && a.IsTTY()
}

// NewRootCmd creates the top-level "budgetflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "budgetflow",
		Short:         "Agency budget planning, approval workflow and reconciliation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newActorCmd(app),
		newPlanCmd(app),
		newLineCmd(app),
		newReconcileCmd(app),
	)

	return root
}

// Describe turns a service error into a message for the terminal. Rejected
// transitions list their validation errors one per line.
func Describe(err error) string {
	var te *workflow.TransitionError
	if errors.As(err, &te) {
		msg := fmt.Sprintf("cannot %s: %s", te.Action, transitionReason(te))
		for _, issue := range te.Issues {
			msg += "\n  - " + issue
		}
		return msg
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not found: " + err.Error()
	case errors.Is(err, domain.ErrConcurrentModify):
		return "the plan was changed by someone else; reload and try again"
	case errors.Is(err, domain.ErrLinesFrozen):
		return "line items are frozen once a plan is locked or completed"
	}
	return err.Error()
}

func transitionReason(te *workflow.TransitionError) string {
	switch te.Code {
	case workflow.CodeInvalidTransition:
		return fmt.Sprintf("not allowed from status %s", te.From)
	case workflow.CodePermissionDenied:
		return "permission denied"
	case workflow.CodeValidationFailed:
		return "the plan does not pass validation"
	case workflow.CodeCommentRequired:
		return "a comment is required"
	default:
		return string(te.Code)
	}
}
