package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/budgetflow/internal/cli/formatter"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/repository"
	"github.com/alexanderramin/budgetflow/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"plans"},
		Short:   "Manage projects, work programmes and procurement plans",
	}

	cmd.AddCommand(
		newPlanAddCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanValidateCmd(app),
		newPlanCanCmd(app),
		newPlanHistoryCmd(app),
	)
	for _, tc := range transitionCommands {
		cmd.AddCommand(newTransitionCmd(app, tc))
	}

	return cmd
}

func parseKind(s string) (domain.EntityKind, error) {
	k := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch k {
	case "wp":
		k = string(domain.KindWorkProgramme)
	case "pp", "procurement":
		k = string(domain.KindProcurementPlan)
	}
	if !domain.ValidEntityKinds[k] {
		return "", fmt.Errorf("unknown kind %q (want project, work_programme or procurement_plan): %w", s, domain.ErrInvalidArgument)
	}
	return domain.EntityKind(k), nil
}

func newPlanAddCmd(app *App) *cobra.Command {
	var actor, kind, agency, year, title, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Open a new draft plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			actorID, err := resolveActorID(ctx, app, actor)
			if err != nil {
				return err
			}
			e, err := app.Plans.Create(ctx, service.CreatePlanRequest{
				ActorID:      actorID,
				Kind:         k,
				AgencyID:     agency,
				FiscalYearID: year,
				Title:        title,
				Description:  description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q %s\n", e.Kind, e.Title, e.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Acting actor ID")
	cmd.Flags().StringVar(&kind, "kind", "", "project, work_programme or procurement_plan")
	cmd.Flags().StringVar(&agency, "agency", "", "Owning agency ID")
	cmd.Flags().StringVar(&year, "year", "", "Fiscal year ID")
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	for _, f := range []string{"actor", "kind", "agency", "year", "title"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var year, agency, kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := repository.EntityFilter{FiscalYearID: year, AgencyID: agency}
			if kind != "" {
				k, err := parseKind(kind)
				if err != nil {
					return err
				}
				f.Kind = k
			}
			entities, err := app.Plans.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanList(entities))
			return nil
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "Only this fiscal year")
	cmd.Flags().StringVar(&agency, "agency", "", "Only this agency")
	cmd.Flags().StringVar(&kind, "kind", "", "Only this kind")

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a plan with its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.GetPlan(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(plan))
			return nil
		},
	}
}

func newPlanValidateCmd(app *App) *cobra.Command {
	var format outputFormat

	cmd := &cobra.Command{
		Use:   "validate ID",
		Short: "Check a plan for completeness and consistency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Plans.Validate(ctx, id)
			if err != nil {
				return err
			}
			return emit(cmd, app, format, res, func() string { return formatter.FormatValidation(res) })
		},
	}
	addFormatFlag(cmd, &format)

	return cmd
}

func newPlanCanCmd(app *App) *cobra.Command {
	var (
		actor  string
		format outputFormat
	)

	cmd := &cobra.Command{
		Use:   "can ID",
		Short: "Show what an actor may do to a plan right now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			actorID, err := resolveActorID(ctx, app, actor)
			if err != nil {
				return err
			}
			perms, err := app.Plans.Permissions(ctx, id, actorID)
			if err != nil {
				return err
			}
			return emit(cmd, app, format, perms, func() string {
				return formatter.FormatPermissions(perms.Decision, perms.Actions)
			})
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Actor ID")
	_ = cmd.MarkFlagRequired("actor")
	addFormatFlag(cmd, &format)

	return cmd
}

func newPlanHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Show the workflow audit trail of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			records, err := app.Workflow.History(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHistory(records))
			return nil
		},
	}
}

type transitionCmd struct {
	action domain.Action
	short  string
}

var transitionCommands = []transitionCmd{
	{domain.ActionSubmit, "Submit a draft or returned plan for approval"},
	{domain.ActionApprove, "Approve a plan at the agency or central stage"},
	{domain.ActionReview, "Start central review of an agency-approved plan"},
	{domain.ActionReturn, "Return a plan to its agency with a comment"},
	{domain.ActionLock, "Lock an approved project or procurement plan"},
	{domain.ActionComplete, "Mark an approved work programme completed"},
	{domain.ActionReopen, "Reopen a locked or completed plan"},
}

func newTransitionCmd(app *App, tc transitionCmd) *cobra.Command {
	var actor, comment string

	cmd := &cobra.Command{
		Use:   string(tc.action) + " ID",
		Short: tc.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			actorID, err := resolveActorID(ctx, app, actor)
			if err != nil {
				return err
			}
			out, err := app.Workflow.Transition(ctx, service.TransitionRequest{
				EntityID: id,
				ActorID:  actorID,
				Action:   tc.action,
				Comment:  comment,
			})
			if err != nil {
				return err
			}
			warnings := 0
			if out.Validation != nil {
				warnings = len(out.Validation.Warnings)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTransition(out.Entity, out.Record.FromStatus, warnings))
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Acting actor ID")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment recorded in the audit trail")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}
