package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/budgetflow/internal/cli/formatter"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newLineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "line",
		Aliases: []string{"lines"},
		Short:   "Edit budget lines, activities and procurement items",
	}

	cmd.AddCommand(
		newBudgetLineCmd(app, false),
		newBudgetLineCmd(app, true),
		newActivityCmd(app, false),
		newActivityCmd(app, true),
		newProcurementCmd(app, false),
		newProcurementCmd(app, true),
		newLineRemoveCmd(app),
	)

	return cmd
}

// lineFlags are shared by every add/update command.
type lineFlags struct {
	id, entity, actor, item, desc string
}

func (f *lineFlags) register(cmd *cobra.Command, update bool) {
	if update {
		cmd.Flags().StringVar(&f.id, "id", "", "Line item ID")
		_ = cmd.MarkFlagRequired("id")
	}
	cmd.Flags().StringVar(&f.entity, "entity", "", "Owning plan ID")
	cmd.Flags().StringVar(&f.actor, "actor", "", "Acting actor ID")
	cmd.Flags().StringVar(&f.item, "item", "", "Item number")
	cmd.Flags().StringVar(&f.desc, "desc", "", "Description")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("actor")
}

// changed reports whether an update should overwrite the field behind
// flag. Adds take every flag, defaults included.
func changed(cmd *cobra.Command, update bool, flag string) bool {
	return !update || cmd.Flags().Changed(flag)
}

func (f *lineFlags) apply(cmd *cobra.Command, update bool, item, desc *string) {
	if changed(cmd, update, "item") {
		*item = f.item
	}
	if changed(cmd, update, "desc") {
		*desc = f.desc
	}
}

// findLine returns a copy of the line with the given ID from the plan's
// lines of one kind.
func findLine[T any](lines []T, id, entityID string, idOf func(*T) string) (*T, error) {
	for i := range lines {
		if idOf(&lines[i]) == id {
			l := lines[i]
			return &l, nil
		}
	}
	return nil, fmt.Errorf("line %s in plan %s: %w", id, entityID, domain.ErrNotFound)
}

func (f *lineFlags) resolve(ctx context.Context, app *App) (entityID, actorID string, err error) {
	if entityID, err = resolvePlanID(ctx, app, f.entity); err != nil {
		return "", "", err
	}
	if actorID, err = resolveActorID(ctx, app, f.actor); err != nil {
		return "", "", err
	}
	return entityID, actorID, nil
}

func verb(update bool) string {
	if update {
		return "update"
	}
	return "add"
}

func newBudgetLineCmd(app *App, update bool) *cobra.Command {
	var (
		lf                lineFlags
		original, revised string
		cashflow          string
	)

	cmd := &cobra.Command{
		Use:   verb(update) + "-budget",
		Short: "Write a project budget line with its monthly cashflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entityID, actorID, err := lf.resolve(ctx, app)
			if err != nil {
				return err
			}
			l := &domain.BudgetLine{EntityID: entityID}
			if update {
				plan, err := app.Plans.GetPlan(ctx, entityID)
				if err != nil {
					return err
				}
				if l, err = findLine(plan.BudgetLines, lf.id, entityID, func(b *domain.BudgetLine) string { return b.ID }); err != nil {
					return err
				}
			}
			lf.apply(cmd, update, &l.ItemNumber, &l.Description)
			if changed(cmd, update, "original") {
				if l.OriginalBudget, err = parseAmount("original", original); err != nil {
					return err
				}
			}
			if changed(cmd, update, "revised") {
				if l.RevisedBudget, err = parseAmount("revised", revised); err != nil {
					return err
				}
			}
			if changed(cmd, update, "cashflow") {
				months, err := parseAmounts("cashflow", cashflow, 12)
				if err != nil {
					return err
				}
				copy(l.Cashflow[:], months)
			}

			var res *validation.Result
			if update {
				res, err = app.Lines.UpdateBudgetLine(ctx, actorID, l)
			} else {
				res, err = app.Lines.AddBudgetLine(ctx, actorID, l)
			}
			return reportLine(cmd, "saved", l.ID, res, err)
		},
	}

	lf.register(cmd, update)
	cmd.Flags().StringVar(&original, "original", "0", "Original budget")
	cmd.Flags().StringVar(&revised, "revised", "0", "Revised budget")
	cmd.Flags().StringVar(&cashflow, "cashflow", "", "Up to 12 comma-separated monthly amounts, January first")

	return cmd
}

func newActivityCmd(app *App, update bool) *cobra.Command {
	var (
		lf                        lineFlags
		output, total             string
		targets, actuals, budgets string
	)

	cmd := &cobra.Command{
		Use:   verb(update) + "-activity",
		Short: "Write a work programme activity with quarterly figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entityID, actorID, err := lf.resolve(ctx, app)
			if err != nil {
				return err
			}
			a := &domain.Activity{EntityID: entityID}
			if update {
				plan, err := app.Plans.GetPlan(ctx, entityID)
				if err != nil {
					return err
				}
				if a, err = findLine(plan.Activities, lf.id, entityID, func(v *domain.Activity) string { return v.ID }); err != nil {
					return err
				}
			}
			lf.apply(cmd, update, &a.ItemNumber, &a.Description)
			if changed(cmd, update, "output") {
				a.Output = output
			}
			if changed(cmd, update, "total") {
				if a.TotalBudget, err = parseAmount("total", total); err != nil {
					return err
				}
			}
			if changed(cmd, update, "targets") {
				t, err := parseAmounts("targets", targets, 4)
				if err != nil {
					return err
				}
				for q := range a.Quarters {
					a.Quarters[q].Target = t[q]
				}
			}
			if changed(cmd, update, "actuals") {
				ac, err := parseAmounts("actuals", actuals, 4)
				if err != nil {
					return err
				}
				for q := range a.Quarters {
					a.Quarters[q].Actual = ac[q]
				}
			}
			if changed(cmd, update, "budgets") {
				b, err := parseAmounts("budgets", budgets, 4)
				if err != nil {
					return err
				}
				for q := range a.Quarters {
					a.Quarters[q].Budget = b[q]
				}
			}

			var res *validation.Result
			if update {
				res, err = app.Lines.UpdateActivity(ctx, actorID, a)
			} else {
				res, err = app.Lines.AddActivity(ctx, actorID, a)
			}
			return reportLine(cmd, "saved", a.ID, res, err)
		},
	}

	lf.register(cmd, update)
	cmd.Flags().StringVar(&output, "output", "", "Expected output")
	cmd.Flags().StringVar(&total, "total", "0", "Declared total budget")
	cmd.Flags().StringVar(&targets, "targets", "", "Up to 4 comma-separated quarterly targets")
	cmd.Flags().StringVar(&actuals, "actuals", "", "Up to 4 comma-separated quarterly actuals")
	cmd.Flags().StringVar(&budgets, "budgets", "", "Up to 4 comma-separated quarterly budgets")

	return cmd
}

func newProcurementCmd(app *App, update bool) *cobra.Command {
	var (
		lf                       lineFlags
		method, quarters, annual string
	)

	cmd := &cobra.Command{
		Use:   verb(update) + "-procurement",
		Short: "Write a procurement plan item with its quarterly values",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entityID, actorID, err := lf.resolve(ctx, app)
			if err != nil {
				return err
			}
			p := &domain.ProcurementItem{EntityID: entityID}
			if update {
				plan, err := app.Plans.GetPlan(ctx, entityID)
				if err != nil {
					return err
				}
				if p, err = findLine(plan.ProcurementItems, lf.id, entityID, func(v *domain.ProcurementItem) string { return v.ID }); err != nil {
					return err
				}
			}
			lf.apply(cmd, update, &p.ItemNumber, &p.Description)
			if changed(cmd, update, "method") {
				p.Method = method
			}
			if changed(cmd, update, "annual") {
				if p.AnnualBudgetYearValue, err = parseAmount("annual", annual); err != nil {
					return err
				}
			}
			if changed(cmd, update, "quarters") {
				q, err := parseAmounts("quarters", quarters, 4)
				if err != nil {
					return err
				}
				copy(p.Quarters[:], q)
			}

			var res *validation.Result
			if update {
				res, err = app.Lines.UpdateProcurementItem(ctx, actorID, p)
			} else {
				res, err = app.Lines.AddProcurementItem(ctx, actorID, p)
			}
			return reportLine(cmd, "saved", p.ID, res, err)
		},
	}

	lf.register(cmd, update)
	cmd.Flags().StringVar(&method, "method", "", "Procurement method")
	cmd.Flags().StringVar(&quarters, "quarters", "", "Up to 4 comma-separated quarterly values")
	cmd.Flags().StringVar(&annual, "annual", "0", "Declared annual budget-year value")

	return cmd
}

func newLineRemoveCmd(app *App) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "remove LINE-ID",
		Short: "Delete a line item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actorID, err := resolveActorID(ctx, app, actor)
			if err != nil {
				return err
			}
			res, err := app.Lines.Remove(ctx, actorID, args[0])
			return reportLine(cmd, "removed", args[0], res, err)
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Acting actor ID")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

// reportLine prints the line ID and the plan's validation after the change.
func reportLine(cmd *cobra.Command, done, lineID string, res *validation.Result, err error) error {
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Line %s %s\n", lineID, done)
	if res != nil {
		fmt.Fprintln(out, formatter.FormatValidation(res))
	}
	return nil
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, "_", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s amount %q: %w", name, s, domain.ErrInvalidArgument)
	}
	return d, nil
}

// parseAmounts reads up to n comma-separated amounts; missing trailing
// values are zero.
func parseAmounts(name, s string, n int) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, n)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > n {
		return nil, fmt.Errorf("%s takes at most %d values, got %d: %w", name, n, len(parts), domain.ErrInvalidArgument)
	}
	for i, p := range parts {
		d, err := parseAmount(name, p)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
