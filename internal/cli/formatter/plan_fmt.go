package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/budgetflow/internal/aggregate"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/permission"
	"github.com/alexanderramin/budgetflow/internal/validation"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// FormatActorList renders registered actors.
func FormatActorList(actors []*domain.Actor) string {
	if len(actors) == 0 {
		return Dim("No actors registered.") + "\n"
	}
	headers := []string{"ID", "NAME", "ROLE", "AGENCY"}
	rows := make([][]string, 0, len(actors))
	for _, a := range actors {
		rows = append(rows, []string{TruncID(a.ID), Bold(a.Name), string(a.Role), orDash(a.AgencyID)})
	}
	return RenderBox("Actors", RenderTable(headers, rows))
}

// FormatPlanList renders planning entities as a table.
func FormatPlanList(entities []*domain.PlanningEntity) string {
	if len(entities) == 0 {
		return Dim("No plans found.") + "\n"
	}
	headers := []string{"ID", "TITLE", "KIND", "AGENCY", "YEAR", "STATUS", "UPDATED"}
	rows := make([][]string, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, []string{
			TruncID(e.ID),
			Bold(e.Title),
			KindBadge(e.Kind),
			e.AgencyID,
			e.FiscalYearID,
			StatusPill(e.Status),
			Dim(Timestamp(e.UpdatedAt)),
		})
	}
	return RenderBox("Plans", RenderTable(headers, rows))
}

// FormatPlan renders one entity with its line items and quarterly totals.
func FormatPlan(p *domain.Plan) string {
	e := p.Entity
	var b strings.Builder
	b.WriteString(Bold(e.Title) + "  " + KindBadge(e.Kind) + "\n\n")
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("STATUS "), StatusPill(e.Status))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("ID     "), e.ID)
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("AGENCY "), e.AgencyID)
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("YEAR   "), e.FiscalYearID)
	if e.Description != "" {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("ABOUT  "), e.Description)
	}
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("UPDATED"), Timestamp(e.UpdatedAt))
	if e.LinesFrozen() {
		b.WriteString("\n" + StyleDim.Render("Line items are frozen.") + "\n")
	}
	b.WriteString("\n")

	switch e.Kind {
	case domain.KindProject:
		b.WriteString(budgetLineTable(p.BudgetLines))
	case domain.KindWorkProgramme:
		b.WriteString(activityTable(p.Activities))
	case domain.KindProcurementPlan:
		b.WriteString(procurementTable(p.ProcurementItems))
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func quarterCells(q domain.QuarterTotals) []string {
	return []string{Money(q.Q1), Money(q.Q2), Money(q.Q3), Money(q.Q4), Money(q.Annual)}
}

var quarterHeaders = []string{"Q1", "Q2", "Q3", "Q4", "ANNUAL"}

func budgetLineTable(lines []domain.BudgetLine) string {
	if len(lines) == 0 {
		return Dim("No budget lines.")
	}
	headers := append([]string{"ID", "ITEM", "DESCRIPTION", "REVISED"}, quarterHeaders...)
	rows := make([][]string, 0, len(lines)+1)
	for _, l := range lines {
		row := []string{TruncID(l.ID), l.ItemNumber, l.Description, Money(l.RevisedBudget)}
		rows = append(rows, append(row, quarterCells(aggregate.BudgetLineCashflow(l))...))
	}
	total := []string{"", Bold("TOTAL"), "", Money(aggregate.RevisedBudgetTotal(lines))}
	rows = append(rows, append(total, quarterCells(aggregate.CashflowTotals(lines))...))
	return RenderTable(headers, rows, 3, 4, 5, 6, 7, 8)
}

func activityTable(activities []domain.Activity) string {
	if len(activities) == 0 {
		return Dim("No activities.")
	}
	headers := append([]string{"ID", "ITEM", "DESCRIPTION", "OUTPUT", "TOTAL"}, quarterHeaders...)
	rows := make([][]string, 0, len(activities)+1)
	for _, a := range activities {
		row := []string{TruncID(a.ID), a.ItemNumber, a.Description, orDash(a.Output), Money(a.TotalBudget)}
		rows = append(rows, append(row, quarterCells(aggregate.ActivityBudget(a))...))
	}
	total := []string{"", Bold("TOTAL"), "", "", Money(aggregate.DeclaredActivityBudget(activities))}
	rows = append(rows, append(total, quarterCells(aggregate.ActivityTotals(activities))...))
	return RenderTable(headers, rows, 4, 5, 6, 7, 8, 9)
}

func procurementTable(items []domain.ProcurementItem) string {
	if len(items) == 0 {
		return Dim("No procurement items.")
	}
	headers := append([]string{"ID", "ITEM", "DESCRIPTION", "METHOD", "VALUE"}, quarterHeaders...)
	rows := make([][]string, 0, len(items)+1)
	for _, it := range items {
		row := []string{TruncID(it.ID), it.ItemNumber, it.Description, orDash(it.Method), Money(it.AnnualBudgetYearValue)}
		rows = append(rows, append(row, quarterCells(aggregate.ProcurementValue(it))...))
	}
	total := []string{"", Bold("TOTAL"), "", "", Money(aggregate.DeclaredProcurementValue(items))}
	rows = append(rows, append(total, quarterCells(aggregate.ProcurementTotals(items))...))
	return RenderTable(headers, rows, 4, 5, 6, 7, 8, 9)
}

// FormatValidation renders every error and warning with the completeness score.
func FormatValidation(r *validation.Result) string {
	var b strings.Builder
	verdict := StyleGreen.Render("✔ valid")
	if !r.IsValid {
		verdict = StyleRed.Render("✖ invalid")
	}
	fmt.Fprintf(&b, "%s  %s\n", verdict, Score(r.CompletenessScore))
	if len(r.Errors) > 0 {
		b.WriteString("\n" + StyleRed.Render("Errors") + "\n")
		for _, msg := range r.Errors {
			b.WriteString("  " + StyleRed.Render("✖") + " " + msg + "\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n" + StyleYellow.Render("Warnings") + "\n")
		for _, msg := range r.Warnings {
			b.WriteString("  " + StyleYellow.Render("!") + " " + msg + "\n")
		}
	}
	return RenderBox("Validation", strings.TrimRight(b.String(), "\n"))
}

// FormatPermissions renders the permission grid and the actions available now.
func FormatPermissions(d permission.Decision, actions []domain.Action) string {
	mark := func(ok bool) string {
		if ok {
			return StyleGreen.Render("yes")
		}
		return Dim("no")
	}
	grid := RenderTable([]string{"PERMISSION", "ALLOWED"}, [][]string{
		{"edit", mark(d.CanEdit)},
		{"submit", mark(d.CanSubmit)},
		{"approve", mark(d.CanApprove)},
		{"review", mark(d.CanReview)},
		{"return", mark(d.CanReturn)},
		{"lock", mark(d.CanLock)},
		{"complete", mark(d.CanComplete)},
		{"reopen", mark(d.CanReopen)},
	})

	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, StyleBlue.Render(string(a)))
	}
	next := Dim("none")
	if len(names) > 0 {
		next = strings.Join(names, ", ")
	}
	return RenderBox("Permissions", lipgloss.JoinVertical(lipgloss.Left, grid, "Next: "+next))
}

// FormatHistory renders the audit trail oldest first.
func FormatHistory(records []*domain.WorkflowAction) string {
	if len(records) == 0 {
		return Dim("No workflow history.") + "\n"
	}
	headers := []string{"WHEN", "ACTION", "FROM", "TO", "ACTOR", "COMMENT"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			Dim(Timestamp(r.CreatedAt)),
			Bold(string(r.Type)),
			StatusPill(r.FromStatus),
			StatusPill(r.ToStatus),
			TruncID(r.ActorID),
			orDash(r.Comment),
		})
	}
	return RenderBox("History", RenderTable(headers, rows))
}

// FormatTransition renders the result of a successful status change.
func FormatTransition(e domain.PlanningEntity, from domain.Status, warnings int) string {
	line := fmt.Sprintf("%s  %s → %s", Bold(e.Title), StatusPill(from), StatusPill(e.Status))
	if warnings > 0 {
		line += "  " + StyleYellow.Render(fmt.Sprintf("(%d warnings)", warnings))
	}
	return line + "\n"
}

// sumLabel renders a total with its label, used by the reconciliation view.
func sumLabel(label string, v decimal.Decimal) string {
	return fmt.Sprintf("%s %s", StyleDim.Render(label), Money(v))
}
