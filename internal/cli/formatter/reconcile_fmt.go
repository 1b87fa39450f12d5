package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/budgetflow/internal/reconcile"
)

// FormatReconcileReport renders one row per agency, the national rollup and
// a severity summary.
func FormatReconcileReport(r *reconcile.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", Bold("Fiscal year "+r.FiscalYearID), Dim("generated "+Timestamp(r.GeneratedAt)))

	headers := []string{"AGENCY", "PROJECT", "CASHFLOW", "P/C", "WORKPLAN", "PROCUREMENT", "W/P", "SEVERITY"}
	rows := make([][]string, 0, len(r.Agencies)+1)
	for _, a := range r.Agencies {
		rows = append(rows, discrepancyRow(a.AgencyID, a))
	}
	rows = append(rows, discrepancyRow(Bold(r.National.AgencyID), r.National))

	if len(r.Agencies) == 0 {
		b.WriteString(Dim("No agency submitted figures for this year.") + "\n\n")
	}
	b.WriteString(RenderTable(headers, rows, 1, 2, 3, 4, 5, 6))
	b.WriteString("\n")

	s := r.Summary
	fmt.Fprintf(&b, "%d agencies  %s %d  %s %d  %s %d  %s %d\n",
		s.Agencies,
		SeverityIndicator("none"), s.None,
		SeverityIndicator("minor"), s.Minor,
		SeverityIndicator("major"), s.Major,
		SeverityIndicator("critical"), s.Critical,
	)
	t := r.National.Totals
	b.WriteString(sumLabel("national project budget", t.ProjectBudget) + "  " +
		sumLabel("cashflow", t.CashflowTotal) + "\n")
	b.WriteString(sumLabel("national work programme", t.WorkProgrammeBudget) + "  " +
		sumLabel("procurement", t.ProcurementValue))

	return RenderBox("Reconciliation", b.String())
}

func discrepancyRow(label string, d reconcile.DiscrepancyReport) []string {
	style := SeverityColor(d.Severity)
	return []string{
		label,
		Money(d.Totals.ProjectBudget),
		Money(d.Totals.CashflowTotal),
		style.Render(Percent(d.ProjectVsCashflow)),
		Money(d.Totals.WorkProgrammeBudget),
		Money(d.Totals.ProcurementValue),
		style.Render(Percent(d.WorkProgrammeVsProcurement)),
		SeverityIndicator(d.Severity),
	}
}
