package aggregate

import (
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/shopspring/decimal"
)

// FromMonths folds twelve monthly values (Jan..Dec) into quarters.
func FromMonths(months [12]decimal.Decimal) domain.QuarterTotals {
	var q [4]decimal.Decimal
	for i, m := range months {
		q[i/3] = q[i/3].Add(m)
	}
	return FromQuarters(q)
}

// FromQuarters wraps four quarterly values and computes the annual total.
func FromQuarters(q [4]decimal.Decimal) domain.QuarterTotals {
	return domain.QuarterTotals{
		Q1:     q[0],
		Q2:     q[1],
		Q3:     q[2],
		Q4:     q[3],
		Annual: q[0].Add(q[1]).Add(q[2]).Add(q[3]),
	}
}

// Sum returns the field-wise sum of the given totals (a grand total row).
func Sum(rows ...domain.QuarterTotals) domain.QuarterTotals {
	var out domain.QuarterTotals
	for _, r := range rows {
		out.Q1 = out.Q1.Add(r.Q1)
		out.Q2 = out.Q2.Add(r.Q2)
		out.Q3 = out.Q3.Add(r.Q3)
		out.Q4 = out.Q4.Add(r.Q4)
		out.Annual = out.Annual.Add(r.Annual)
	}
	return out
}

func BudgetLineCashflow(l domain.BudgetLine) domain.QuarterTotals {
	return FromMonths(l.Cashflow)
}

func ActivityBudget(a domain.Activity) domain.QuarterTotals {
	return FromQuarters(activityField(a, func(f domain.QuarterFigures) decimal.Decimal { return f.Budget }))
}

func ActivityTargets(a domain.Activity) domain.QuarterTotals {
	return FromQuarters(activityField(a, func(f domain.QuarterFigures) decimal.Decimal { return f.Target }))
}

func ActivityActuals(a domain.Activity) domain.QuarterTotals {
	return FromQuarters(activityField(a, func(f domain.QuarterFigures) decimal.Decimal { return f.Actual }))
}

func ProcurementValue(p domain.ProcurementItem) domain.QuarterTotals {
	return FromQuarters(p.Quarters)
}

func activityField(a domain.Activity, pick func(domain.QuarterFigures) decimal.Decimal) [4]decimal.Decimal {
	var q [4]decimal.Decimal
	for i, f := range a.Quarters {
		q[i] = pick(f)
	}
	return q
}

// CashflowTotals sums the quarterly cashflow of every line.
func CashflowTotals(lines []domain.BudgetLine) domain.QuarterTotals {
	rows := make([]domain.QuarterTotals, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, BudgetLineCashflow(l))
	}
	return Sum(rows...)
}

// ActivityTotals sums the quarterly budgets of every activity.
func ActivityTotals(activities []domain.Activity) domain.QuarterTotals {
	rows := make([]domain.QuarterTotals, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, ActivityBudget(a))
	}
	return Sum(rows...)
}

// ProcurementTotals sums the quarterly values of every procurement item.
func ProcurementTotals(items []domain.ProcurementItem) domain.QuarterTotals {
	rows := make([]domain.QuarterTotals, 0, len(items))
	for _, it := range items {
		rows = append(rows, ProcurementValue(it))
	}
	return Sum(rows...)
}

func RevisedBudgetTotal(lines []domain.BudgetLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.RevisedBudget)
	}
	return total
}

func OriginalBudgetTotal(lines []domain.BudgetLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.OriginalBudget)
	}
	return total
}

// DeclaredActivityBudget sums the declared TotalBudget of each activity.
func DeclaredActivityBudget(activities []domain.Activity) decimal.Decimal {
	total := decimal.Zero
	for _, a := range activities {
		total = total.Add(a.TotalBudget)
	}
	return total
}

// DeclaredProcurementValue sums the declared AnnualBudgetYearValue of each item.
func DeclaredProcurementValue(items []domain.ProcurementItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.AnnualBudgetYearValue)
	}
	return total
}
