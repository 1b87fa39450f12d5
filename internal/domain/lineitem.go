package domain

import (
	"github.com/shopspring/decimal"
)

// MoneyTolerance is the absolute difference below which two amounts are equal.
var MoneyTolerance = decimal.RequireFromString("0.01")

// AmountsMatch reports whether a and b differ by no more than MoneyTolerance.
func AmountsMatch(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(MoneyTolerance)
}

// BudgetLine is a Project line with its monthly cashflow (Jan..Dec).
type BudgetLine struct {
	ID             string
	EntityID       string
	ItemNumber     string `validate:"required"`
	Description    string `validate:"required"`
	OriginalBudget decimal.Decimal
	RevisedBudget  decimal.Decimal
	Cashflow       [12]decimal.Decimal
}

// QuarterFigures holds the target, actual and budget of one quarter.
type QuarterFigures struct {
	Target decimal.Decimal
	Actual decimal.Decimal
	Budget decimal.Decimal
}

// Activity is a Work Programme line.
type Activity struct {
	ID          string
	EntityID    string
	ItemNumber  string `validate:"required"`
	Description string `validate:"required"`
	Output      string
	Quarters    [4]QuarterFigures
	TotalBudget decimal.Decimal
}

// ProcurementItem is a Procurement Plan line.
type ProcurementItem struct {
	ID                    string
	EntityID              string
	ItemNumber            string `validate:"required"`
	Description           string `validate:"required"`
	Method                string
	Quarters              [4]decimal.Decimal
	AnnualBudgetYearValue decimal.Decimal
}

// QuarterTotals is a quarterly breakdown with its annual sum.
type QuarterTotals struct {
	Q1     decimal.Decimal
	Q2     decimal.Decimal
	Q3     decimal.Decimal
	Q4     decimal.Decimal
	Annual decimal.Decimal
}

// Quarters returns the four quarter values in order.
func (q QuarterTotals) Quarters() [4]decimal.Decimal {
	return [4]decimal.Decimal{q.Q1, q.Q2, q.Q3, q.Q4}
}
