// Package reconcile compares what each agency declared across its projects,
// cashflows, work programmes and procurement plans for one fiscal year, and
// grades the gaps between them.
package reconcile

import (
	"sort"
	"time"

	"github.com/alexanderramin/budgetflow/internal/aggregate"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/shopspring/decimal"
)

// NationalID labels the rollup across every agency.
const NationalID = "NATIONAL"

var hundred = decimal.NewFromInt(100)

// Thresholds are the variance percentages a discrepancy must exceed to reach
// each severity. Comparisons are strict.
type Thresholds struct {
	Minor    decimal.Decimal
	Major    decimal.Decimal
	Critical decimal.Decimal
}

func DefaultThresholds() Thresholds {
	return ThresholdsFromPercent(5, 10, 20)
}

func ThresholdsFromPercent(minor, major, critical float64) Thresholds {
	return Thresholds{
		Minor:    decimal.NewFromFloat(minor),
		Major:    decimal.NewFromFloat(major),
		Critical: decimal.NewFromFloat(critical),
	}
}

// Totals are the four figures reconciled for one agency (or the nation).
type Totals struct {
	ProjectBudget       decimal.Decimal `json:"project_budget"`
	CashflowTotal       decimal.Decimal `json:"cashflow_total"`
	WorkProgrammeBudget decimal.Decimal `json:"work_programme_budget"`
	ProcurementValue    decimal.Decimal `json:"procurement_value"`
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		ProjectBudget:       t.ProjectBudget.Add(o.ProjectBudget),
		CashflowTotal:       t.CashflowTotal.Add(o.CashflowTotal),
		WorkProgrammeBudget: t.WorkProgrammeBudget.Add(o.WorkProgrammeBudget),
		ProcurementValue:    t.ProcurementValue.Add(o.ProcurementValue),
	}
}

func (t Totals) IsZero() bool {
	return t.ProjectBudget.IsZero() && t.CashflowTotal.IsZero() &&
		t.WorkProgrammeBudget.IsZero() && t.ProcurementValue.IsZero()
}

// PlanTotals is the contribution of a single plan to its agency's totals.
func PlanTotals(p domain.Plan) Totals {
	var t Totals
	switch p.Entity.Kind {
	case domain.KindProject:
		t.ProjectBudget = aggregate.RevisedBudgetTotal(p.BudgetLines)
		t.CashflowTotal = aggregate.CashflowTotals(p.BudgetLines).Annual
	case domain.KindWorkProgramme:
		t.WorkProgrammeBudget = aggregate.DeclaredActivityBudget(p.Activities)
	case domain.KindProcurementPlan:
		t.ProcurementValue = aggregate.DeclaredProcurementValue(p.ProcurementItems)
	}
	return t
}

// DiscrepancyReport is a derived view; it is recomputed on demand and never stored.
type DiscrepancyReport struct {
	AgencyID                   string          `json:"agency_id"`
	Totals                     Totals          `json:"totals"`
	ProjectVsCashflow          decimal.Decimal `json:"project_vs_cashflow"`
	WorkProgrammeVsProcurement decimal.Decimal `json:"work_programme_vs_procurement"`
	MaxVariance                decimal.Decimal `json:"max_variance"`
	Severity                   domain.Severity `json:"severity"`
	HasDiscrepancy             bool            `json:"has_discrepancy"`
}

type Summary struct {
	Agencies int `json:"agencies"`
	None     int `json:"none"`
	Minor    int `json:"minor"`
	Major    int `json:"major"`
	Critical int `json:"critical"`
}

func (s *Summary) count(sev domain.Severity) {
	s.Agencies++
	switch sev {
	case domain.SeverityCritical:
		s.Critical++
	case domain.SeverityMajor:
		s.Major++
	case domain.SeverityMinor:
		s.Minor++
	default:
		s.None++
	}
}

type Report struct {
	FiscalYearID string              `json:"fiscal_year_id"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Agencies     []DiscrepancyReport `json:"agencies"`
	National     DiscrepancyReport   `json:"national"`
	Summary      Summary             `json:"summary"`
}

type Input struct {
	FiscalYearID string
	Plans        []domain.Plan
}

type Engine struct {
	thresholds Thresholds
	now        func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(t Thresholds, opts ...Option) *Engine {
	e := &Engine{thresholds: t, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile makes one pass over the plans, accumulating per-agency totals,
// then classifies each agency and the national sum with Classify.
func (e *Engine) Reconcile(in Input) Report {
	byAgency := make(map[string]Totals)
	for _, p := range in.Plans {
		if p.Entity.FiscalYearID != in.FiscalYearID {
			continue
		}
		byAgency[p.Entity.AgencyID] = byAgency[p.Entity.AgencyID].Add(PlanTotals(p))
	}

	ids := make([]string, 0, len(byAgency))
	for id, t := range byAgency {
		if t.IsZero() {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	report := Report{
		FiscalYearID: in.FiscalYearID,
		GeneratedAt:  e.now(),
		Agencies:     make([]DiscrepancyReport, 0, len(ids)),
	}
	var national Totals
	for _, id := range ids {
		t := byAgency[id]
		national = national.Add(t)
		r := e.Classify(id, t)
		report.Agencies = append(report.Agencies, r)
		report.Summary.count(r.Severity)
	}
	report.National = e.Classify(NationalID, national)
	return report
}

// Classify computes both variances and the severity for one set of totals.
func (e *Engine) Classify(agencyID string, t Totals) DiscrepancyReport {
	pvc := Variance(t.CashflowTotal, t.ProjectBudget)
	wvp := Variance(t.ProcurementValue, t.WorkProgrammeBudget)
	maxVar := decimal.Max(pvc.Abs(), wvp.Abs())
	sev := e.severity(maxVar)
	return DiscrepancyReport{
		AgencyID:                   agencyID,
		Totals:                     t,
		ProjectVsCashflow:          pvc,
		WorkProgrammeVsProcurement: wvp,
		MaxVariance:                maxVar,
		Severity:                   sev,
		HasDiscrepancy:             sev != domain.SeverityNone,
	}
}

func (e *Engine) severity(v decimal.Decimal) domain.Severity {
	switch {
	case v.GreaterThan(e.thresholds.Critical):
		return domain.SeverityCritical
	case v.GreaterThan(e.thresholds.Major):
		return domain.SeverityMajor
	case v.GreaterThan(e.thresholds.Minor):
		return domain.SeverityMinor
	default:
		return domain.SeverityNone
	}
}

// Variance is (actual-base)/base as a percentage, or zero when base is not positive.
func Variance(actual, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return actual.Sub(base).Div(base).Mul(hundred)
}
