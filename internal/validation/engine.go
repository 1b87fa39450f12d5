package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/budgetflow/internal/aggregate"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Weights are the completeness-score penalties per error and per warning.
type Weights struct {
	Error   int
	Warning int
}

func DefaultWeights() Weights {
	return Weights{Error: 20, Warning: 5}
}

// Result is the outcome of validating one plan. It is plain data so callers
// can render every issue at once.
type Result struct {
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
	CompletenessScore int      `json:"completeness_score"`
	IsValid           bool     `json:"is_valid"`
}

// Engine checks plans for completeness and internal consistency.
type Engine struct {
	weights Weights
}

func NewEngine(w Weights) *Engine {
	return &Engine{weights: w}
}

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return structValidator
}

var fieldLabels = map[string]string{
	"AgencyID":     "agency",
	"FiscalYearID": "fiscal year",
	"Title":        "title",
	"ItemNumber":   "item number",
	"Description":  "description",
}

var lineNouns = map[domain.EntityKind]string{
	domain.KindProject:         "budget line",
	domain.KindWorkProgramme:   "activity",
	domain.KindProcurementPlan: "procurement item",
}

// Validate inspects the plan and its lines. It never mutates its input.
func (e *Engine) Validate(plan domain.Plan) Result {
	var errs, warns []string

	errs = append(errs, requiredFields("", plan.Entity)...)

	noun := lineNouns[plan.Entity.Kind]
	if noun == "" {
		noun = "line item"
	}
	if plan.LineCount() == 0 {
		errs = append(errs, fmt.Sprintf("at least one %s is required", noun))
	}

	switch plan.Entity.Kind {
	case domain.KindProject:
		for i, l := range plan.BudgetLines {
			ref := lineRef(noun, i, l.ItemNumber)
			errs = append(errs, requiredFields(ref+": ", l)...)
			cashflow := aggregate.BudgetLineCashflow(l).Annual
			if !domain.AmountsMatch(cashflow, l.RevisedBudget) {
				warns = append(warns, fmt.Sprintf("%s: cashflow total %s does not match revised budget %s",
					ref, cashflow.String(), l.RevisedBudget.String()))
			}
		}
	case domain.KindWorkProgramme:
		for i, a := range plan.Activities {
			ref := lineRef(noun, i, a.ItemNumber)
			errs = append(errs, requiredFields(ref+": ", a)...)
			quarterly := aggregate.ActivityBudget(a).Annual
			if !domain.AmountsMatch(quarterly, a.TotalBudget) {
				warns = append(warns, fmt.Sprintf("%s: quarterly budgets total %s does not match total budget %s",
					ref, quarterly.String(), a.TotalBudget.String()))
			}
		}
	case domain.KindProcurementPlan:
		for i, it := range plan.ProcurementItems {
			ref := lineRef(noun, i, it.ItemNumber)
			errs = append(errs, requiredFields(ref+": ", it)...)
			quarterly := aggregate.ProcurementValue(it).Annual
			if !domain.AmountsMatch(quarterly, it.AnnualBudgetYearValue) {
				warns = append(warns, fmt.Sprintf("%s: quarterly values total %s does not match annual budget year value %s",
					ref, quarterly.String(), it.AnnualBudgetYearValue.String()))
			}
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown entity kind %q", plan.Entity.Kind))
	}

	return Result{
		Errors:            errs,
		Warnings:          warns,
		CompletenessScore: e.score(len(errs), len(warns)),
		IsValid:           len(errs) == 0,
	}
}

func (e *Engine) score(errCount, warnCount int) int {
	s := 100 - e.weights.Error*errCount - e.weights.Warning*warnCount
	return max(0, min(100, s))
}

func lineRef(noun string, idx int, itemNumber string) string {
	if itemNumber == "" {
		return fmt.Sprintf("%s #%d", noun, idx+1)
	}
	return fmt.Sprintf("%s %s", noun, itemNumber)
}

// requiredFields renders struct-tag violations as "<prefix><field> is required".
func requiredFields(prefix string, v any) []string {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{prefix + err.Error()}
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		out = append(out, fmt.Sprintf("%s%s is required", prefix, label))
	}
	return out
}

