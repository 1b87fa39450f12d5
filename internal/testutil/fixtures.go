package testutil

import (
	"time"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Actor options
type ActorOption func(*domain.Actor)

func WithAgency(agencyID string) ActorOption {
	return func(a *domain.Actor) {
		a.AgencyID = agencyID
	}
}

func WithActorName(name string) ActorOption {
	return func(a *domain.Actor) {
		a.Name = name
	}
}

// NewTestActor builds an actor; agency roles default to agency AG1.
func NewTestActor(role domain.Role, opts ...ActorOption) *domain.Actor {
	a := &domain.Actor{
		ID:   uuid.New().String(),
		Name: string(role),
		Role: role,
	}
	if role.IsAgencyRole() {
		a.AgencyID = "AG1"
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Entity options
type EntityOption func(*domain.PlanningEntity)

func WithEntityAgency(agencyID string) EntityOption {
	return func(e *domain.PlanningEntity) {
		e.AgencyID = agencyID
	}
}

func WithFiscalYear(fy string) EntityOption {
	return func(e *domain.PlanningEntity) {
		e.FiscalYearID = fy
	}
}

func WithStatus(s domain.Status) EntityOption {
	return func(e *domain.PlanningEntity) {
		e.Status = s
	}
}

func WithTitle(title string) EntityOption {
	return func(e *domain.PlanningEntity) {
		e.Title = title
	}
}

func WithCreatedBy(actorID string) EntityOption {
	return func(e *domain.PlanningEntity) {
		e.CreatedBy = actorID
	}
}

// NewTestEntity builds a draft entity of kind for AG1 in FY2025.
func NewTestEntity(kind domain.EntityKind, opts ...EntityOption) *domain.PlanningEntity {
	now := time.Now().UTC()
	e := &domain.PlanningEntity{
		ID:           uuid.New().String(),
		Kind:         kind,
		AgencyID:     "AG1",
		FiscalYearID: "FY2025",
		Title:        "Test " + string(kind),
		Status:       domain.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTestBudgetLine spreads revised evenly over the first months so the
// cashflow matches the revised budget.
func NewTestBudgetLine(entityID, itemNumber string, revised int64, months int) *domain.BudgetLine {
	l := &domain.BudgetLine{
		ID:             uuid.New().String(),
		EntityID:       entityID,
		ItemNumber:     itemNumber,
		Description:    "Line " + itemNumber,
		OriginalBudget: decimal.NewFromInt(revised),
		RevisedBudget:  decimal.NewFromInt(revised),
	}
	if months > 0 {
		per := decimal.NewFromInt(revised).Div(decimal.NewFromInt(int64(months)))
		for i := 0; i < months && i < 12; i++ {
			l.Cashflow[i] = per
		}
	}
	return l
}

// NewTestActivity puts the whole budget in Q1.
func NewTestActivity(entityID, itemNumber string, total int64) *domain.Activity {
	a := &domain.Activity{
		ID:          uuid.New().String(),
		EntityID:    entityID,
		ItemNumber:  itemNumber,
		Description: "Activity " + itemNumber,
		Output:      "Output " + itemNumber,
		TotalBudget: decimal.NewFromInt(total),
	}
	a.Quarters[0] = domain.QuarterFigures{Target: decimal.NewFromInt(1), Budget: decimal.NewFromInt(total)}
	return a
}

// NewTestProcurementItem splits value across Q1 and Q2.
func NewTestProcurementItem(entityID, itemNumber string, value int64) *domain.ProcurementItem {
	half := decimal.NewFromInt(value).Div(decimal.NewFromInt(2))
	return &domain.ProcurementItem{
		ID:                    uuid.New().String(),
		EntityID:              entityID,
		ItemNumber:            itemNumber,
		Description:           "Item " + itemNumber,
		Method:                "open tender",
		Quarters:              [4]decimal.Decimal{half, half},
		AnnualBudgetYearValue: decimal.NewFromInt(value),
	}
}
