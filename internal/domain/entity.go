package domain

import (
	"fmt"
	"time"
)

// PlanningEntity is an agency's plan for one fiscal year. Project, WorkProgramme
// and ProcurementPlan share this shape and differ only in Kind and line type.
type PlanningEntity struct {
	ID           string
	Kind         EntityKind
	AgencyID     string `validate:"required"`
	FiscalYearID string `validate:"required"`
	Title        string `validate:"required"`
	Description  string
	Status       Status
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateStatus checks that Status belongs to the kind's declared set.
func (e *PlanningEntity) ValidateStatus() error {
	if !ValidEntityKinds[string(e.Kind)] {
		return fmt.Errorf("unknown entity kind %q", e.Kind)
	}
	if !IsValidStatus(e.Kind, e.Status) {
		return fmt.Errorf("status %q is not valid for %s", e.Status, e.Kind)
	}
	return nil
}

// LinesFrozen reports whether line items may no longer be created, edited or removed.
func (e *PlanningEntity) LinesFrozen() bool {
	return IsTerminal(e.Status)
}

// Plan bundles an entity with its line items. Only the slice matching the
// entity's Kind is expected to be populated.
type Plan struct {
	Entity           PlanningEntity
	BudgetLines      []BudgetLine
	Activities       []Activity
	ProcurementItems []ProcurementItem
}

// LineCount returns the number of line items of the entity's kind.
func (p *Plan) LineCount() int {
	switch p.Entity.Kind {
	case KindProject:
		return len(p.BudgetLines)
	case KindWorkProgramme:
		return len(p.Activities)
	case KindProcurementPlan:
		return len(p.ProcurementItems)
	default:
		return 0
	}
}

// Actor is an authenticated user. AgencyID is empty for central-office roles.
type Actor struct {
	ID       string
	Name     string
	Role     Role
	AgencyID string
}

// SameAgency reports whether the actor belongs to the given agency.
func (a *Actor) SameAgency(agencyID string) bool {
	return a.AgencyID != "" && a.AgencyID == agencyID
}

// WorkflowAction is an append-only audit entry, one per successful transition.
type WorkflowAction struct {
	ID         string
	EntityID   string
	Type       ActionType
	FromStatus Status
	ToStatus   Status
	ActorID    string
	Comment    string
	CreatedAt  time.Time
}
