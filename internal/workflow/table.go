package workflow

import "github.com/alexanderramin/budgetflow/internal/domain"

type edgeKey struct {
	From   domain.Status
	Action domain.Action
}

// Edge is the target of one transition and the type recorded on its audit entry.
type Edge struct {
	To     domain.Status
	Record domain.ActionType
}

// Table is the transition graph of one entity kind.
type Table struct {
	Kind            domain.EntityKind
	edges           map[edgeKey]Edge
	commentRequired map[domain.Action]bool
}

// Lookup returns the edge for (from, action), if any.
func (t *Table) Lookup(from domain.Status, action domain.Action) (Edge, bool) {
	e, ok := t.edges[edgeKey{From: from, Action: action}]
	return e, ok
}

func (t *Table) RequiresComment(action domain.Action) bool {
	return t.commentRequired[action]
}

// ActionsFrom lists the actions that have an edge out of status, in AllActions order.
func (t *Table) ActionsFrom(from domain.Status) []domain.Action {
	var out []domain.Action
	for _, a := range domain.AllActions {
		if _, ok := t.edges[edgeKey{From: from, Action: a}]; ok {
			out = append(out, a)
		}
	}
	return out
}

// labels names the variant-specific parts of the shared approval shape.
type labels struct {
	terminal       domain.Status
	terminalAction domain.Action
	terminalRecord domain.ActionType
	submitRecord   domain.ActionType
	agencyApproval domain.ActionType
	centralApprove domain.ActionType
	terminalReopen domain.Status
}

func buildTable(kind domain.EntityKind, l labels) *Table {
	s := func(from domain.Status, a domain.Action, to domain.Status, rec domain.ActionType) (edgeKey, Edge) {
		return edgeKey{From: from, Action: a}, Edge{To: to, Record: rec}
	}
	edges := make(map[edgeKey]Edge)
	add := func(k edgeKey, e Edge) { edges[k] = e }

	add(s(domain.StatusDraft, domain.ActionSubmit, domain.StatusSubmitted, l.submitRecord))
	add(s(domain.StatusReturned, domain.ActionSubmit, domain.StatusSubmitted, l.submitRecord))
	add(s(domain.StatusSubmitted, domain.ActionApprove, domain.StatusApprovedByAgency, l.agencyApproval))
	add(s(domain.StatusApprovedByAgency, domain.ActionReview, domain.StatusUnderReview, domain.ActionTypeStartReview))
	add(s(domain.StatusUnderReview, domain.ActionApprove, domain.StatusApprovedByCentral, l.centralApprove))
	add(s(domain.StatusApprovedByCentral, l.terminalAction, l.terminal, l.terminalRecord))
	add(s(domain.StatusSubmitted, domain.ActionReturn, domain.StatusReturned, domain.ActionTypeReturn))
	add(s(domain.StatusUnderReview, domain.ActionReturn, domain.StatusReturned, domain.ActionTypeReturn))
	add(s(domain.StatusReturned, domain.ActionReopen, domain.StatusDraft, domain.ActionTypeReopen))
	add(s(domain.StatusApprovedByCentral, domain.ActionReopen, domain.StatusInProgress, domain.ActionTypeReopen))
	add(s(domain.StatusInProgress, domain.ActionReopen, domain.StatusDraft, domain.ActionTypeReopen))
	if l.terminalReopen != "" {
		add(s(l.terminal, domain.ActionReopen, l.terminalReopen, domain.ActionTypeReopen))
	}

	return &Table{
		Kind:            kind,
		edges:           edges,
		commentRequired: map[domain.Action]bool{domain.ActionReturn: true},
	}
}

// ProjectTable drives Projects: draft through central approval to locked.
func ProjectTable() *Table {
	return buildTable(domain.KindProject, labels{
		terminal:       domain.StatusLocked,
		terminalAction: domain.ActionLock,
		terminalRecord: domain.ActionTypeLock,
		submitRecord:   domain.ActionTypeSubmit,
		agencyApproval: domain.ActionTypeApproveAgency,
		centralApprove: domain.ActionTypeApproveDNPM,
	})
}

// ProcurementPlanTable has the Project shape and labels.
func ProcurementPlanTable() *Table {
	t := ProjectTable()
	t.Kind = domain.KindProcurementPlan
	return t
}

// WorkProgrammeTable ends in completed rather than locked, records its own
// submit/approve types, and allows a completed programme to be reopened.
func WorkProgrammeTable() *Table {
	return buildTable(domain.KindWorkProgramme, labels{
		terminal:       domain.StatusCompleted,
		terminalAction: domain.ActionComplete,
		terminalRecord: domain.ActionTypeComplete,
		submitRecord:   domain.ActionTypeWorkplanSubmit,
		agencyApproval: domain.ActionTypeWorkplanApprove,
		centralApprove: domain.ActionTypeWorkplanApprove,
		terminalReopen: domain.StatusInProgress,
	})
}

// DefaultTables returns the tables of all three entity kinds.
func DefaultTables() map[domain.EntityKind]*Table {
	return map[domain.EntityKind]*Table{
		domain.KindProject:         ProjectTable(),
		domain.KindWorkProgramme:   WorkProgrammeTable(),
		domain.KindProcurementPlan: ProcurementPlanTable(),
	}
}
