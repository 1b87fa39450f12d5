// Package permission decides what an actor may do to a planning entity.
// Every predicate is a pure function of the actor, the entity's status and
// the entity's agency, and every predicate rejects a nil actor.
package permission

import "github.com/alexanderramin/budgetflow/internal/domain"

func statusIn(s domain.Status, set ...domain.Status) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}

func CanEdit(a *domain.Actor, status domain.Status, agencyID string) bool {
	if a == nil || status == domain.StatusLocked {
		return false
	}
	switch a.Role {
	case domain.RoleAgencyUser:
		return a.SameAgency(agencyID) && statusIn(status, domain.StatusDraft, domain.StatusReturned)
	case domain.RoleAgencyApprover:
		return a.SameAgency(agencyID) && statusIn(status, domain.StatusDraft, domain.StatusReturned, domain.StatusSubmitted)
	case domain.RoleReviewer, domain.RoleApprover:
		return statusIn(status, domain.StatusSubmitted, domain.StatusUnderReview)
	case domain.RoleAdmin:
		return true
	default:
		return false
	}
}

func CanSubmit(a *domain.Actor, status domain.Status, agencyID string) bool {
	if a == nil || !a.Role.IsAgencyRole() {
		return false
	}
	return a.SameAgency(agencyID) && statusIn(status, domain.StatusDraft, domain.StatusReturned)
}

// CanApprove does not compare agencies: an agency approver may approve any
// submitted plan, whichever agency owns it.
func CanApprove(a *domain.Actor, status domain.Status, _ string) bool {
	if a == nil {
		return false
	}
	return (a.Role == domain.RoleAgencyApprover && status == domain.StatusSubmitted) ||
		(a.Role == domain.RoleApprover && status == domain.StatusUnderReview)
}

// CanReturn, like CanApprove, ignores the owning agency.
func CanReturn(a *domain.Actor, status domain.Status, _ string) bool {
	if a == nil {
		return false
	}
	switch a.Role {
	case domain.RoleReviewer, domain.RoleApprover:
		return statusIn(status, domain.StatusSubmitted, domain.StatusUnderReview)
	case domain.RoleAgencyApprover:
		return status == domain.StatusSubmitted
	default:
		return false
	}
}

func CanLock(a *domain.Actor, status domain.Status, _ string) bool {
	if a == nil {
		return false
	}
	return a.Role == domain.RoleApprover && status == domain.StatusApprovedByCentral
}

// CanReview guards the hand-over from agency approval to central review.
func CanReview(a *domain.Actor, status domain.Status, _ string) bool {
	if a == nil {
		return false
	}
	return (a.Role == domain.RoleReviewer || a.Role == domain.RoleApprover) &&
		status == domain.StatusApprovedByAgency
}

// CanComplete guards the work programme terminal edge; it follows the lock rule.
func CanComplete(a *domain.Actor, status domain.Status, agencyID string) bool {
	return CanLock(a, status, agencyID)
}

// CanReopen lets the owning agency pull a returned plan back to draft, and
// lets only admins or approvers reopen centrally approved or finished plans.
func CanReopen(a *domain.Actor, status domain.Status, agencyID string) bool {
	if a == nil {
		return false
	}
	switch status {
	case domain.StatusReturned:
		return a.Role == domain.RoleAdmin || (a.Role.IsAgencyRole() && a.SameAgency(agencyID))
	case domain.StatusApprovedByCentral, domain.StatusInProgress, domain.StatusCompleted:
		return a.Role == domain.RoleAdmin || a.Role == domain.RoleApprover
	default:
		return false
	}
}

// Predicate is the common shape of every rule in this package.
type Predicate func(a *domain.Actor, status domain.Status, agencyID string) bool

var byAction = map[domain.Action]Predicate{
	domain.ActionSubmit:   CanSubmit,
	domain.ActionApprove:  CanApprove,
	domain.ActionReview:   CanReview,
	domain.ActionReturn:   CanReturn,
	domain.ActionLock:     CanLock,
	domain.ActionComplete: CanComplete,
	domain.ActionReopen:   CanReopen,
}

// Allowed dispatches an action to its predicate. Unknown actions are denied.
func Allowed(action domain.Action, a *domain.Actor, status domain.Status, agencyID string) bool {
	p, ok := byAction[action]
	if !ok {
		return false
	}
	return p(a, status, agencyID)
}

// Decision collects every predicate for one actor and entity.
type Decision struct {
	CanEdit     bool `json:"can_edit"`
	CanSubmit   bool `json:"can_submit"`
	CanApprove  bool `json:"can_approve"`
	CanReview   bool `json:"can_review"`
	CanReturn   bool `json:"can_return"`
	CanLock     bool `json:"can_lock"`
	CanComplete bool `json:"can_complete"`
	CanReopen   bool `json:"can_reopen"`
}

func Check(a *domain.Actor, e domain.PlanningEntity) Decision {
	return Decision{
		CanEdit:     CanEdit(a, e.Status, e.AgencyID),
		CanSubmit:   CanSubmit(a, e.Status, e.AgencyID),
		CanApprove:  CanApprove(a, e.Status, e.AgencyID),
		CanReview:   CanReview(a, e.Status, e.AgencyID),
		CanReturn:   CanReturn(a, e.Status, e.AgencyID),
		CanLock:     CanLock(a, e.Status, e.AgencyID),
		CanComplete: CanComplete(a, e.Status, e.AgencyID),
		CanReopen:   CanReopen(a, e.Status, e.AgencyID),
	}
}
