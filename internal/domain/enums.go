package domain

type EntityKind string

const (
	KindProject         EntityKind = "project"
	KindWorkProgramme   EntityKind = "work_programme"
	KindProcurementPlan EntityKind = "procurement_plan"
)

// ValidEntityKinds is the canonical set of accepted entity kind strings.
var ValidEntityKinds = map[string]bool{
	"project": true, "work_programme": true, "procurement_plan": true,
}

type Status string

const (
	StatusDraft             Status = "draft"
	StatusSubmitted         Status = "submitted"
	StatusApprovedByAgency  Status = "approved_by_agency"
	StatusUnderReview       Status = "under_review"
	StatusApprovedByCentral Status = "approved_by_central"
	StatusReturned          Status = "returned"
	StatusInProgress        Status = "in_progress"
	StatusLocked            Status = "locked"
	StatusCompleted         Status = "completed"
)

var kindStatuses = map[EntityKind][]Status{
	KindProject: {
		StatusDraft, StatusSubmitted, StatusApprovedByAgency, StatusUnderReview,
		StatusApprovedByCentral, StatusReturned, StatusInProgress, StatusLocked,
	},
	KindWorkProgramme: {
		StatusDraft, StatusSubmitted, StatusApprovedByAgency, StatusUnderReview,
		StatusApprovedByCentral, StatusReturned, StatusInProgress, StatusCompleted,
	},
	KindProcurementPlan: {
		StatusDraft, StatusSubmitted, StatusApprovedByAgency, StatusUnderReview,
		StatusApprovedByCentral, StatusReturned, StatusInProgress, StatusLocked,
	},
}

// StatusesFor returns the declared status set of an entity kind.
func StatusesFor(kind EntityKind) []Status {
	return kindStatuses[kind]
}

// IsValidStatus reports whether s belongs to the declared status set of kind.
func IsValidStatus(kind EntityKind, s Status) bool {
	for _, st := range kindStatuses[kind] {
		if st == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether line items under an entity in status s are frozen.
func IsTerminal(s Status) bool {
	return s == StatusLocked || s == StatusCompleted
}

type Role string

const (
	RoleAgencyUser     Role = "agency_user"
	RoleAgencyApprover Role = "agency_approver"
	RoleReviewer       Role = "reviewer"
	RoleApprover       Role = "approver"
	RoleAdmin          Role = "admin"
)

// AllRoles lists every role in a stable order.
var AllRoles = []Role{RoleAgencyUser, RoleAgencyApprover, RoleReviewer, RoleApprover, RoleAdmin}

// IsAgencyRole reports whether the role belongs to an agency rather than the central office.
func (r Role) IsAgencyRole() bool {
	return r == RoleAgencyUser || r == RoleAgencyApprover
}

// Action is a transition requested by an actor.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReview   Action = "review"
	ActionReturn   Action = "return"
	ActionLock     Action = "lock"
	ActionComplete Action = "complete"
	ActionReopen   Action = "reopen"
)

// AllActions lists every requestable action in a stable order.
var AllActions = []Action{
	ActionSubmit, ActionApprove, ActionReview, ActionReturn,
	ActionLock, ActionComplete, ActionReopen,
}

// ActionType is the kind recorded on an audit entry. Approvals are recorded
// by stage, and work programmes record their own submit/approve types.
type ActionType string

const (
	ActionTypeSubmit          ActionType = "submit"
	ActionTypeReturn          ActionType = "return"
	ActionTypeApproveAgency   ActionType = "approve_agency"
	ActionTypeApproveDNPM     ActionType = "approve_dnpm"
	ActionTypeStartReview     ActionType = "start_review"
	ActionTypeLock            ActionType = "lock"
	ActionTypeComplete        ActionType = "complete"
	ActionTypeReopen          ActionType = "reopen"
	ActionTypeWorkplanSubmit  ActionType = "workplan_submit"
	ActionTypeWorkplanApprove ActionType = "workplan_approve"
)

type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// SeverityRank orders severities from least to most serious.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityMinor:
		return 1
	case SeverityMajor:
		return 2
	case SeverityCritical:
		return 3
	default:
		return 0
	}
}
