package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/permission"
	"github.com/alexanderramin/budgetflow/internal/validation"
	"github.com/google/uuid"
)

type ErrorCode string

const (
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodePermissionDenied  ErrorCode = "PERMISSION_DENIED"
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeCommentRequired   ErrorCode = "COMMENT_REQUIRED"
)

var codeSentinels = map[ErrorCode]error{
	CodeInvalidTransition: domain.ErrInvalidTransition,
	CodePermissionDenied:  domain.ErrPermissionDenied,
	CodeValidationFailed:  domain.ErrValidationFailed,
	CodeCommentRequired:   domain.ErrCommentRequired,
}

// TransitionError is a rejected transition. It unwraps to the matching
// domain sentinel so callers can branch with errors.Is.
type TransitionError struct {
	Code     ErrorCode
	EntityID string
	Action   domain.Action
	From     domain.Status
	Issues   []string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s: cannot %s %s entity %s", e.Code, e.Action, e.From, e.EntityID)
	if len(e.Issues) > 0 {
		msg += " (" + strings.Join(e.Issues, "; ") + ")"
	}
	return msg
}

func (e *TransitionError) Unwrap() error {
	return codeSentinels[e.Code]
}

// Request asks the machine to apply Action to Plan on behalf of Actor.
type Request struct {
	Plan    domain.Plan
	Action  domain.Action
	Actor   *domain.Actor
	Comment string
}

// Outcome is the updated entity and the audit entry to persist alongside it.
type Outcome struct {
	Entity     domain.PlanningEntity
	Record     domain.WorkflowAction
	Validation *validation.Result
}

// Machine validates and executes status transitions. It holds no entity
// state; every call works on the snapshot passed in.
type Machine struct {
	tables    map[domain.EntityKind]*Table
	validator *validation.Engine
	now       func() time.Time
	newID     func() string
}

type Option func(*Machine)

func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(m *Machine) { m.newID = gen }
}

func WithTables(tables map[domain.EntityKind]*Table) Option {
	return func(m *Machine) { m.tables = tables }
}

func NewMachine(v *validation.Engine, opts ...Option) *Machine {
	m := &Machine{
		tables:    DefaultTables(),
		validator: v,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Table returns the transition table for kind, or nil if the kind is unknown.
func (m *Machine) Table(kind domain.EntityKind) *Table {
	return m.tables[kind]
}

// Transition checks, in order: the edge exists, the actor is permitted, a
// submit passes validation, a commented action has a comment. On success
// it returns a new entity value and audit record; the request is untouched.
func (m *Machine) Transition(req Request) (*Outcome, error) {
	entity := req.Plan.Entity
	reject := func(code ErrorCode, issues ...string) error {
		return &TransitionError{
			Code: code, EntityID: entity.ID, Action: req.Action, From: entity.Status, Issues: issues,
		}
	}

	table := m.tables[entity.Kind]
	if table == nil {
		return nil, reject(CodeInvalidTransition, fmt.Sprintf("unknown entity kind %q", entity.Kind))
	}
	edge, ok := table.Lookup(entity.Status, req.Action)
	if !ok {
		return nil, reject(CodeInvalidTransition)
	}

	if !permission.Allowed(req.Action, req.Actor, entity.Status, entity.AgencyID) {
		return nil, reject(CodePermissionDenied)
	}

	var vres *validation.Result
	if req.Action == domain.ActionSubmit {
		r := m.validator.Validate(req.Plan)
		vres = &r
		if !r.IsValid {
			return nil, reject(CodeValidationFailed, r.Errors...)
		}
	}

	comment := strings.TrimSpace(req.Comment)
	if table.RequiresComment(req.Action) && comment == "" {
		return nil, reject(CodeCommentRequired)
	}

	now := m.now()
	updated := entity
	updated.Status = edge.To
	updated.UpdatedAt = now

	return &Outcome{
		Entity: updated,
		Record: domain.WorkflowAction{
			ID:         m.newID(),
			EntityID:   entity.ID,
			Type:       edge.Record,
			FromStatus: entity.Status,
			ToStatus:   edge.To,
			ActorID:    req.Actor.ID,
			Comment:    comment,
			CreatedAt:  now,
		},
		Validation: vres,
	}, nil
}
