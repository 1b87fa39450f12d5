package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/reconcile"
	"github.com/alexanderramin/budgetflow/internal/repository"
	"github.com/alexanderramin/budgetflow/internal/service"
	"github.com/alexanderramin/budgetflow/internal/testutil"
	"github.com/alexanderramin/budgetflow/internal/validation"
	"github.com/alexanderramin/budgetflow/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCast struct {
	user, head, reviewer, approver *domain.Actor
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) (*App, testCast) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	actorRepo := repository.NewSQLiteActorRepo(database)
	entityRepo := repository.NewSQLiteEntityRepo(database)
	lineRepo := repository.NewSQLiteLineItemRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	validator := validation.NewEngine(validation.DefaultWeights())
	machine := workflow.NewMachine(validator)

	app := &App{
		Actors:    service.NewActorService(actorRepo),
		Plans:     service.NewPlanService(actorRepo, entityRepo, lineRepo, validator, machine),
		Lines:     service.NewLineItemService(uow, validator),
		Workflow:  service.NewWorkflowService(entityRepo, auditRepo, uow, machine),
		Reconcile: service.NewReconciliationService(entityRepo, lineRepo, reconcile.NewEngine(reconcile.DefaultThresholds())),
	}

	c := testCast{
		user:     testutil.NewTestActor(domain.RoleAgencyUser),
		head:     testutil.NewTestActor(domain.RoleAgencyApprover),
		reviewer: testutil.NewTestActor(domain.RoleReviewer),
		approver: testutil.NewTestActor(domain.RoleApprover),
	}
	for _, a := range []*domain.Actor{c.user, c.head, c.reviewer, c.approver} {
		require.NoError(t, app.Actors.Create(context.Background(), a))
	}
	return app, c
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// addPlan creates a plan through the CLI and returns its ID.
func addPlan(t *testing.T, app *App, actor *domain.Actor, kind, year string) string {
	t.Helper()
	out, err := executeCmd(t, app, "plan", "add",
		"--actor", actor.ID, "--kind", kind, "--agency", "AG1", "--year", year, "--title", "Plan "+kind)
	require.NoError(t, err)
	id := uuidPattern.FindString(out)
	require.NotEmpty(t, id, "no id in %q", out)
	return id
}

func TestActorCmd_AddAndList(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "actor", "add", "--name", "Vera", "--role", "AGENCY_USER", "--agency", "AG7")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered Vera (agency_user)")

	out, err = executeCmd(t, app, "actor", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Vera")
	assert.Contains(t, out, "AG7")
}

func TestActorCmd_AgencyRoleNeedsAgency(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "actor", "add", "--name", "Nobody", "--role", "agency_user")
	assert.Error(t, err)
}

func TestPlanCmd_AddListShowByPrefix(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "project", "FY2025")

	out, err := executeCmd(t, app, "plan", "list", "--year", "FY2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan project")
	assert.Contains(t, out, id[:8])

	out, err = executeCmd(t, app, "plan", "show", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "No budget lines.")
}

func TestPlanCmd_UnknownKind(t *testing.T) {
	app, c := testApp(t)
	_, err := executeCmd(t, app, "plan", "add",
		"--actor", c.user.ID, "--kind", "budget", "--agency", "AG1", "--year", "FY2025", "--title", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestPlanCmd_KindAliases(t *testing.T) {
	for in, want := range map[string]domain.EntityKind{
		"wp":               domain.KindWorkProgramme,
		"work-programme":   domain.KindWorkProgramme,
		"procurement":      domain.KindProcurementPlan,
		"Procurement_Plan": domain.KindProcurementPlan,
		"project":          domain.KindProject,
	} {
		got, err := parseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestPlanCmd_SubmitBlockedListsIssues(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "project", "FY2025")

	_, err := executeCmd(t, app, "plan", "submit", id, "--actor", c.user.ID)
	require.ErrorIs(t, err, domain.ErrValidationFailed)

	msg := Describe(err)
	assert.Contains(t, msg, "cannot submit")
	assert.Contains(t, msg, "at least one budget line is required")
}

func TestPlanCmd_FullProjectLifecycle(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "project", "FY2025")

	out, err := executeCmd(t, app, "line", "add-budget",
		"--entity", id, "--actor", c.user.ID, "--item", "1.1", "--desc", "Bridges",
		"--original", "1200", "--revised", "1200", "--cashflow", "100,100,100,100,100,100,100,100,100,100,100,100")
	require.NoError(t, err)
	assert.Contains(t, out, "saved")
	assert.Contains(t, out, "100/100")

	out, err = executeCmd(t, app, "plan", "validate", id, "--format", "json")
	require.NoError(t, err)
	var res validation.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.IsValid)
	assert.Equal(t, 100, res.CompletenessScore)

	steps := []struct {
		action  string
		actor   *domain.Actor
		comment string
	}{
		{"submit", c.user, ""},
		{"approve", c.head, ""},
		{"review", c.reviewer, ""},
		{"return", c.reviewer, "split Q3"},
		{"submit", c.user, ""},
		{"approve", c.head, ""},
		{"review", c.reviewer, ""},
		{"approve", c.approver, ""},
		{"lock", c.approver, ""},
	}
	for _, s := range steps {
		args := []string{"plan", s.action, id, "--actor", s.actor.ID}
		if s.comment != "" {
			args = append(args, "--comment", s.comment)
		}
		_, err := executeCmd(t, app, args...)
		require.NoError(t, err, "%s by %s", s.action, s.actor.Role)
	}

	out, err = executeCmd(t, app, "plan", "history", id)
	require.NoError(t, err)
	assert.Contains(t, out, "split Q3")
	assert.Contains(t, out, "approve_dnpm")
	assert.Contains(t, out, "lock")

	_, err = executeCmd(t, app, "line", "add-budget", "--entity", id, "--actor", c.user.ID, "--item", "2", "--desc", "More")
	assert.ErrorIs(t, err, domain.ErrLinesFrozen)
	assert.Contains(t, Describe(err), "frozen")
}

func TestPlanCmd_ReturnNeedsComment(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "work_programme", "FY2025")
	_, err := executeCmd(t, app, "line", "add-activity",
		"--entity", id, "--actor", c.user.ID, "--item", "A1", "--desc", "Training",
		"--total", "400", "--budgets", "100,100,100,100")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "plan", "submit", id, "--actor", c.user.ID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "plan", "return", id, "--actor", c.head.ID, "--comment", "   ")
	require.ErrorIs(t, err, domain.ErrCommentRequired)
	assert.Contains(t, Describe(err), "a comment is required")
}

func TestPlanCmd_CanListsNextActions(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "procurement_plan", "FY2025")

	out, err := executeCmd(t, app, "plan", "can", id, "--actor", c.user.ID, "--format", "json")
	require.NoError(t, err)

	var perms service.Permissions
	require.NoError(t, json.Unmarshal([]byte(out), &perms))
	assert.True(t, perms.Decision.CanEdit)
	assert.True(t, perms.Decision.CanSubmit)
	assert.Equal(t, []domain.Action{domain.ActionSubmit}, perms.Actions)

	out, err = executeCmd(t, app, "plan", "can", id, "--actor", c.reviewer.ID, "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Next: none")
}

func TestLineCmd_UpdateAndRemove(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "procurement_plan", "FY2025")

	out, err := executeCmd(t, app, "line", "add-procurement",
		"--entity", id, "--actor", c.user.ID, "--item", "P1", "--desc", "Laptops",
		"--method", "RFQ", "--quarters", "50,50", "--annual", "100")
	require.NoError(t, err)
	lineID := uuidPattern.FindString(out)
	require.NotEmpty(t, lineID)

	out, err = executeCmd(t, app, "line", "update-procurement", "--id", lineID,
		"--entity", id, "--actor", c.user.ID, "--quarters", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "does not match")

	plan, err := app.Plans.GetPlan(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, plan.ProcurementItems, 1)
	p := plan.ProcurementItems[0]
	assert.True(t, p.Quarters[1].IsZero())
	assert.Equal(t, "P1", p.ItemNumber)
	assert.Equal(t, "Laptops", p.Description)
	assert.Equal(t, "RFQ", p.Method)
	assert.Equal(t, "100", p.AnnualBudgetYearValue.String())

	out, err = executeCmd(t, app, "line", "remove", lineID, "--actor", c.user.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "removed")
	assert.Contains(t, out, "at least one procurement item is required")
}

func TestLineCmd_UpdateBudgetKeepsUnsetFields(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "project", "FY2025")

	out, err := executeCmd(t, app, "line", "add-budget",
		"--entity", id, "--actor", c.user.ID, "--item", "B1", "--desc", "Roads",
		"--original", "500", "--revised", "1200",
		"--cashflow", "100,100,100,100,100,100,100,100,100,100,100,100")
	require.NoError(t, err)
	lineID := uuidPattern.FindString(out)
	require.NotEmpty(t, lineID)

	_, err = executeCmd(t, app, "line", "update-budget", "--id", lineID,
		"--entity", id, "--actor", c.user.ID, "--revised", "1300")
	require.NoError(t, err)

	plan, err := app.Plans.GetPlan(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, plan.BudgetLines, 1)
	l := plan.BudgetLines[0]
	assert.Equal(t, "B1", l.ItemNumber)
	assert.Equal(t, "Roads", l.Description)
	assert.Equal(t, "500", l.OriginalBudget.String())
	assert.Equal(t, "1300", l.RevisedBudget.String())
	for m, v := range l.Cashflow {
		assert.Equal(t, "100", v.String(), "month %d", m+1)
	}
}

func TestLineCmd_UpdateActivityKeepsOtherQuarterFigures(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "work_programme", "FY2025")

	out, err := executeCmd(t, app, "line", "add-activity",
		"--entity", id, "--actor", c.user.ID, "--item", "A1", "--desc", "Training",
		"--output", "40 staff", "--total", "400", "--targets", "10,10,10,10",
		"--budgets", "100,100,100,100")
	require.NoError(t, err)
	lineID := uuidPattern.FindString(out)
	require.NotEmpty(t, lineID)

	_, err = executeCmd(t, app, "line", "update-activity", "--id", lineID,
		"--entity", id, "--actor", c.user.ID, "--actuals", "8")
	require.NoError(t, err)

	plan, err := app.Plans.GetPlan(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, plan.Activities, 1)
	a := plan.Activities[0]
	assert.Equal(t, "40 staff", a.Output)
	assert.Equal(t, "400", a.TotalBudget.String())
	assert.Equal(t, "8", a.Quarters[0].Actual.String())
	assert.Equal(t, "10", a.Quarters[0].Target.String())
	assert.Equal(t, "100", a.Quarters[3].Budget.String())
}

func TestLineCmd_UpdateUnknownLine(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "project", "FY2025")

	_, err := executeCmd(t, app, "line", "update-budget", "--id", "missing",
		"--entity", id, "--actor", c.user.ID, "--revised", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLineCmd_RejectsBadAmounts(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "project", "FY2025")

	_, err := executeCmd(t, app, "line", "add-budget", "--entity", id, "--actor", c.user.ID,
		"--item", "1", "--desc", "x", "--revised", "12k")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = executeCmd(t, app, "line", "add-procurement", "--entity", id, "--actor", c.user.ID,
		"--item", "1", "--desc", "x", "--quarters", "1,2,3,4,5")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestParseAmounts_PadsMissingValues(t *testing.T) {
	got, err := parseAmounts("cashflow", "1_000, 2.5", 12)
	require.NoError(t, err)
	require.Len(t, got, 12)
	assert.Equal(t, "1000", got[0].String())
	assert.Equal(t, "2.5", got[1].String())
	assert.True(t, got[11].IsZero())
}

func TestReconcileCmd_JSONWhenPiped(t *testing.T) {
	app, c := testApp(t)
	id := addPlan(t, app, c.user, "project", "FY2025")
	_, err := executeCmd(t, app, "line", "add-budget", "--entity", id, "--actor", c.user.ID,
		"--item", "1", "--desc", "Roads", "--revised", "1000000", "--cashflow", "1250000")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "reconcile", "--year", "FY2025")
	require.NoError(t, err)

	var report reconcile.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Agencies, 1)
	assert.Equal(t, "AG1", report.Agencies[0].AgencyID)
	assert.Equal(t, domain.SeverityCritical, report.Agencies[0].Severity)
	assert.Equal(t, reconcile.NationalID, report.National.AgencyID)
	assert.Equal(t, 1, report.Summary.Critical)
}

func TestReconcileCmd_TableOnTerminal(t *testing.T) {
	app, _ := testApp(t)
	app.IsTTY = func() bool { return true }

	out, err := executeCmd(t, app, "reconcile", "--year", "FY2030")
	require.NoError(t, err)
	assert.Contains(t, out, "RECONCILIATION")
	assert.Contains(t, out, "NATIONAL")
}

func TestReconcileCmd_UnknownFormat(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "reconcile", "--year", "FY2025", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestResolve_AmbiguousAndMissingPrefix(t *testing.T) {
	_, err := uniquePrefix("plan", "ab", []string{"abc", "abd"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = uniquePrefix("plan", "zz", []string{"abc"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uniquePrefix("plan", "abc", []string{"abc", "abcd"})
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestDescribe_ConcurrentModify(t *testing.T) {
	msg := Describe(domain.ErrConcurrentModify)
	assert.True(t, strings.Contains(msg, "changed by someone else"))
}
