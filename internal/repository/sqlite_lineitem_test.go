package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEntity(t *testing.T, database *sql.DB, kind domain.EntityKind, opts ...testutil.EntityOption) *domain.PlanningEntity {
	t.Helper()
	e := testutil.NewTestEntity(kind, opts...)
	require.NoError(t, NewSQLiteEntityRepo(database).Create(context.Background(), e))
	return e
}

func TestLineItemRepo_BudgetLineRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(database)
	ctx := context.Background()
	e := seedEntity(t, database, domain.KindProject)

	l := testutil.NewTestBudgetLine(e.ID, "1.1", 100000, 10)
	l.OriginalBudget = testutil.Dec("98000.50")
	l.Cashflow[11] = testutil.Dec("0.33")
	require.NoError(t, repo.CreateBudgetLine(ctx, l))

	lines, err := repo.ListByEntity(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, lines.BudgetLines, 1)
	got := lines.BudgetLines[0]
	assert.Equal(t, "1.1", got.ItemNumber)
	assert.True(t, got.OriginalBudget.Equal(testutil.Dec("98000.50")))
	assert.True(t, got.RevisedBudget.Equal(testutil.Dec("100000")))
	for i := 0; i < 10; i++ {
		assert.True(t, got.Cashflow[i].Equal(testutil.Dec("10000")), "month %d", i+1)
	}
	assert.True(t, got.Cashflow[11].Equal(testutil.Dec("0.33")))
	assert.Empty(t, lines.Activities)
}

func TestLineItemRepo_ActivityAndProcurementRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(database)
	ctx := context.Background()
	wp := seedEntity(t, database, domain.KindWorkProgramme)
	pp := seedEntity(t, database, domain.KindProcurementPlan)

	a := testutil.NewTestActivity(wp.ID, "A1", 5000)
	a.Quarters[2].Actual = testutil.Dec("12.5")
	require.NoError(t, repo.CreateActivity(ctx, a))
	p := testutil.NewTestProcurementItem(pp.ID, "P1", 9000)
	require.NoError(t, repo.CreateProcurementItem(ctx, p))

	byEntity, err := repo.ListByEntities(ctx, []string{wp.ID, pp.ID})
	require.NoError(t, err)

	require.Len(t, byEntity[wp.ID].Activities, 1)
	gotA := byEntity[wp.ID].Activities[0]
	assert.Equal(t, "Output A1", gotA.Output)
	assert.True(t, gotA.Quarters[0].Budget.Equal(testutil.Dec("5000")))
	assert.True(t, gotA.Quarters[2].Actual.Equal(testutil.Dec("12.5")))
	assert.True(t, gotA.TotalBudget.Equal(testutil.Dec("5000")))

	require.Len(t, byEntity[pp.ID].ProcurementItems, 1)
	gotP := byEntity[pp.ID].ProcurementItems[0]
	assert.Equal(t, "open tender", gotP.Method)
	assert.True(t, gotP.Quarters[1].Equal(testutil.Dec("4500")))
	assert.True(t, gotP.AnnualBudgetYearValue.Equal(testutil.Dec("9000")))
}

func TestLineItemRepo_PreservesInsertionOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(database)
	ctx := context.Background()
	e := seedEntity(t, database, domain.KindProject)

	for _, n := range []string{"3", "1", "2"} {
		require.NoError(t, repo.CreateBudgetLine(ctx, testutil.NewTestBudgetLine(e.ID, n, 10, 1)))
	}

	lines, err := repo.ListByEntity(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, lines.BudgetLines, 3)
	assert.Equal(t, "3", lines.BudgetLines[0].ItemNumber)
	assert.Equal(t, "2", lines.BudgetLines[2].ItemNumber)
}

func TestLineItemRepo_UpdateAndDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(database)
	ctx := context.Background()
	e := seedEntity(t, database, domain.KindProject)

	l := testutil.NewTestBudgetLine(e.ID, "1", 100, 1)
	require.NoError(t, repo.CreateBudgetLine(ctx, l))

	l.RevisedBudget = testutil.Dec("250")
	require.NoError(t, repo.UpdateBudgetLine(ctx, l))

	lines, err := repo.ListByEntity(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, lines.BudgetLines[0].RevisedBudget.Equal(testutil.Dec("250")))

	ref, err := repo.Locate(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, LineRef{ID: l.ID, EntityID: e.ID, Kind: domain.KindProject}, *ref)

	require.NoError(t, repo.Delete(ctx, *ref))
	lines, err = repo.ListByEntity(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, lines.BudgetLines)

	assert.ErrorIs(t, repo.Delete(ctx, *ref), domain.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateBudgetLine(ctx, l), domain.ErrNotFound)
	_, err = repo.Locate(ctx, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLineItemRepo_DeleteRequiresOwningEntity(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(database)
	ctx := context.Background()
	e := seedEntity(t, database, domain.KindProcurementPlan)

	p := testutil.NewTestProcurementItem(e.ID, "1", 10)
	require.NoError(t, repo.CreateProcurementItem(ctx, p))

	err := repo.Delete(ctx, LineRef{ID: p.ID, EntityID: "other", Kind: domain.KindProcurementPlan})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = repo.Delete(ctx, LineRef{ID: p.ID, EntityID: e.ID, Kind: "budget"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLineItemRepo_ListByEntities_Empty(t *testing.T) {
	repo := NewSQLiteLineItemRepo(testutil.NewTestDB(t))

	m, err := repo.ListByEntities(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}
