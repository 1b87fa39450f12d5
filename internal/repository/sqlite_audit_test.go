package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_AppendAndListInOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteAuditRepo(database)
	ctx := context.Background()
	e := seedEntity(t, database, domain.KindProject)

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []*domain.WorkflowAction{
		{ID: "w1", EntityID: e.ID, Type: domain.ActionTypeSubmit, FromStatus: domain.StatusDraft, ToStatus: domain.StatusSubmitted, ActorID: "u1", CreatedAt: at},
		{ID: "w2", EntityID: e.ID, Type: domain.ActionTypeReturn, FromStatus: domain.StatusSubmitted, ToStatus: domain.StatusReturned, ActorID: "u2", Comment: "fix Q3", CreatedAt: at},
	}
	for _, w := range entries {
		require.NoError(t, repo.Append(ctx, w))
	}

	got, err := repo.ListByEntity(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entries[0], got[0])
	assert.Equal(t, "fix Q3", got[1].Comment)
	assert.Equal(t, domain.ActionTypeReturn, got[1].Type)
}

func TestAuditRepo_DuplicateIDRejected(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteAuditRepo(database)
	ctx := context.Background()
	e := seedEntity(t, database, domain.KindProject)

	w := &domain.WorkflowAction{ID: "w1", EntityID: e.ID, Type: domain.ActionTypeSubmit, FromStatus: domain.StatusDraft, ToStatus: domain.StatusSubmitted, ActorID: "u1", CreatedAt: time.Now()}
	require.NoError(t, repo.Append(ctx, w))
	assert.Error(t, repo.Append(ctx, w))
}
