package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
)

func TestActivityRuleRepository_UpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	createActivityRuleTable(t, db)
	repo := NewActivityRuleRepository(db)
	ctx := context.Background()

	rule := &entities.ActivityRule{Code: "checkin", Points: 10, CooldownSeconds: 86400}
	require.NoError(t, repo.Upsert(ctx, rule))

	got, err := repo.GetByCode(ctx, "checkin")
	require.NoError(t, err)
	require.EqualValues(t, 10, got.Points)
	require.EqualValues(t, 86400, got.CooldownSeconds)
	require.False(t, got.RequiresGeo)

	// upsert with the same code replaces the parameters
	rule.Points = 15
	rule.RequiresGeo = true
	require.NoError(t, repo.Upsert(ctx, rule))

	got, err = repo.GetByCode(ctx, "checkin")
	require.NoError(t, err)
	require.EqualValues(t, 15, got.Points)
	require.True(t, got.RequiresGeo)

	_, err = repo.GetByCode(ctx, "unknown")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestActivityRuleRepository_List(t *testing.T) {
	db := newTestDB(t)
	createActivityRuleTable(t, db)
	repo := NewActivityRuleRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entities.ActivityRule{Code: "profile_complete", Points: 50}))
	require.NoError(t, repo.Upsert(ctx, &entities.ActivityRule{Code: "checkin", Points: 10, CooldownSeconds: 86400}))

	rules, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, "checkin", rules[0].Code)
	require.Equal(t, "profile_complete", rules[1].Code)
}
