package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	"loyalty-ledger.backend/pkg/cache"
)

func newIntentFixture() (*SpendIntentUsecase, *mockSpendIntentRepo, *mockWalletRepo, *cache.MemoryStore) {
	intentRepo := new(mockSpendIntentRepo)
	walletRepo := new(mockWalletRepo)
	store := cache.NewMemory()
	ledger := NewLedgerUsecase(walletRepo, store, CacheTTLs{Balance: time.Minute, Transactions: time.Minute})
	return NewSpendIntentUsecase(intentRepo, walletRepo, ledger), intentRepo, walletRepo, store
}

func TestSpendIntentUsecase_CreateSucceeds(t *testing.T) {
	uc, intentRepo, walletRepo, _ := newIntentFixture()
	ctx := context.Background()

	walletRepo.On("GetBalance", ctx, int64(42)).Return(int64(70), nil).Once()
	intentRepo.On("CreateIfNoneActive", ctx, mock.MatchedBy(func(i *entities.SpendIntent) bool {
		return i.UserID == 42 && i.AmountPts == 50 && i.Token != "" &&
			i.Status == entities.SpendIntentStatusActive && i.ExpiresAt.After(time.Now())
	})).Return(&entities.SpendIntent{UserID: 42, Token: "tok", AmountPts: 50, Status: entities.SpendIntentStatusActive}, nil).Once()

	result, err := uc.CreateSpendIntent(ctx, 42, 50, 0)
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Equal(t, entities.IntentCodeOK, result.Code)
	require.Equal(t, "tok", result.Intent.Token)
	intentRepo.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
}

func TestSpendIntentUsecase_CreateInsufficientBalance(t *testing.T) {
	uc, intentRepo, walletRepo, _ := newIntentFixture()
	ctx := context.Background()

	walletRepo.On("GetBalance", ctx, int64(42)).Return(int64(30), nil).Once()

	result, err := uc.CreateSpendIntent(ctx, 42, 50, 0)
	require.NoError(t, err)
	require.False(t, result.OK)
	require.Equal(t, entities.IntentCodeInsufficientBalance, result.Code)
	intentRepo.AssertNotCalled(t, "CreateIfNoneActive", mock.Anything, mock.Anything)
}

func TestSpendIntentUsecase_CreateWhileOnePending(t *testing.T) {
	uc, intentRepo, walletRepo, _ := newIntentFixture()
	ctx := context.Background()

	walletRepo.On("GetBalance", ctx, int64(42)).Return(int64(70), nil).Once()
	intentRepo.On("CreateIfNoneActive", ctx, mock.Anything).Return(nil, nil).Once()

	result, err := uc.CreateSpendIntent(ctx, 42, 20, 0)
	require.NoError(t, err)
	require.False(t, result.OK)
	require.Equal(t, entities.IntentCodePending, result.Code)
}

func TestSpendIntentUsecase_CreateRejectsNonPositiveAmount(t *testing.T) {
	uc, _, _, _ := newIntentFixture()

	_, err := uc.CreateSpendIntent(context.Background(), 42, 0, 0)
	require.ErrorIs(t, err, domainerrors.ErrBadRequest)
	_, err = uc.CreateSpendIntent(context.Background(), 42, -10, 0)
	require.ErrorIs(t, err, domainerrors.ErrBadRequest)
}

func TestSpendIntentUsecase_ConsumeSucceedsAndRefreshesCache(t *testing.T) {
	uc, intentRepo, _, store := newIntentFixture()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "wallet:balance:42", "70", time.Minute))
	intentRepo.On("Consume", ctx, int64(42), "tok").
		Return(&entities.Transaction{UserID: 42, Kind: entities.TransactionKindRedeem, DeltaPts: -50, BalanceAfter: 20}, true, nil).Once()

	result, err := uc.ConsumeSpendIntent(ctx, 42, "tok")
	require.NoError(t, err)
	require.True(t, result.OK)
	require.EqualValues(t, 20, result.Balance)

	cached, err := store.Get(ctx, "wallet:balance:42")
	require.NoError(t, err)
	require.Equal(t, "20", cached)
	intentRepo.AssertExpectations(t)
}

func TestSpendIntentUsecase_ConsumeWithoutActiveIntent(t *testing.T) {
	uc, intentRepo, _, _ := newIntentFixture()
	ctx := context.Background()

	intentRepo.On("Consume", ctx, int64(42), "tok").Return(nil, false, nil).Once()

	result, err := uc.ConsumeSpendIntent(ctx, 42, "tok")
	require.NoError(t, err)
	require.False(t, result.OK)
	require.Equal(t, entities.IntentCodeNoActiveIntent, result.Code)
}

func TestSpendIntentUsecase_CancelDelegates(t *testing.T) {
	uc, intentRepo, _, _ := newIntentFixture()
	ctx := context.Background()

	intentRepo.On("Cancel", ctx, int64(42), "tok").Return(true, nil).Once()

	canceled, err := uc.CancelSpendIntent(ctx, 42, "tok")
	require.NoError(t, err)
	require.True(t, canceled)

	_, err = uc.CancelSpendIntent(ctx, 42, "")
	require.ErrorIs(t, err, domainerrors.ErrBadRequest)
}
