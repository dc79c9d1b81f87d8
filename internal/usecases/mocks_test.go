package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"loyalty-ledger.backend/internal/domain/entities"
)

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) GetBalance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWalletRepo) ApplyDelta(ctx context.Context, userID int64, delta int64, kind entities.TransactionKind, note, ref, idemKey string, allowNegative bool) (*entities.Transaction, error) {
	args := m.Called(ctx, userID, delta, kind, note, ref, idemKey, allowNegative)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *mockWalletRepo) FindTransactionByIdempotencyKey(ctx context.Context, userID int64, key string) (*entities.Transaction, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *mockWalletRepo) GetTransactions(ctx context.Context, userID int64, limit, offset int) ([]*entities.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entities.Transaction), args.Get(1).(int64), args.Error(2)
}

type mockSpendIntentRepo struct {
	mock.Mock
}

func (m *mockSpendIntentRepo) CreateIfNoneActive(ctx context.Context, intent *entities.SpendIntent) (*entities.SpendIntent, error) {
	args := m.Called(ctx, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SpendIntent), args.Error(1)
}

func (m *mockSpendIntentRepo) GetActiveByUser(ctx context.Context, userID int64) (*entities.SpendIntent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SpendIntent), args.Error(1)
}

func (m *mockSpendIntentRepo) Consume(ctx context.Context, userID int64, token string) (*entities.Transaction, bool, error) {
	args := m.Called(ctx, userID, token)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entities.Transaction), args.Bool(1), args.Error(2)
}

func (m *mockSpendIntentRepo) Cancel(ctx context.Context, userID int64, token string) (bool, error) {
	args := m.Called(ctx, userID, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockSpendIntentRepo) ExpireStale(ctx context.Context, now time.Time, limit int) (int64, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).(int64), args.Error(1)
}

type mockVoucherRepo struct {
	mock.Mock
}

func (m *mockVoucherRepo) Create(ctx context.Context, voucher *entities.Voucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *mockVoucherRepo) GetByToken(ctx context.Context, token string) (*entities.Voucher, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Voucher), args.Error(1)
}

func (m *mockVoucherRepo) RedeemConditional(ctx context.Context, token string, actorID int64, requireOwner bool) (bool, error) {
	args := m.Called(ctx, token, actorID, requireOwner)
	return args.Bool(0), args.Error(1)
}

type mockActivityRuleRepo struct {
	mock.Mock
}

func (m *mockActivityRuleRepo) GetByCode(ctx context.Context, code string) (*entities.ActivityRule, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActivityRule), args.Error(1)
}

func (m *mockActivityRuleRepo) List(ctx context.Context) ([]*entities.ActivityRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ActivityRule), args.Error(1)
}

func (m *mockActivityRuleRepo) Upsert(ctx context.Context, rule *entities.ActivityRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}
