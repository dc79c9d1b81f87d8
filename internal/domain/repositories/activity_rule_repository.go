package repositories

import (
	"context"

	"loyalty-ledger.backend/internal/domain/entities"
)

// ActivityRuleRepository defines activity rule data operations
type ActivityRuleRepository interface {
	GetByCode(ctx context.Context, code string) (*entities.ActivityRule, error)
	List(ctx context.Context) ([]*entities.ActivityRule, error)
	Upsert(ctx context.Context, rule *entities.ActivityRule) error
}
