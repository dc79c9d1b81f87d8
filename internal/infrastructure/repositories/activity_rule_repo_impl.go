package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	domainrepos "loyalty-ledger.backend/internal/domain/repositories"
	"loyalty-ledger.backend/internal/infrastructure/models"
)

// ActivityRuleRepository implements activity rule data operations
type ActivityRuleRepository struct {
	db *gorm.DB
}

// NewActivityRuleRepository creates a new activity rule repository
func NewActivityRuleRepository(db *gorm.DB) domainrepos.ActivityRuleRepository {
	return &ActivityRuleRepository{db: db}
}

// GetByCode gets a rule by its code
func (r *ActivityRuleRepository) GetByCode(ctx context.Context, code string) (*entities.ActivityRule, error) {
	var m models.ActivityRule
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ruleToEntity(&m), nil
}

// List returns all configured rules
func (r *ActivityRuleRepository) List(ctx context.Context) ([]*entities.ActivityRule, error) {
	var rows []models.ActivityRule
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]*entities.ActivityRule, 0, len(rows))
	for i := range rows {
		items = append(items, ruleToEntity(&rows[i]))
	}
	return items, nil
}

// Upsert creates or replaces a rule; used for seeding and admin updates.
func (r *ActivityRuleRepository) Upsert(ctx context.Context, rule *entities.ActivityRule) error {
	now := time.Now().UTC()
	m := &models.ActivityRule{
		Code:            rule.Code,
		Points:          rule.Points,
		CooldownSeconds: rule.CooldownSeconds,
		RequiresGeo:     rule.RequiresGeo,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"points", "cooldown_seconds", "requires_geo", "updated_at"}),
	}).Create(m).Error
}

func ruleToEntity(m *models.ActivityRule) *entities.ActivityRule {
	return &entities.ActivityRule{
		Code:            m.Code,
		Points:          m.Points,
		CooldownSeconds: m.CooldownSeconds,
		RequiresGeo:     m.RequiresGeo,
		CreatedAt:       m.CreatedAt,
	}
}
