package usecases

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"loyalty-ledger.backend/internal/config"
	"loyalty-ledger.backend/internal/domain/entities"
	domainerrors "loyalty-ledger.backend/internal/domain/errors"
	"loyalty-ledger.backend/internal/domain/repositories"
	"loyalty-ledger.backend/pkg/cache"
	"loyalty-ledger.backend/pkg/logger"
	"loyalty-ledger.backend/pkg/metrics"
)

func cooldownKey(ruleCode string, userID int64) string {
	return fmt.Sprintf("cooldown:%s:%d", ruleCode, userID)
}

// ActivityUsecase is the admission controller gating point-earning actions
type ActivityUsecase struct {
	ruleRepo repositories.ActivityRuleRepository
	ledger   *LedgerUsecase
	store    cache.Store
	cfg      config.ActivityConfig
}

// NewActivityUsecase creates a new activity usecase
func NewActivityUsecase(ruleRepo repositories.ActivityRuleRepository, ledger *LedgerUsecase, store cache.Store, cfg config.ActivityConfig) *ActivityUsecase {
	return &ActivityUsecase{
		ruleRepo: ruleRepo,
		ledger:   ledger,
		store:    store,
		cfg:      cfg,
	}
}

// Claim awards points for a gated activity. Expected rejections come back as
// structured results; only infrastructure failures surface as errors.
// The caller is already authenticated: the feature flag check below must
// never run for anonymous requests.
func (u *ActivityUsecase) Claim(ctx context.Context, userID int64, input *entities.ClaimInput) (*entities.ClaimResult, error) {
	if !u.cfg.RulesEnabled {
		return u.reject(entities.ClaimCodeRuleDisabled), nil
	}

	rule, err := u.ruleRepo.GetByCode(ctx, input.RuleCode)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return u.reject(entities.ClaimCodeUnknownRule), nil
	}
	if err != nil {
		return nil, err
	}

	note := "activity reward: " + rule.Code
	if rule.RequiresGeo {
		if input.Lat == nil || input.Lng == nil {
			return u.reject(entities.ClaimCodeGeoRequired), nil
		}
		if !u.cfg.InCoverage(*input.Lat, *input.Lng) {
			return u.reject(entities.ClaimCodeOutOfCoverage), nil
		}
		note = fmt.Sprintf("%s @ (%f,%f)", note, *input.Lat, *input.Lng)
	}

	// The marker's presence alone denies the claim; its TTL is the rule's
	// cooldown, so expiry re-admits without any sweep.
	marker := cooldownKey(rule.Code, userID)
	admitted, err := u.store.SetNX(ctx, marker, "1", rule.Cooldown())
	if err != nil {
		// Cache loss degrades to an ungated claim rather than blocking
		// point earning; the ledger stays correct either way.
		logger.Warn(ctx, "cooldown marker unavailable, admitting claim",
			zap.String("rule", rule.Code), zap.Error(err))
		admitted = true
	}
	if !admitted {
		return u.reject(entities.ClaimCodeCooldownActive), nil
	}

	ref := fmt.Sprintf("activity:%s:listing:%d", rule.Code, input.ListingID)
	tx, err := u.ledger.AdjustBalance(ctx, userID, rule.Points, note, ref, "")
	if err != nil {
		// No points were granted; release the marker so the user may
		// retry once storage recovers.
		if delErr := u.store.Del(ctx, marker); delErr != nil {
			logger.Warn(ctx, "releasing cooldown marker after failed award",
				zap.String("rule", rule.Code), zap.Error(delErr))
		}
		return nil, err
	}

	metrics.ActivityClaims.WithLabelValues(entities.ClaimCodeOK).Inc()
	logger.Info(ctx, "activity reward granted",
		zap.Int64("user_id", userID),
		zap.String("rule", rule.Code),
		zap.Int64("points", rule.Points),
	)
	return &entities.ClaimResult{
		OK:            true,
		Code:          entities.ClaimCodeOK,
		PointsAwarded: rule.Points,
		Balance:       tx.BalanceAfter,
	}, nil
}

// ListRules exposes the configured rules (admin surface).
func (u *ActivityUsecase) ListRules(ctx context.Context) ([]*entities.ActivityRule, error) {
	return u.ruleRepo.List(ctx)
}

// SeedDefaultRules installs the built-in rule set when absent.
func (u *ActivityUsecase) SeedDefaultRules(ctx context.Context) error {
	defaults := []*entities.ActivityRule{
		{Code: "checkin", Points: 10, CooldownSeconds: 86400},
		{Code: "geocheckin", Points: 25, CooldownSeconds: 86400, RequiresGeo: true},
		{Code: "profile_complete", Points: 50, CooldownSeconds: 0},
		{Code: "card_bind", Points: 100, CooldownSeconds: 0},
	}
	for _, rule := range defaults {
		if _, err := u.ruleRepo.GetByCode(ctx, rule.Code); err == nil {
			continue
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		if err := u.ruleRepo.Upsert(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}

func (u *ActivityUsecase) reject(code string) *entities.ClaimResult {
	metrics.ActivityClaims.WithLabelValues(code).Inc()
	return &entities.ClaimResult{OK: false, Code: code}
}
