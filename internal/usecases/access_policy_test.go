package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"loyalty-ledger.backend/pkg/jwt"
)

func TestAccessPolicy_Evaluate(t *testing.T) {
	policy := NewAccessPolicy()

	member := &jwt.Claims{UserID: 42, Role: "member"}
	partner := &jwt.Claims{UserID: 7, Role: "partner"}
	admin := &jwt.Claims{UserID: 1, Role: "admin"}

	tests := []struct {
		name     string
		claims   *jwt.Claims
		action   Action
		resource Resource
		want     bool
	}{
		{"nil claims denied", nil, ActionViewWallet, Resource{OwnerUserID: 42}, false},
		{"owner views own wallet", member, ActionViewWallet, Resource{OwnerUserID: 42}, true},
		{"member cannot view another wallet", member, ActionViewWallet, Resource{OwnerUserID: 99}, false},
		{"admin views any wallet", admin, ActionViewWallet, Resource{OwnerUserID: 99}, true},
		{"member cannot adjust", member, ActionAdjustBalance, Resource{OwnerUserID: 42}, false},
		{"partner cannot adjust", partner, ActionAdjustBalance, Resource{OwnerUserID: 7}, false},
		{"admin adjusts", admin, ActionAdjustBalance, Resource{OwnerUserID: 42}, true},
		{"owner redeems own voucher", member, ActionRedeemVoucher, Resource{OwnerUserID: 42}, true},
		{"member cannot redeem another's voucher", member, ActionRedeemVoucher, Resource{OwnerUserID: 99}, false},
		{"admin redeems any voucher", admin, ActionRedeemVoucher, Resource{OwnerUserID: 99}, true},
		{"partner consumes intents", partner, ActionConsumeIntent, Resource{}, true},
		{"member cannot consume intents", member, ActionConsumeIntent, Resource{}, false},
		{"admin consumes intents", admin, ActionConsumeIntent, Resource{}, true},
		{"unknown action denied", member, Action("unknown"), Resource{OwnerUserID: 42}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Evaluate(tt.claims, tt.action, tt.resource))
		})
	}
}
