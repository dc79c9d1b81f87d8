package usecases

import "loyalty-ledger.backend/pkg/jwt"

// Action names the operations subject to authorization
type Action string

const (
	ActionViewWallet    Action = "wallet:view"
	ActionAdjustBalance Action = "wallet:adjust"
	ActionRedeemVoucher Action = "voucher:redeem"
	ActionConsumeIntent Action = "intent:consume"
)

// Resource describes the object an action targets
type Resource struct {
	OwnerUserID int64
}

// AccessPolicy is the single place role and ownership dispatch happens.
// Handlers and usecases ask it instead of re-checking claims themselves.
type AccessPolicy struct{}

// NewAccessPolicy creates the policy evaluator
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// Evaluate decides whether the claims permit the action on the resource.
func (p *AccessPolicy) Evaluate(claims *jwt.Claims, action Action, resource Resource) bool {
	if claims == nil {
		return false
	}
	if claims.IsAdmin() {
		return true
	}

	switch action {
	case ActionViewWallet:
		return claims.UserID == resource.OwnerUserID
	case ActionAdjustBalance:
		return false
	case ActionRedeemVoucher:
		return claims.UserID == resource.OwnerUserID
	case ActionConsumeIntent:
		return claims.Role == "partner"
	default:
		return false
	}
}
