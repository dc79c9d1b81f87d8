package entities

import "time"

// Claim result codes. Expected rejections travel as codes, never as errors.
const (
	ClaimCodeOK             = "ok"
	ClaimCodeRuleDisabled   = "rule_disabled"
	ClaimCodeUnknownRule    = "unknown_rule"
	ClaimCodeCooldownActive = "cooldown_active"
	ClaimCodeGeoRequired    = "geo_required"
	ClaimCodeOutOfCoverage  = "out_of_coverage"
)

// ActivityRule maps a rule code to its award and gating parameters
type ActivityRule struct {
	Code            string    `json:"code"`
	Points          int64     `json:"points"`
	CooldownSeconds int       `json:"cooldownSeconds"`
	RequiresGeo     bool      `json:"requiresGeo"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Cooldown returns the rule's cooldown as a duration.
func (r *ActivityRule) Cooldown() time.Duration {
	return time.Duration(r.CooldownSeconds) * time.Second
}

// ClaimInput represents input for claiming an activity reward
type ClaimInput struct {
	RuleCode  string   `json:"ruleCode" binding:"required"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	ListingID int64    `json:"listingId"`
}

// ClaimResult is the structured outcome of an activity claim
type ClaimResult struct {
	OK            bool   `json:"ok"`
	Code          string `json:"code"`
	PointsAwarded int64  `json:"pointsAwarded"`
	Balance       int64  `json:"balance"`
}
