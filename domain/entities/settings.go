package entities

import "github.com/shopspring/decimal"

// WithdrawalLimits is the immutable limit configuration applied by the
// withdrawal limiter. Loaded once at startup and passed in explicitly; daily
// and monthly windows are calendar-aligned in UTC.
type WithdrawalLimits struct {
	MinAmount    decimal.Decimal
	MaxAmount    decimal.Decimal
	DailyLimit   decimal.Decimal
	MonthlyLimit decimal.Decimal
}

// ReferralProgramConfig is the immutable referral program settings. It
// replaces the mutable singleton settings row of older deployments: loaded
// once, handed to the referral service, never written back.
type ReferralProgramConfig struct {
	Active                   bool
	ReferrerBonus            decimal.Decimal
	ReferredBonus            decimal.Decimal
	MinimumQualifyingDeposit decimal.Decimal
}
