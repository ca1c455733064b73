package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferralStatus represents the referral qualification lifecycle
type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "PENDING"
	ReferralStatusQualified ReferralStatus = "QUALIFIED"
	ReferralStatusRejected  ReferralStatus = "REJECTED"
)

// Referral tracks a referred signup and the deposits accumulated toward the
// program's qualifying threshold. Bonus amounts are captured at creation so
// later program changes do not alter in-flight referrals.
type Referral struct {
	ID                 uuid.UUID       `db:"id"`
	ReferrerAccountID  uuid.UUID       `db:"referrer_account_id"`
	ReferredAccountID  uuid.UUID       `db:"referred_account_id"`
	Status             ReferralStatus  `db:"status"`
	ReferrerBonus      decimal.Decimal `db:"referrer_bonus"`
	ReferredBonus      decimal.Decimal `db:"referred_bonus"`
	AccumulatedDeposit decimal.Decimal `db:"accumulated_deposit"`
	QualifiedAt        *time.Time      `db:"qualified_at"`
	CreatedAt          time.Time       `db:"created_at"`
}

// Qualifies reports whether accumulated deposits reach the program minimum
func (r *Referral) Qualifies(minimumDeposit decimal.Decimal) bool {
	return r.Status == ReferralStatusPending &&
		r.AccumulatedDeposit.GreaterThanOrEqual(minimumDeposit)
}

// MarkQualified transitions the referral from PENDING to QUALIFIED
func (r *Referral) MarkQualified(now time.Time) error {
	if r.Status != ReferralStatusPending {
		return ErrInvalidStateTransition
	}
	r.Status = ReferralStatusQualified
	r.QualifiedAt = &now
	return nil
}
