package service

import "time"

// RefundTier grants Fraction when the cancellation happens strictly more
// than MinNotice before check-in.
type RefundTier struct {
	MinNotice time.Duration
	Fraction  float64
}

// RefundPolicy is evaluated in order; the first matching tier wins and no
// match refunds nothing.
type RefundPolicy []RefundTier

var DefaultRefundPolicy = RefundPolicy{
	{MinNotice: 48 * time.Hour, Fraction: 1.0},
	{MinNotice: 24 * time.Hour, Fraction: 0.5},
}

func (p RefundPolicy) Fraction(now, checkIn time.Time) float64 {
	notice := checkIn.Sub(now)
	for _, tier := range p {
		if notice > tier.MinNotice {
			return tier.Fraction
		}
	}
	return 0
}
