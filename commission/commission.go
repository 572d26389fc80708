// Package commission holds the revenue and commission policy shared by the
// partner and consultant dashboards and the monthly commission run. Every
// function here is pure: no I/O, no clock reads, no shared state.
package commission

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/HSouheill/dispensary_backend/models"
)

var (
	ErrInvalidRate       = errors.New("commission rate must be between 0 and 100")
	ErrInvalidTransition = errors.New("invalid commission status transition")
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// Default rates by tier. PLATINUM earns 30%, everyone else 25%.
const (
	PlatinumRate = 30.0
	StandardRate = 25.0
)

// DefaultRateForTier is the rate a new reseller gets when none is supplied.
// It is a default only; stored rates are never re-checked against the tier.
func DefaultRateForTier(tier models.Tier) float64 {
	switch tier {
	case models.TierPlatinum:
		return PlatinumRate
	case models.TierBronze, models.TierSilver, models.TierGold:
		return StandardRate
	}
	return StandardRate
}

// ValidateRate rejects rates outside [0, 100]
func ValidateRate(rate float64) error {
	if rate < 0 || rate > 100 || rate != rate {
		return fmt.Errorf("%w: got %v", ErrInvalidRate, rate)
	}
	return nil
}

// MonthlyEquivalent normalizes a client's fee to one month. Yearly fees are
// always divided by 12 regardless of calendar month lengths. A billing cycle
// outside the closed set fails with models.ErrInvalidEnum.
func MonthlyEquivalent(c models.Client) (decimal.Decimal, error) {
	switch c.BillingCycle {
	case models.BillingYearly:
		return c.YearlyFee.Decimal().Div(monthsInYear), nil
	case models.BillingMonthly:
		return c.MonthlyFee.Decimal(), nil
	}
	_, err := models.ParseBillingCycle(string(c.BillingCycle))
	return decimal.Zero, fmt.Errorf("client %s: %w", c.ID.Hex(), err)
}

// Amount computes amount × rate / 100 without rounding
func Amount(amount decimal.Decimal, rate float64) (decimal.Decimal, error) {
	if err := ValidateRate(rate); err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(decimal.NewFromFloat(rate)).Div(hundred), nil
}

// NewRecord builds a PENDING commission for one client and month, rounded to cents
func NewRecord(reseller models.Reseller, client models.Client, month string) (models.Commission, error) {
	base, err := MonthlyEquivalent(client)
	if err != nil {
		return models.Commission{}, err
	}
	earned, err := Amount(base, reseller.CommissionRate)
	if err != nil {
		return models.Commission{}, err
	}
	return models.Commission{
		ResellerType:     reseller.Type,
		ResellerID:       reseller.ID,
		ClientID:         client.ID,
		ClientName:       client.Name,
		Amount:           models.MoneyFromDecimal(base.Round(2)),
		CommissionRate:   reseller.CommissionRate,
		CommissionAmount: models.MoneyFromDecimal(earned.Round(2)),
		Month:            month,
		Status:           models.CommissionPending,
	}, nil
}
