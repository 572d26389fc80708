package commission

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
)

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestDefaultRateForTier(t *testing.T) {
	assert.Equal(t, 30.0, DefaultRateForTier(models.TierPlatinum))
	assert.Equal(t, 25.0, DefaultRateForTier(models.TierGold))
	assert.Equal(t, 25.0, DefaultRateForTier(models.TierSilver))
	assert.Equal(t, 25.0, DefaultRateForTier(models.TierBronze))
}

func TestValidateRate(t *testing.T) {
	assert.NoError(t, ValidateRate(0))
	assert.NoError(t, ValidateRate(100))
	assert.NoError(t, ValidateRate(12.5))
	assert.ErrorIs(t, ValidateRate(100.01), ErrInvalidRate)
	assert.ErrorIs(t, ValidateRate(-0.5), ErrInvalidRate)
	assert.ErrorIs(t, ValidateRate(math.NaN()), ErrInvalidRate)
}

func TestMonthlyEquivalent(t *testing.T) {
	yearly := yearlyClient("Y", 1200, models.ClientActive)
	got, err := MonthlyEquivalent(yearly)
	require.NoError(t, err)
	assert.Equal(t, "100", got.String())

	monthly := monthlyClient("M", 49.99, models.ClientActive)
	got, err = MonthlyEquivalent(monthly)
	require.NoError(t, err)
	assert.Equal(t, "49.99", got.String())
}

func TestMonthlyEquivalent_UnknownCycle(t *testing.T) {
	_, err := MonthlyEquivalent(models.Client{})
	assert.ErrorIs(t, err, models.ErrInvalidEnum)

	weekly := monthlyClient("W", 10, models.ClientActive)
	weekly.BillingCycle = models.BillingCycle("weekly")
	_, err = MonthlyEquivalent(weekly)
	assert.ErrorIs(t, err, models.ErrInvalidEnum)

	_, err = NewRecord(models.Reseller{CommissionRate: 25}, weekly, "2024-02")
	assert.ErrorIs(t, err, models.ErrInvalidEnum)

	_, err = Summarize(Input{Clients: []models.Client{weekly}, Rate: 25, Now: time.Now()})
	assert.ErrorIs(t, err, models.ErrInvalidEnum)

	// inactive clients are never normalized
	weekly.Status = models.ClientInactive
	_, err = Summarize(Input{Clients: []models.Client{weekly}, Rate: 25, Now: time.Now()})
	assert.NoError(t, err)
}

func TestNewRecord(t *testing.T) {
	reseller := models.Reseller{
		ID:             primitive.NewObjectID(),
		Type:           models.ResellerConsultant,
		CommissionRate: 25,
	}
	client := yearlyClient("Green Leaf", 1999, models.ClientActive)

	rec, err := NewRecord(reseller, client, "2024-02")
	require.NoError(t, err)

	assert.Equal(t, models.ResellerConsultant, rec.ResellerType)
	assert.Equal(t, reseller.ID, rec.ResellerID)
	assert.Equal(t, client.ID, rec.ClientID)
	assert.Equal(t, "Green Leaf", rec.ClientName)
	assert.Equal(t, "166.58", rec.Amount.StringFixed())
	assert.Equal(t, "41.65", rec.CommissionAmount.StringFixed())
	assert.Equal(t, models.CommissionPending, rec.Status)
	assert.Equal(t, "2024-02", rec.Month)

	reseller.CommissionRate = 150
	_, err = NewRecord(reseller, client, "2024-02")
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestPreviousMonthKey(t *testing.T) {
	assert.Equal(t, "2024-02", PreviousMonthKey(time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-12", PreviousMonthKey(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03", MonthKey(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
}

func TestParseMonth(t *testing.T) {
	_, err := ParseMonth("2024-02")
	assert.NoError(t, err)

	_, err = ParseMonth("2024-13")
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = ParseMonth("Feb 2024")
	assert.Error(t, err)
}

func TestTransition(t *testing.T) {
	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	rec := models.Commission{Status: models.CommissionPending}

	require.NoError(t, Transition(&rec, models.CommissionApproved, now, ""))
	assert.Equal(t, models.CommissionApproved, rec.Status)
	assert.Nil(t, rec.PaidDate)

	require.NoError(t, Transition(&rec, models.CommissionPaid, now, "bank_transfer"))
	require.NotNil(t, rec.PaidDate)
	assert.Equal(t, now, *rec.PaidDate)
	assert.Equal(t, "bank_transfer", rec.PaymentMethod)

	err := Transition(&rec, models.CommissionPending, now, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.CommissionPaid, rec.Status)
}

func TestTransition_FailedCanRetry(t *testing.T) {
	rec := models.Commission{Status: models.CommissionApproved}
	now := time.Now()

	require.NoError(t, Transition(&rec, models.CommissionFailed, now, ""))
	require.NoError(t, Transition(&rec, models.CommissionPending, now, ""))

	err := Transition(&rec, models.CommissionPaid, now, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = Transition(&rec, models.CommissionStatus("UNKNOWN"), now, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
