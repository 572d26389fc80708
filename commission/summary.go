package commission

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HSouheill/dispensary_backend/models"
)

// Input is everything a dashboard aggregate is computed from
type Input struct {
	Clients []models.Client
	Records []models.Commission
	Rate    float64
	// Now selects the current month for the growth rate
	Now time.Time
}

// ClientRevenue is one row of the per-client breakdown
type ClientRevenue struct {
	ClientID          string              `json:"clientId"`
	Name              string              `json:"name"`
	PlanName          string              `json:"planName"`
	BillingCycle      models.BillingCycle `json:"billingCycle"`
	StoreCount        int                 `json:"storeCount"`
	MonthlyEquivalent models.Money        `json:"monthlyEquivalent"`
	Commission        models.Money        `json:"commission"`
}

// MonthlyTotal is one bucket of the monthly trend
type MonthlyTotal struct {
	Month      string       `json:"month"`
	Revenue    models.Money `json:"revenue"`
	Commission models.Money `json:"commission"`
	Records    int          `json:"records"`
}

// Summary is the flat aggregate shown on partner and consultant dashboards
type Summary struct {
	TotalRevenue       models.Money    `json:"totalRevenue"`
	CommissionEarned   models.Money    `json:"commissionEarned"`
	PendingCommission  models.Money    `json:"pendingCommission"`
	ApprovedCommission models.Money    `json:"approvedCommission"`
	PaidCommission     models.Money    `json:"paidCommission"`
	ActiveClients      int             `json:"activeClients"`
	ClientBreakdown    []ClientRevenue `json:"clientBreakdown"`
	MonthlyTrend       []MonthlyTotal  `json:"monthlyTrend"`
	GrowthRate         float64         `json:"growthRate"`
	TopMonth           string          `json:"topMonth,omitempty"`
}

// Summarize computes the dashboard aggregate. Only ACTIVE clients count
// toward revenue and the breakdown. All money outputs are rounded to cents;
// intermediate sums keep full precision.
func Summarize(in Input) (Summary, error) {
	if err := ValidateRate(in.Rate); err != nil {
		return Summary{}, err
	}
	rate := decimal.NewFromFloat(in.Rate)

	total := decimal.Zero
	breakdown := make([]ClientRevenue, 0, len(in.Clients))
	equivalents := make([]decimal.Decimal, 0, len(in.Clients))

	for _, c := range in.Clients {
		if c.Status != models.ClientActive {
			continue
		}
		monthly, err := MonthlyEquivalent(c)
		if err != nil {
			return Summary{}, err
		}
		total = total.Add(monthly)
		equivalents = append(equivalents, monthly)
		breakdown = append(breakdown, ClientRevenue{
			ClientID:          c.ID.Hex(),
			Name:              c.Name,
			PlanName:          c.PlanName,
			BillingCycle:      c.BillingCycle,
			StoreCount:        c.StoreCount,
			MonthlyEquivalent: models.MoneyFromDecimal(monthly.Round(2)),
			Commission:        models.MoneyFromDecimal(monthly.Mul(rate).Div(hundred).Round(2)),
		})
	}

	// Sort on the unrounded equivalents so rounding never reorders rows
	order := make([]int, len(breakdown))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return equivalents[order[a]].GreaterThan(equivalents[order[b]])
	})
	sorted := make([]ClientRevenue, len(breakdown))
	for i, idx := range order {
		sorted[i] = breakdown[idx]
	}

	pending, approved, paid := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range in.Records {
		amount := r.CommissionAmount.Decimal()
		switch r.Status {
		case models.CommissionPending:
			pending = pending.Add(amount)
		case models.CommissionApproved:
			approved = approved.Add(amount)
		case models.CommissionPaid:
			paid = paid.Add(amount)
		case models.CommissionFailed, models.CommissionCancelled:
		}
	}

	trend := MonthlyTrend(in.Records)
	byMonth := make(map[string]decimal.Decimal, len(trend))
	for _, m := range trend {
		byMonth[m.Month] = m.Commission.Decimal()
	}

	return Summary{
		TotalRevenue:       models.MoneyFromDecimal(total.Round(2)),
		CommissionEarned:   models.MoneyFromDecimal(total.Mul(rate).Div(hundred).Round(2)),
		PendingCommission:  models.MoneyFromDecimal(pending.Round(2)),
		ApprovedCommission: models.MoneyFromDecimal(approved.Round(2)),
		PaidCommission:     models.MoneyFromDecimal(paid.Round(2)),
		ActiveClients:      len(sorted),
		ClientBreakdown:    sorted,
		MonthlyTrend:       trend,
		GrowthRate:         GrowthRate(byMonth[MonthKey(in.Now)], byMonth[PreviousMonthKey(in.Now)]),
		TopMonth:           TopMonth(in.Records),
	}, nil
}

// GrowthRate is the month over month change in percent, rounded to two
// decimals. It is 0 when the previous month had nothing to compare against.
func GrowthRate(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	growth, _ := current.Sub(previous).Div(previous).Mul(hundred).Round(2).Float64()
	return growth
}

// MonthlyTrend buckets records by month, oldest first
func MonthlyTrend(records []models.Commission) []MonthlyTotal {
	type bucket struct {
		revenue, commission decimal.Decimal
		count               int
	}
	buckets := make(map[string]*bucket)
	for _, r := range records {
		b, ok := buckets[r.Month]
		if !ok {
			b = &bucket{}
			buckets[r.Month] = b
		}
		b.revenue = b.revenue.Add(r.Amount.Decimal())
		b.commission = b.commission.Add(r.CommissionAmount.Decimal())
		b.count++
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	trend := make([]MonthlyTotal, 0, len(months))
	for _, m := range months {
		b := buckets[m]
		trend = append(trend, MonthlyTotal{
			Month:      m,
			Revenue:    models.MoneyFromDecimal(b.revenue.Round(2)),
			Commission: models.MoneyFromDecimal(b.commission.Round(2)),
			Records:    b.count,
		})
	}
	return trend
}

// TopMonth returns the month with the largest summed commission amount.
// Ties go to the month that first appears in records. Empty input gives "".
func TopMonth(records []models.Commission) string {
	sums := make(map[string]decimal.Decimal)
	var seen []string
	for _, r := range records {
		if _, ok := sums[r.Month]; !ok {
			seen = append(seen, r.Month)
		}
		sums[r.Month] = sums[r.Month].Add(r.CommissionAmount.Decimal())
	}

	top := ""
	best := decimal.Zero
	for _, m := range seen {
		if top == "" || sums[m].GreaterThan(best) {
			top, best = m, sums[m]
		}
	}
	return top
}
