package commission

import (
	"fmt"
	"time"

	"github.com/HSouheill/dispensary_backend/models"
)

// CanTransition reports whether a commission may move from one status to another.
// PENDING → APPROVED → PAID is the happy path; FAILED may be retried back to PENDING.
func CanTransition(from, to models.CommissionStatus) bool {
	switch from {
	case models.CommissionPending:
		return to == models.CommissionApproved || to == models.CommissionCancelled || to == models.CommissionFailed
	case models.CommissionApproved:
		return to == models.CommissionPaid || to == models.CommissionCancelled || to == models.CommissionFailed
	case models.CommissionFailed:
		return to == models.CommissionPending || to == models.CommissionCancelled
	case models.CommissionPaid, models.CommissionCancelled:
		return false
	}
	return false
}

// Transition applies a status change to rec. Paying stamps paidDate and the
// payment method; leaving PAID is impossible so those fields never go stale.
func Transition(rec *models.Commission, to models.CommissionStatus, now time.Time, paymentMethod string) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(rec.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, to)
	}

	rec.Status = to
	rec.UpdatedAt = now
	if to == models.CommissionPaid {
		paid := now
		rec.PaidDate = &paid
		if paymentMethod != "" {
			rec.PaymentMethod = paymentMethod
		}
	}
	return nil
}
