package booking

import (
    "time"

    "github.com/estadio/futsal-booking/internal/model"
)

// Deadline computes the last moment a pay-on-site booking may remain
// unpaid.  Bank-transfer bookings have no deadline; they wait for an
// admin to verify the uploaded proof.
func Deadline(createdAt time.Time, wait time.Duration) time.Time {
    return createdAt.Add(wait)
}

// Remaining reports the time left before a deadline, clamped at zero so
// callers can render a countdown without sign checks.
func Remaining(deadline, now time.Time) time.Duration {
    d := deadline.Sub(now)
    if d < 0 {
        return 0
    }
    return d
}

// ShouldExpire decides whether a booking row must be auto-cancelled.
// Only pending pay-on-site rows past their deadline expire; a booking
// an admin already confirmed or cancelled is never touched, which makes
// repeated sweeps over the same rows harmless.
func ShouldExpire(status, paymentMethod string, deadline *time.Time, now time.Time) bool {
    if status != model.StatusPending || paymentMethod != model.PaymentOnSite || deadline == nil {
        return false
    }
    return !now.Before(*deadline)
}
