// Package worker runs the booking expiry sweep.  Pay-on-site bookings
// that stay unpaid past their payment deadline are cancelled on the
// server, so a slot held by a no-show frees up even when the customer
// never reopens the site.
package worker

import (
    "context"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/estadio/futsal-booking/internal/queue"
    "github.com/estadio/futsal-booking/internal/repository"
    queue_publisher "github.com/estadio/futsal-booking/internal/service"
)

// ExpiryWorker periodically cancels pending pay-on-site bookings whose
// deadline has passed.  The repository update is a guarded bulk
// statement, so running several instances of the service concurrently
// is safe: each overdue row is cancelled exactly once.
type ExpiryWorker struct {
    bookings *repository.BookingRepo
    interval time.Duration
    log      *logrus.Logger
    publish  bool
}

// NewExpiryWorker builds a worker sweeping at the given interval.
// When publish is true, a cancellation event is emitted per expired
// group so the consumer can purge slot caches.
func NewExpiryWorker(bookings *repository.BookingRepo, interval time.Duration, log *logrus.Logger, publish bool) *ExpiryWorker {
    return &ExpiryWorker{bookings: bookings, interval: interval, log: log, publish: publish}
}

// Run blocks, sweeping once per interval until ctx is cancelled.  It
// runs an immediate first sweep so bookings that went overdue while
// the service was down are cleared at startup rather than one interval
// later.
func (w *ExpiryWorker) Run(ctx context.Context) {
    ticker := time.NewTicker(w.interval)
    defer ticker.Stop()

    w.sweep(ctx)
    for {
        select {
        case <-ctx.Done():
            w.log.Info("expiry worker stopped")
            return
        case <-ticker.C:
            w.sweep(ctx)
        }
    }
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
    now := time.Now().UTC()
    n, groups, err := w.bookings.ExpireOverdue(ctx, now)
    if err != nil {
        w.log.WithError(err).Error("expiry sweep failed")
        return
    }
    if n == 0 {
        return
    }
    w.log.WithFields(logrus.Fields{
        "rows":   n,
        "groups": len(groups),
    }).Info("expired overdue bookings")

    if !w.publish {
        return
    }
    for _, g := range groups {
        rows, err := w.bookings.ListByGroup(ctx, g)
        if err != nil || len(rows) == 0 {
            continue
        }
        hours := make([]int, 0, len(rows))
        for _, r := range rows {
            hours = append(hours, r.StartHour)
        }
        ev := queue.BookingChangedEvent{
            Action:       queue.ActionExpired,
            GroupID:      g,
            FieldID:      rows[0].FieldID,
            Date:         rows[0].Date,
            Hours:        hours,
            Status:       rows[0].Status,
            UserID:       rows[0].UserID,
            CustomerName: rows[0].DisplayName,
            OccurredAt:   now.Format(time.RFC3339),
        }
        if err := queue_publisher.PublishBookingChanged(ctx, ev); err != nil {
            w.log.WithError(err).WithField("group_id", g).Warn("expiry event publish failed")
        }
    }
}
