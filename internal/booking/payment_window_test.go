package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"

    "github.com/estadio/futsal-booking/internal/model"
)

func TestRemainingClampsAtZero(t *testing.T) {
    created := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
    deadline := Deadline(created, 45*time.Minute)

    assert.Equal(t, 45*time.Minute, Remaining(deadline, created))
    assert.Equal(t, time.Minute, Remaining(deadline, created.Add(44*time.Minute)))
    assert.Equal(t, time.Duration(0), Remaining(deadline, created.Add(46*time.Minute)))
}

func TestShouldExpire(t *testing.T) {
    created := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
    deadline := created.Add(45 * time.Minute)

    tests := []struct {
        name     string
        status   string
        method   string
        deadline *time.Time
        now      time.Time
        want     bool
    }{
        {"pending before deadline", model.StatusPending, model.PaymentOnSite, &deadline, created.Add(44 * time.Minute), false},
        {"pending at deadline", model.StatusPending, model.PaymentOnSite, &deadline, deadline, true},
        {"pending past deadline", model.StatusPending, model.PaymentOnSite, &deadline, created.Add(time.Hour), true},
        {"confirmed past deadline", model.StatusConfirmed, model.PaymentOnSite, &deadline, created.Add(time.Hour), false},
        {"cancelled past deadline", model.StatusCancelled, model.PaymentOnSite, &deadline, created.Add(time.Hour), false},
        {"bank transfer never expires", model.StatusPending, model.PaymentBankTransfer, nil, created.Add(24 * time.Hour), false},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            assert.Equal(t, tt.want, ShouldExpire(tt.status, tt.method, tt.deadline, tt.now))
        })
    }
}
