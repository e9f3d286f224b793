package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
    assert.True(t, ValidStatus(StatusPending))
    assert.True(t, ValidStatus(StatusConfirmed))
    assert.True(t, ValidStatus(StatusCancelled))
    assert.False(t, ValidStatus("PENDING"))
    assert.False(t, ValidStatus(""))
}

func TestValidPaymentMethod(t *testing.T) {
    assert.True(t, ValidPaymentMethod(PaymentBankTransfer))
    assert.True(t, ValidPaymentMethod(PaymentOnSite))
    assert.False(t, ValidPaymentMethod("cash"))
}

func TestCustomerRef(t *testing.T) {
    uid := uint64(42)
    name := "Budi"

    tests := []struct {
        name    string
        booking Booking
        want    string
    }{
        {"registered user", Booking{UserID: &uid}, "u:42"},
        {"walk-in by name", Booking{CustomerName: &name}, "n:Budi"},
        {"user id wins over name", Booking{UserID: &uid, CustomerName: &name}, "u:42"},
        {"neither", Booking{}, "anon"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            assert.Equal(t, tt.want, tt.booking.CustomerRef())
        })
    }
}
