package model

import (
    "strconv"
    "time"
)

// Booking status values.  A row is never deleted; rejection, customer
// cancellation and payment-window expiry all end in StatusCancelled.
const (
    StatusPending   = "pending"
    StatusConfirmed = "confirmed"
    StatusCancelled = "cancelled"
)

// Payment methods.  Bank transfers require an uploaded proof image and
// wait for admin verification; pay-on-site bookings get a payment
// deadline and are auto-cancelled when it lapses unpaid.
const (
    PaymentBankTransfer = "bank_transfer"
    PaymentOnSite       = "pay_on_site"
)

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s string) bool {
    return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
    return m == PaymentBankTransfer || m == PaymentOnSite
}

// Booking is one reserved hour of one field.  A customer submission for
// several hours produces several rows sharing the same GroupID; the
// aggregation layer folds them back into a single logical booking.
//
// Exactly one of UserID and CustomerName is set: registered customers
// book under their account, walk-ins recorded by staff carry a free-text
// name instead.
type Booking struct {
    ID              uint64     // bookings.id
    GroupID         string     // bookings.group_id, shared by one submission
    FieldID         uint64     // bookings.field_id
    Date            string     // bookings.booking_date, "2006-01-02"
    StartHour       int        // hour of day 0..23; the row covers [StartHour, StartHour+1)
    UserID          *uint64    // bookings.user_id (nullable, nil for walk-ins)
    CustomerName    *string    // bookings.customer_name (nullable, walk-ins only)
    Status          string     // pending | confirmed | cancelled
    PaymentMethod   string     // bank_transfer | pay_on_site
    IsWalkIn        bool       // created by staff rather than self-service
    ProofImageURL   *string    // bookings.proof_image_url (bank transfers)
    PaymentDeadline *time.Time // bookings.payment_deadline (pay-on-site, pending only)
    CreatedAt       time.Time  // immutable
    UpdatedAt       time.Time  // bumped on every status transition
}

// CustomerRef returns the identity used to group rows into logical
// bookings: the account id for registered customers, the free-text name
// for walk-ins, "anon" when neither is present.
func (b Booking) CustomerRef() string {
    if b.UserID != nil {
        return "u:" + strconv.FormatUint(*b.UserID, 10)
    }
    if b.CustomerName != nil && *b.CustomerName != "" {
        return "n:" + *b.CustomerName
    }
    return "anon"
}
