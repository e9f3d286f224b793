// Package booking holds the ledger-independent booking logic: folding
// per-hour rows into logical bookings and enforcing the pay-on-site
// payment window.
package booking

import (
    "fmt"
    "sort"
    "strconv"
    "time"

    "github.com/estadio/futsal-booking/internal/model"
    "github.com/estadio/futsal-booking/internal/schedule"
)

// groupWindow is the created_at tolerance used when rows carry no group
// id.  Rows written by one submission land within a few seconds of each
// other even though each hour is a separate insert.
const groupWindow = 10 * time.Second

// Group is one logical booking: every hour-row a single submission
// produced, folded back together for display and for bulk status
// actions.  IDs keeps the underlying row ids so an admin decision can
// transition the whole group at once.
type Group struct {
    GroupID         string     `json:"group_id,omitempty"`
    IDs             []uint64   `json:"ids"`
    FieldID         uint64     `json:"field_id"`
    Date            string     `json:"date"`
    CustomerName    string     `json:"customer_name"`
    StartHour       int        `json:"start_hour"`
    EndHour         int        `json:"end_hour"` // exclusive; 24 means midnight
    StartLabel      string     `json:"start_label"`
    EndLabel        string     `json:"end_label"`
    Hours           int        `json:"hours"`
    TotalPrice      int64      `json:"total_price"`
    Status          string     `json:"status"`
    PaymentMethod   string     `json:"payment_method"`
    IsWalkIn        bool       `json:"is_walk_in"`
    ProofImageURL   *string    `json:"proof_image_url,omitempty"`
    PaymentDeadline *time.Time `json:"payment_deadline,omitempty"`
    CreatedAt       time.Time  `json:"created_at"`
    UpdatedAt       time.Time  `json:"updated_at"`
}

// Row pairs a booking with the display name resolved from the users
// table; walk-ins resolve to their recorded free-text name.
type Row struct {
    model.Booking
    DisplayName string
}

// Aggregate folds an unordered list of hour-rows into logical bookings.
//
// Rows sharing a group id always merge.  Rows without one (data that
// predates group ids) fall back to the heuristic key: same date, field,
// customer, status and a shared 10-second created_at bucket.  The bucket
// is an approximation — it assumes one logical action is one burst of
// near-simultaneous inserts — but customer identity in the key keeps
// unrelated customers apart even when their submissions collide in time.
//
// Output is sorted by created_at descending.  The hour counts of the
// returned groups always sum to len(rows).
func Aggregate(rows []Row, pricePerHour int64) []Group {
    groups := make(map[string]*Group)
    order := make([]string, 0, len(rows))

    for _, r := range rows {
        key := groupKey(r.Booking)
        g, ok := groups[key]
        if !ok {
            g = &Group{
                GroupID:         r.GroupID,
                IDs:             []uint64{r.ID},
                FieldID:         r.FieldID,
                Date:            r.Date,
                CustomerName:    r.DisplayName,
                StartHour:       r.StartHour,
                EndHour:         r.StartHour + 1,
                Hours:           1,
                TotalPrice:      pricePerHour,
                Status:          r.Status,
                PaymentMethod:   r.PaymentMethod,
                IsWalkIn:        r.IsWalkIn,
                ProofImageURL:   r.ProofImageURL,
                PaymentDeadline: r.PaymentDeadline,
                CreatedAt:       r.CreatedAt,
                UpdatedAt:       r.UpdatedAt,
            }
            groups[key] = g
            order = append(order, key)
            continue
        }
        g.IDs = append(g.IDs, r.ID)
        g.Hours++
        g.TotalPrice += pricePerHour
        if r.StartHour < g.StartHour {
            g.StartHour = r.StartHour
        }
        if r.StartHour+1 > g.EndHour {
            g.EndHour = r.StartHour + 1
        }
        if r.CreatedAt.Before(g.CreatedAt) {
            g.CreatedAt = r.CreatedAt
        }
        if r.UpdatedAt.After(g.UpdatedAt) {
            g.UpdatedAt = r.UpdatedAt
        }
        if g.PaymentDeadline == nil && r.PaymentDeadline != nil {
            g.PaymentDeadline = r.PaymentDeadline
        }
        if g.ProofImageURL == nil && r.ProofImageURL != nil {
            g.ProofImageURL = r.ProofImageURL
        }
    }

    out := make([]Group, 0, len(groups))
    for _, key := range order {
        g := groups[key]
        sort.Slice(g.IDs, func(i, j int) bool { return g.IDs[i] < g.IDs[j] })
        g.StartLabel = fmt.Sprintf("%02d:00", g.StartHour)
        if g.EndHour == schedule.HoursPerDay {
            g.EndLabel = "24:00"
        } else {
            g.EndLabel = fmt.Sprintf("%02d:00", g.EndHour)
        }
        out = append(out, *g)
    }
    sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
    return out
}

// groupKey picks the bucket a row belongs to.  The explicit group id
// wins; the time-bucket key only exists for rows written before group
// ids were introduced.
func groupKey(b model.Booking) string {
    if b.GroupID != "" {
        return "g:" + b.GroupID
    }
    bucket := b.CreatedAt.UnixMilli() / groupWindow.Milliseconds()
    return "t:" + b.Date + "|" + strconv.FormatUint(b.FieldID, 10) + "|" +
        b.CustomerRef() + "|" + b.Status + "|" + strconv.FormatInt(bucket, 10)
}
