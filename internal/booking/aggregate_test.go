package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/estadio/futsal-booking/internal/model"
)

const testPrice int64 = 150000

func row(id uint64, group string, date string, field uint64, hour int, name string, status string, created time.Time) Row {
    return Row{
        Booking: model.Booking{
            ID:            id,
            GroupID:       group,
            FieldID:       field,
            Date:          date,
            StartHour:     hour,
            CustomerName:  &name,
            Status:        status,
            PaymentMethod: model.PaymentOnSite,
            CreatedAt:     created,
        },
        DisplayName: name,
    }
}

func TestAggregateFoldsOneSubmission(t *testing.T) {
    base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
    rows := []Row{
        row(1, "grp-1", "2026-09-05", 1, 14, "Budi", model.StatusPending, base),
        row(2, "grp-1", "2026-09-05", 1, 15, "Budi", model.StatusPending, base.Add(20*time.Millisecond)),
        row(3, "grp-1", "2026-09-05", 1, 16, "Budi", model.StatusPending, base.Add(40*time.Millisecond)),
        row(4, "grp-1", "2026-09-05", 1, 17, "Budi", model.StatusPending, base.Add(60*time.Millisecond)),
    }

    groups := Aggregate(rows, testPrice)
    require.Len(t, groups, 1)

    g := groups[0]
    assert.Equal(t, []uint64{1, 2, 3, 4}, g.IDs)
    assert.Equal(t, 14, g.StartHour)
    assert.Equal(t, 18, g.EndHour)
    assert.Equal(t, "14:00", g.StartLabel)
    assert.Equal(t, "18:00", g.EndLabel)
    assert.Equal(t, 4, g.Hours)
    assert.Equal(t, 4*testPrice, g.TotalPrice)
    assert.Equal(t, "Budi", g.CustomerName)
}

func TestAggregateSeparatesCustomersInSameBucket(t *testing.T) {
    at := time.Date(2026, 9, 1, 12, 0, 1, 0, time.UTC)
    rows := []Row{
        row(1, "", "2026-09-05", 1, 10, "Budi", model.StatusPending, at),
        row(2, "", "2026-09-05", 1, 11, "Sari", model.StatusPending, at),
    }

    groups := Aggregate(rows, testPrice)
    require.Len(t, groups, 2)
    assert.NotEqual(t, groups[0].CustomerName, groups[1].CustomerName)
}

func TestAggregateBucketFallbackSplitsDistantRows(t *testing.T) {
    // Legacy rows without a group id: same customer, same field, same
    // date, but created a minute apart are two bookings.
    base := time.Date(2026, 9, 1, 12, 0, 1, 0, time.UTC)
    rows := []Row{
        row(1, "", "2026-09-05", 1, 10, "Budi", model.StatusPending, base),
        row(2, "", "2026-09-05", 1, 11, "Budi", model.StatusPending, base.Add(time.Minute)),
    }

    groups := Aggregate(rows, testPrice)
    require.Len(t, groups, 2)
}

func TestAggregateGroupIDWinsOverTime(t *testing.T) {
    // Explicit group id merges rows even when created_at drifts across
    // the bucket boundary.
    base := time.Date(2026, 9, 1, 12, 0, 9, 900_000_000, time.UTC)
    rows := []Row{
        row(1, "grp-9", "2026-09-05", 1, 10, "Budi", model.StatusPending, base),
        row(2, "grp-9", "2026-09-05", 1, 11, "Budi", model.StatusPending, base.Add(200*time.Millisecond)),
    }

    groups := Aggregate(rows, testPrice)
    require.Len(t, groups, 1)
    assert.Equal(t, 2, groups[0].Hours)
}

func TestAggregateSeparatesStatuses(t *testing.T) {
    at := time.Date(2026, 9, 1, 12, 0, 1, 0, time.UTC)
    rows := []Row{
        row(1, "", "2026-09-05", 1, 10, "Budi", model.StatusPending, at),
        row(2, "", "2026-09-05", 1, 11, "Budi", model.StatusConfirmed, at),
    }

    groups := Aggregate(rows, testPrice)
    require.Len(t, groups, 2)
}

func TestAggregateHourConservation(t *testing.T) {
    base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
    rows := []Row{
        row(1, "a", "2026-09-05", 1, 8, "Budi", model.StatusPending, base),
        row(2, "a", "2026-09-05", 1, 9, "Budi", model.StatusPending, base),
        row(3, "b", "2026-09-05", 2, 9, "Sari", model.StatusConfirmed, base.Add(time.Hour)),
        row(4, "", "2026-09-06", 1, 20, "Joko", model.StatusPending, base.Add(2*time.Hour)),
        row(5, "", "2026-09-06", 1, 21, "Joko", model.StatusPending, base.Add(2*time.Hour+time.Second)),
    }

    groups := Aggregate(rows, testPrice)
    total := 0
    for _, g := range groups {
        total += g.Hours
    }
    assert.Equal(t, len(rows), total)
}

func TestAggregateSortsNewestFirst(t *testing.T) {
    base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
    rows := []Row{
        row(1, "old", "2026-09-05", 1, 8, "Budi", model.StatusPending, base),
        row(2, "new", "2026-09-05", 2, 8, "Sari", model.StatusPending, base.Add(time.Hour)),
    }

    groups := Aggregate(rows, testPrice)
    require.Len(t, groups, 2)
    assert.Equal(t, "new", groups[0].GroupID)
    assert.Equal(t, "old", groups[1].GroupID)
}

func TestAggregateMidnightLabel(t *testing.T) {
    at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
    rows := []Row{row(1, "g", "2026-09-05", 1, 23, "Budi", model.StatusConfirmed, at)}

    groups := Aggregate(rows, testPrice)
    require.Len(t, groups, 1)
    assert.Equal(t, "23:00", groups[0].StartLabel)
    assert.Equal(t, "24:00", groups[0].EndLabel)
}
