package schedule

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func TestBuildDayClassifiesAllSlots(t *testing.T) {
    clock := fixedClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
    slots := BuildDay("2024-06-01", nil, clock)

    require.Len(t, slots, HoursPerDay)
    for i, s := range slots {
        assert.Equal(t, i, s.Hour)
        assert.Contains(t, []string{StateAvailable, StateBooked, StatePast}, s.State)
    }
}

func TestBuildDayBookedSlot(t *testing.T) {
    // Future date, one non-cancelled row at 10:00.
    clock := fixedClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
    slots := BuildDay("2024-06-01", []int{10}, clock)

    assert.Equal(t, StateBooked, slots[10].State)
    assert.Equal(t, StateAvailable, slots[9].State)
    assert.Equal(t, StateAvailable, slots[11].State)
}

func TestBuildDayPastRules(t *testing.T) {
    now := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
    clock := fixedClock{t: now}

    tests := []struct {
        name string
        date string
        hour int
        want string
    }{
        {name: "earlier today is past", date: "2024-06-01", hour: 9, want: StatePast},
        {name: "current hour is past", date: "2024-06-01", hour: 14, want: StatePast},
        {name: "next hour today is open", date: "2024-06-01", hour: 15, want: StateAvailable},
        {name: "yesterday wholly past", date: "2024-05-31", hour: 23, want: StatePast},
        {name: "tomorrow never past", date: "2024-06-02", hour: 0, want: StateAvailable},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            slots := BuildDay(tt.date, nil, clock)
            assert.Equal(t, tt.want, slots[tt.hour].State)
        })
    }
}

func TestBuildDayBookedBeatsPast(t *testing.T) {
    clock := fixedClock{t: time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)}
    slots := BuildDay("2024-06-01", []int{8}, clock)
    assert.Equal(t, StateBooked, slots[8].State)
}

func TestLabelMidnightWrap(t *testing.T) {
    assert.Equal(t, "09:00-10:00", Label(9))
    assert.Equal(t, "23:00-24:00", Label(23))
}

func TestValidateSelection(t *testing.T) {
    tests := []struct {
        name    string
        hours   []int
        max     int
        want    []int
        wantErr bool
    }{
        {name: "sorted and deduped", hours: []int{16, 14, 14, 15}, max: 4, want: []int{14, 15, 16}},
        {name: "over the cap", hours: []int{1, 2, 3, 4, 5}, max: 4, wantErr: true},
        {name: "unlimited for staff", hours: []int{1, 2, 3, 4, 5, 6}, max: 0, want: []int{1, 2, 3, 4, 5, 6}},
        {name: "empty selection", hours: nil, max: 4, wantErr: true},
        {name: "hour out of range", hours: []int{24}, max: 4, wantErr: true},
        {name: "negative hour", hours: []int{-1}, max: 4, wantErr: true},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got, err := ValidateSelection(tt.hours, tt.max)
            if tt.wantErr {
                require.Error(t, err)
                return
            }
            require.NoError(t, err)
            assert.Equal(t, tt.want, got)
        })
    }
}
