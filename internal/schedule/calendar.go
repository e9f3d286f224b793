// Package schedule builds the daily slot grid for a field.  A day is a
// fixed sequence of 24 one-hour slots; classification is a pure function
// of the existing bookings for that field/date plus a clock reading, so
// the package carries no state and talks to no storage.
package schedule

import (
    "fmt"
    "sort"
    "time"
)

// HoursPerDay is the number of bookable slots in one calendar day.
const HoursPerDay = 24

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

// Slot states.  Every slot gets exactly one of these.
const (
    StateAvailable = "available"
    StateBooked    = "booked"
    StatePast      = "past"
)

// Clock supplies the current time.  Injecting it keeps the "past"
// classification testable against a fixed instant.
type Clock interface {
    Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Slot is one classified hour of the grid.
type Slot struct {
    Hour  int    `json:"hour"`  // 0..23
    Label string `json:"label"` // "HH:00-HH:00", midnight shown as 24:00
    State string `json:"state"` // available | booked | past
}

// Label renders the display label for a start hour.  The slot starting
// at 23 wraps past midnight and is shown as "23:00-24:00" rather than
// "23:00-00:00", matching how the venue prints its schedule board.
func Label(hour int) string {
    end := hour + 1
    if end == HoursPerDay {
        return fmt.Sprintf("%02d:00-24:00", hour)
    }
    return fmt.Sprintf("%02d:00-%02d:00", hour, end)
}

// BuildDay classifies all 24 slots of date for one field.  bookedHours
// lists the start hours of non-cancelled rows already in the ledger.
// Booked wins over past: a slot that is both taken and already behind
// the clock reads as booked, which is what the grid should show.
//
// The "past" rule is whole-hour: on the current day every slot whose
// start hour is <= the current hour is past (a 14:30 clock closes the
// 14:00 slot).  Days before today are wholly past, future days never.
func BuildDay(date string, bookedHours []int, clock Clock) []Slot {
    booked := make(map[int]bool, len(bookedHours))
    for _, h := range bookedHours {
        if h >= 0 && h < HoursPerDay {
            booked[h] = true
        }
    }

    now := clock.Now()
    today := now.Format(DateLayout)

    slots := make([]Slot, 0, HoursPerDay)
    for h := 0; h < HoursPerDay; h++ {
        s := Slot{Hour: h, Label: Label(h)}
        switch {
        case booked[h]:
            s.State = StateBooked
        case date < today:
            s.State = StatePast
        case date == today && h <= now.Hour():
            s.State = StatePast
        default:
            s.State = StateAvailable
        }
        slots = append(slots, s)
    }
    return slots
}

// ValidateSelection checks a set of requested start hours against the
// grid rules before anything is written.  maxHours caps the selection
// (0 means unlimited, the staff walk-in path).  It rejects duplicates,
// out-of-range hours and empty selections; availability itself is the
// ledger's decision at insert time, not ours.
func ValidateSelection(hours []int, maxHours int) ([]int, error) {
    if len(hours) == 0 {
        return nil, fmt.Errorf("no hours selected")
    }
    seen := make(map[int]bool, len(hours))
    out := make([]int, 0, len(hours))
    for _, h := range hours {
        if h < 0 || h >= HoursPerDay {
            return nil, fmt.Errorf("hour %d out of range", h)
        }
        if seen[h] {
            continue
        }
        seen[h] = true
        out = append(out, h)
    }
    if maxHours > 0 && len(out) > maxHours {
        return nil, fmt.Errorf("at most %d hours per booking", maxHours)
    }
    sort.Ints(out)
    return out, nil
}
