package handler

import (
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters
    "time"     // date validation

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/estadio/futsal-booking/internal/cache"      // Redis slot cache
    "github.com/estadio/futsal-booking/internal/repository" // repository layer
    "github.com/estadio/futsal-booking/internal/schedule"   // day grid construction
)

// FieldHandler serves the public field catalogue and the per-day slot
// grid.  The grid is the page every visitor lands on, so reads go
// through the Redis slot cache; the cache is purged by the queue
// consumer whenever a booking for the field and date changes.
type FieldHandler struct {
    Fields   *repository.FieldRepo
    Bookings *repository.BookingRepo
    Slots    *cache.SlotCache
    Clock    schedule.Clock
}

// NewFieldHandler constructs a FieldHandler with the provided
// dependencies.  All dependencies must be non-nil.
func NewFieldHandler(fields *repository.FieldRepo, bookings *repository.BookingRepo, slots *cache.SlotCache, clock schedule.Clock) *FieldHandler {
    if fields == nil || bookings == nil || slots == nil || clock == nil {
        panic("nil dependency passed to NewFieldHandler")
    }
    return &FieldHandler{Fields: fields, Bookings: bookings, Slots: slots, Clock: clock}
}

// ListFields handles GET /v1/fields.  It returns the venue's fields.
func (h *FieldHandler) ListFields(c echo.Context) error {
    fields, err := h.Fields.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load fields"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": fields})
}

// GetSlots handles GET /v1/fields/:id/slots?date=YYYY-MM-DD.  It
// returns all 24 hourly slots of the requested day, each classified as
// available, booked or past.  The date defaults to today.
func (h *FieldHandler) GetSlots(c echo.Context) error {
    fieldID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || fieldID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
    }
    date := c.QueryParam("date")
    if date == "" {
        date = h.Clock.Now().Format(schedule.DateLayout)
    }
    if _, err := time.Parse(schedule.DateLayout, date); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
    }

    ctx := c.Request().Context()
    if _, err := h.Fields.GetByID(ctx, fieldID); err != nil {
        if err == repository.ErrFieldNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    // Only the booked hours are cached.  The past/available split
    // depends on the clock, so the grid itself is rebuilt per request.
    booked, ok := h.Slots.Get(ctx, fieldID, date)
    if !ok {
        booked, err = h.Bookings.BookedStartHours(ctx, fieldID, date)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
        }
        h.Slots.Set(ctx, fieldID, date, booked)
    }
    slots := schedule.BuildDay(date, booked, h.Clock)
    return c.JSON(http.StatusOK, echo.Map{"field_id": fieldID, "date": date, "slots": slots})
}
