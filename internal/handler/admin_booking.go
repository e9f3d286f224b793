package handler

import (
    "errors"   // for errors.Is comparisons
    "net/http" // HTTP status codes
    "strconv"  // parsing query parameters
    "strings"  // request normalization
    "time"     // date handling for reports

    "github.com/google/uuid"      // booking group ids for walk-ins
    "github.com/labstack/echo/v4" // Echo web framework
    "github.com/sirupsen/logrus"  // structured logging

    "github.com/estadio/futsal-booking/internal/booking"
    "github.com/estadio/futsal-booking/internal/config"
    "github.com/estadio/futsal-booking/internal/model"
    "github.com/estadio/futsal-booking/internal/queue"
    "github.com/estadio/futsal-booking/internal/repository"
    "github.com/estadio/futsal-booking/internal/schedule"
    queue_publisher "github.com/estadio/futsal-booking/internal/service"
)

// AdminHandler covers the venue staff surface: the full booking
// ledger, status decisions, walk-in entry, revenue reports and the
// dashboard.  Role middleware guarantees only ADMIN users reach these
// methods.
type AdminHandler struct {
    Cfg      config.Config
    Fields   *repository.FieldRepo
    Bookings *repository.BookingRepo
    Clock    schedule.Clock
    Log      *logrus.Logger
    Publish  bool
}

// NewAdminHandler constructs an AdminHandler.  All dependencies must
// be non-nil.
func NewAdminHandler(cfg config.Config, fields *repository.FieldRepo, bookings *repository.BookingRepo, clock schedule.Clock, log *logrus.Logger, publish bool) *AdminHandler {
    if fields == nil || bookings == nil || clock == nil || log == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{Cfg: cfg, Fields: fields, Bookings: bookings, Clock: clock, Log: log, Publish: publish}
}

// ListBookings handles GET /v1/admin/bookings.  Optional filters:
// ?date=YYYY-MM-DD, ?status=, ?field_id=.  Hour-rows are folded into
// logical bookings with resolved customer names.
func (h *AdminHandler) ListBookings(c echo.Context) error {
    f := repository.BookingFilter{
        Date:   strings.TrimSpace(c.QueryParam("date")),
        Status: strings.ToLower(strings.TrimSpace(c.QueryParam("status"))),
    }
    if f.Date != "" {
        if _, err := time.Parse(schedule.DateLayout, f.Date); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
        }
    }
    if f.Status != "" && !model.ValidStatus(f.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    if raw := c.QueryParam("field_id"); raw != "" {
        id, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || id == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field_id"})
        }
        f.FieldID = id
    }

    rows, err := h.Bookings.ListAll(c.Request().Context(), f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    groups := booking.Aggregate(rows, h.Cfg.PricePerHour)
    return c.JSON(http.StatusOK, echo.Map{"items": groups})
}

type patchBookingReq struct {
    Status string `json:"status"`
}

// PatchBooking handles PATCH /v1/admin/bookings/:group.  Confirms or
// cancels every still-pending row of the group.  The pending guard is
// enforced in SQL, so a decision that lost a race with the expiry
// sweep (or another admin) comes back as 409 instead of silently
// overwriting.
func (h *AdminHandler) PatchBooking(c echo.Context) error {
    group := strings.TrimSpace(c.Param("group"))
    if group == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking group"})
    }
    var req patchBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    status := strings.ToLower(strings.TrimSpace(req.Status))
    if status != model.StatusConfirmed && status != model.StatusCancelled {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be confirmed or cancelled"})
    }

    ctx := c.Request().Context()
    rows, err := h.Bookings.ListByGroup(ctx, group)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    ids := make([]uint64, 0, len(rows))
    hours := make([]int, 0, len(rows))
    for _, r := range rows {
        ids = append(ids, r.ID)
        hours = append(hours, r.StartHour)
    }

    n, err := h.Bookings.UpdateStatusByIDs(ctx, ids, status, model.StatusPending)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
    }
    if n == 0 {
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking already decided"})
    }

    action := queue.ActionConfirmed
    if status == model.StatusCancelled {
        action = queue.ActionCancelled
    }
    h.publishEvent(c, queue.BookingChangedEvent{
        Action:       action,
        GroupID:      group,
        FieldID:      rows[0].FieldID,
        Date:         rows[0].Date,
        Hours:        hours,
        Status:       status,
        UserID:       rows[0].UserID,
        CustomerName: rows[0].DisplayName,
        OccurredAt:   h.Clock.Now().UTC().Format(time.RFC3339),
    })
    return c.JSON(http.StatusOK, echo.Map{"group_id": group, "status": status, "rows": n})
}

type walkInReq struct {
    FieldID      uint64 `json:"field_id"`
    Date         string `json:"date"`
    Hours        []int  `json:"hours"`
    CustomerName string `json:"customer_name"`
}

// CreateWalkIn handles POST /v1/admin/bookings.  Staff record bookings
// taken at the counter or by phone; these go straight to confirmed
// since money changed hands in person, and the self-service hour cap
// does not apply.
func (h *AdminHandler) CreateWalkIn(c echo.Context) error {
    var req walkInReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.FieldID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "field_id required"})
    }
    name := strings.TrimSpace(req.CustomerName)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_name required"})
    }
    if _, err := time.Parse(schedule.DateLayout, req.Date); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
    }
    hours, err := schedule.ValidateSelection(req.Hours, 0)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx := c.Request().Context()
    if _, err := h.Fields.GetByID(ctx, req.FieldID); err != nil {
        if err == repository.ErrFieldNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    group := uuid.NewString()
    rows := make([]model.Booking, 0, len(hours))
    for _, hr := range hours {
        rows = append(rows, model.Booking{
            GroupID:       group,
            FieldID:       req.FieldID,
            Date:          req.Date,
            StartHour:     hr,
            CustomerName:  &name,
            Status:        model.StatusConfirmed,
            PaymentMethod: model.PaymentOnSite,
            IsWalkIn:      true,
        })
    }
    if err := h.Bookings.InsertHours(ctx, rows); err != nil {
        if errors.Is(err, repository.ErrDuplicateSlot) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "one or more slots were just booked"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
    }

    total := int64(len(hours)) * h.Cfg.PricePerHour
    h.publishEvent(c, queue.BookingChangedEvent{
        Action:       queue.ActionConfirmed,
        GroupID:      group,
        FieldID:      req.FieldID,
        Date:         req.Date,
        Hours:        hours,
        Status:       model.StatusConfirmed,
        CustomerName: name,
        TotalPrice:   total,
        OccurredAt:   h.Clock.Now().UTC().Format(time.RFC3339),
    })
    return c.JSON(http.StatusCreated, echo.Map{
        "group_id":    group,
        "field_id":    req.FieldID,
        "date":        req.Date,
        "hours":       hours,
        "total_price": total,
        "status":      model.StatusConfirmed,
    })
}

// Reports handles GET /v1/admin/reports?period=daily|monthly&date=.
// Revenue is confirmed hours times the flat hourly rate.  daily covers
// the one date given; monthly covers the date's whole month.
func (h *AdminHandler) Reports(c echo.Context) error {
    period := strings.ToLower(strings.TrimSpace(c.QueryParam("period")))
    if period == "" {
        period = "daily"
    }
    if period != "daily" && period != "monthly" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "period must be daily or monthly"})
    }
    date := strings.TrimSpace(c.QueryParam("date"))
    if date == "" {
        date = h.Clock.Now().Format(schedule.DateLayout)
    }
    day, err := time.Parse(schedule.DateLayout, date)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
    }

    from, to := date, date
    if period == "monthly" {
        first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
        from = first.Format(schedule.DateLayout)
        to = first.AddDate(0, 1, -1).Format(schedule.DateLayout)
    }

    ctx := c.Request().Context()
    rows, err := h.Bookings.ConfirmedHoursByDay(ctx, from, to)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build report"})
    }
    stats, err := h.Bookings.StatsForRange(ctx, from, to)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build report"})
    }
    var totalHours int64
    days := make([]echo.Map, 0, len(rows))
    for _, r := range rows {
        totalHours += r.Hours
        days = append(days, echo.Map{
            "date":    r.Date,
            "hours":   r.Hours,
            "revenue": r.Hours * h.Cfg.PricePerHour,
        })
    }
    // Success rate is the confirmed share of all hour-rows in the
    // range; pending rows count against it until they are decided.
    var successRate float64
    if total := stats.Pending + stats.Confirmed + stats.Cancelled; total > 0 {
        successRate = float64(stats.Confirmed) / float64(total)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "period":        period,
        "from":          from,
        "to":            to,
        "rate_per_hour": h.Cfg.PricePerHour,
        "total_hours":   totalHours,
        "total_revenue": totalHours * h.Cfg.PricePerHour,
        "hours":         stats,
        "success_rate":  successRate,
        "days":          days,
    })
}

// Dashboard handles GET /v1/admin/dashboard: today's per-status counts,
// today's confirmed revenue and the five most recent bookings.
func (h *AdminHandler) Dashboard(c echo.Context) error {
    ctx := c.Request().Context()
    today := h.Clock.Now().Format(schedule.DateLayout)

    stats, err := h.Bookings.StatsForDate(ctx, today)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
    }
    // Over-fetch raw rows so five whole groups survive aggregation.
    recentRows, err := h.Bookings.ListRecent(ctx, 40)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load recent bookings"})
    }
    recent := booking.Aggregate(recentRows, h.Cfg.PricePerHour)
    if len(recent) > 5 {
        recent = recent[:5]
    }
    return c.JSON(http.StatusOK, echo.Map{
        "date":    today,
        "stats":   stats,
        "revenue": stats.Confirmed * h.Cfg.PricePerHour,
        "recent":  recent,
    })
}

// publishEvent sends a booking event to the broker, logging failures
// without failing the request.
func (h *AdminHandler) publishEvent(c echo.Context, ev queue.BookingChangedEvent) {
    if !h.Publish {
        return
    }
    if err := queue_publisher.PublishBookingChanged(c.Request().Context(), ev); err != nil {
        h.Log.WithError(err).WithField("group_id", ev.GroupID).Warn("booking event publish failed")
    }
}
