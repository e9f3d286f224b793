package handler

import (
    "errors"   // for errors.Is comparisons
    "net/http" // HTTP status codes
    "sort"     // ordering the notification feed
    "strings"  // request normalization
    "time"     // deadlines and date checks

    "github.com/google/uuid"      // booking group ids
    "github.com/labstack/echo/v4" // Echo web framework
    "github.com/sirupsen/logrus"  // structured logging

    "github.com/estadio/futsal-booking/internal/booking"
    "github.com/estadio/futsal-booking/internal/config"
    "github.com/estadio/futsal-booking/internal/model"
    "github.com/estadio/futsal-booking/internal/queue"
    "github.com/estadio/futsal-booking/internal/repository"
    "github.com/estadio/futsal-booking/internal/schedule"
    "github.com/estadio/futsal-booking/internal/storage"
    queue_publisher "github.com/estadio/futsal-booking/internal/service"
)

// BookingHandler covers the customer-facing booking flow: submitting a
// booking, listing and cancelling own bookings, uploading payment
// proofs and reading the notification feed.  All methods assume JWT
// authentication has already run; ownership of a booking group is
// enforced in the repository.
type BookingHandler struct {
    Cfg      config.Config
    Fields   *repository.FieldRepo
    Bookings *repository.BookingRepo
    Proofs   *storage.ProofStore
    Clock    schedule.Clock
    Log      *logrus.Logger
    Publish  bool
}

// NewBookingHandler constructs a BookingHandler.  All dependencies
// must be non-nil.
func NewBookingHandler(cfg config.Config, fields *repository.FieldRepo, bookings *repository.BookingRepo, proofs *storage.ProofStore, clock schedule.Clock, log *logrus.Logger, publish bool) *BookingHandler {
    if fields == nil || bookings == nil || proofs == nil || clock == nil || log == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Cfg: cfg, Fields: fields, Bookings: bookings, Proofs: proofs, Clock: clock, Log: log, Publish: publish}
}

type createBookingReq struct {
    FieldID       uint64 `json:"field_id"`
    Date          string `json:"date"`
    Hours         []int  `json:"hours"`
    PaymentMethod string `json:"payment_method"`
}

// Create handles POST /v1/bookings.  One submission books up to the
// self-service cap of consecutive-or-not hours on one field and date;
// every hour is written in a single transaction so the booking either
// lands whole or not at all.  Pay-on-site bookings get a payment
// deadline; missing it hands the slots back via the expiry worker.
func (h *BookingHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.FieldID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "field_id required"})
    }
    method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
    if !model.ValidPaymentMethod(method) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be bank_transfer or pay_on_site"})
    }
    if _, err := time.Parse(schedule.DateLayout, req.Date); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
    }
    hours, err := schedule.ValidateSelection(req.Hours, h.Cfg.MaxSelfServiceHours)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    now := h.Clock.Now()
    today := now.Format(schedule.DateLayout)
    if req.Date < today {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is in the past"})
    }
    if req.Date == today {
        for _, hr := range hours {
            if hr <= now.Hour() {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot already started"})
            }
        }
    }

    ctx := c.Request().Context()
    if _, err := h.Fields.GetByID(ctx, req.FieldID); err != nil {
        if err == repository.ErrFieldNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    group := uuid.NewString()
    var deadline *time.Time
    if method == model.PaymentOnSite {
        d := booking.Deadline(now.UTC(), time.Duration(h.Cfg.PaymentWaitMinutes)*time.Minute)
        deadline = &d
    }
    rows := make([]model.Booking, 0, len(hours))
    for _, hr := range hours {
        rows = append(rows, model.Booking{
            GroupID:         group,
            FieldID:         req.FieldID,
            Date:            req.Date,
            StartHour:       hr,
            UserID:          &userID,
            Status:          model.StatusPending,
            PaymentMethod:   method,
            PaymentDeadline: deadline,
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
        Action:     queue.ActionCreated,
        GroupID:    group,
        FieldID:    req.FieldID,
        Date:       req.Date,
        Hours:      hours,
        Status:     model.StatusPending,
        UserID:     &userID,
        TotalPrice: total,
        OccurredAt: now.UTC().Format(time.RFC3339),
    })

    resp := echo.Map{
        "group_id":    group,
        "field_id":    req.FieldID,
        "date":        req.Date,
        "hours":       hours,
        "total_price": total,
        "status":      model.StatusPending,
    }
    if deadline != nil {
        resp["payment_deadline"] = deadline.Format(time.RFC3339)
    }
    return c.JSON(http.StatusCreated, resp)
}

// MyBookings handles GET /v1/my-bookings.  Hour-rows are folded into
// logical bookings before display; pay-on-site entries still pending
// carry a countdown to their payment deadline.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    rows, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    groups := booking.Aggregate(rows, h.Cfg.PricePerHour)
    now := h.Clock.Now()
    items := make([]echo.Map, 0, len(groups))
    for _, g := range groups {
        item := echo.Map{"booking": g}
        if g.Status == model.StatusPending && g.PaymentDeadline != nil {
            item["pay_within_seconds"] = int64(booking.Remaining(*g.PaymentDeadline, now).Seconds())
        }
        items = append(items, item)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cancel handles POST /v1/bookings/:group/cancel.  Only still-pending
// rows of the group are cancelled; a booking an admin already decided
// returns 409.
func (h *BookingHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    group := strings.TrimSpace(c.Param("group"))
    if group == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking group"})
    }
    ctx := c.Request().Context()
    if err := h.Bookings.CancelGroupForUser(ctx, group, userID); err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "booking already decided"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
    }

    if rows, err := h.Bookings.ListByGroup(ctx, group); err == nil && len(rows) > 0 {
        hours := make([]int, 0, len(rows))
        for _, r := range rows {
            hours = append(hours, r.StartHour)
        }
        h.publishEvent(c, queue.BookingChangedEvent{
            Action:     queue.ActionCancelled,
            GroupID:    group,
            FieldID:    rows[0].FieldID,
            Date:       rows[0].Date,
            Hours:      hours,
            Status:     model.StatusCancelled,
            UserID:     &userID,
            OccurredAt: h.Clock.Now().UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"group_id": group, "status": model.StatusCancelled})
}

// UploadProof handles POST /v1/bookings/proof.  Multipart form with a
// group_id field and a proof image.  The file lands on disk under a
// UUID name and its URL is recorded on every pending bank-transfer row
// of the group.
func (h *BookingHandler) UploadProof(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    group := strings.TrimSpace(c.FormValue("group_id"))
    if group == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "group_id required"})
    }
    fh, err := c.FormFile("proof")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "proof file required"})
    }
    src, err := fh.Open()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read upload"})
    }
    defer src.Close()

    url, err := h.Proofs.Save(src, fh.Filename)
    if err != nil {
        if errors.Is(err, storage.ErrUnsupportedType) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported file type"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store proof"})
    }

    if err := h.Bookings.AttachProof(c.Request().Context(), group, userID, url); err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "no pending bank transfer booking in group"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to attach proof"})
    }
    return c.JSON(http.StatusOK, echo.Map{"group_id": group, "proof_image_url": url})
}

// Notifications handles GET /v1/notifications.  The feed is the
// user's decided bookings (confirmed or cancelled), most recently
// updated first.
func (h *BookingHandler) Notifications(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    rows, err := h.Bookings.ListNotificationsForUser(c.Request().Context(), userID, 50)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
    }
    groups := booking.Aggregate(rows, h.Cfg.PricePerHour)
    sort.SliceStable(groups, func(i, j int) bool { return groups[i].UpdatedAt.After(groups[j].UpdatedAt) })
    return c.JSON(http.StatusOK, echo.Map{"items": groups})
}

// publishEvent sends a booking event to the broker, logging failures
// without failing the request.
func (h *BookingHandler) publishEvent(c echo.Context, ev queue.BookingChangedEvent) {
    if !h.Publish {
        return
    }
    if err := queue_publisher.PublishBookingChanged(c.Request().Context(), ev); err != nil {
        h.Log.WithError(err).WithField("group_id", ev.GroupID).Warn("booking event publish failed")
    }
}
