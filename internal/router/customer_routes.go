package router

import (
    "github.com/labstack/echo/v4"

    "github.com/estadio/futsal-booking/internal/handler"
    "github.com/estadio/futsal-booking/internal/middleware"
    "github.com/estadio/futsal-booking/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers submit
// bookings, list and cancel their own, upload payment proofs and read
// their notification feed.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleCustomer),
    )
    if limiter != nil {
        g.Use(limiter)
    }
    g.POST("/bookings", h.Create)
    g.POST("/bookings/proof", h.UploadProof)
    g.POST("/bookings/:group/cancel", h.Cancel)
    g.GET("/my-bookings", h.MyBookings)
    g.GET("/notifications", h.Notifications)
}
