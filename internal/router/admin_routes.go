package router

import (
    "github.com/labstack/echo/v4"

    "github.com/estadio/futsal-booking/internal/handler"
    "github.com/estadio/futsal-booking/internal/middleware"
    "github.com/estadio/futsal-booking/internal/model"
)

// RegisterAdmin registers the staff surface under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.  Staff work the full
// booking ledger, record walk-ins, and read reports and the dashboard.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
    g := e.Group(
        "/v1/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin),
    )
    g.GET("/bookings", h.ListBookings)
    g.POST("/bookings", h.CreateWalkIn)
    g.PATCH("/bookings/:group", h.PatchBooking)
    g.GET("/reports", h.Reports)
    g.GET("/dashboard", h.Dashboard)
}
