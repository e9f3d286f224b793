package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/estadio/futsal-booking/internal/handler"    // import the handlers that implement business logic
    "github.com/estadio/futsal-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
    "github.com/estadio/futsal-booking/internal/model"      // role constants
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // The /healthz endpoint can be used by load balancers or monitoring
    // systems to verify that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Operations that do not require an existing session: register,
    // login and the two refresh variants.
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // /refresh rotates the refresh token; /refresh-access only issues a
    // new access token.
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout does not require JWT authentication: a refresh token in
    // the body is enough to terminate a single session.
    g.POST("/logout", a.Logout)

    // Routes that require a valid access token.  Both roles may call
    // /v1/me.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
    auth.GET("/me", a.Me)

    // Also map POST /v1/logout to the same handler so clients can call
    // either path with a refresh token in the body.
    e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// field catalogue and the per-day slot grid.  Guests check
// availability before creating an account, so neither route applies
// JWT middleware; the rate limiter still applies when provided.
func RegisterPublic(e *echo.Echo, f *handler.FieldHandler, limiter echo.MiddlewareFunc) {
    g := e.Group("/v1")
    if limiter != nil {
        g.Use(limiter)
    }
    g.GET("/fields", f.ListFields)
    g.GET("/fields/:id/slots", f.GetSlots)
}
