package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/grizzco/salmon-run-scheduler/internal/handler"
)

// Routes bundles the handlers and optional middleware applied when
// registering the API surface. RateLimit and AvailabilityCache may
// be nil when Redis is unavailable.
type Routes struct {
    Availability *handler.AvailabilityHandler
    Booking      *handler.BookingHandler
    Schedule     *handler.ScheduleHandler

    RateLimit         echo.MiddlewareFunc
    AvailabilityCache echo.MiddlewareFunc
}

// Register wires all endpoints onto the provided Echo instance. The
// paths mirror what the frontend consumes:
//
//	GET  /healthz           – health check
//	POST /api/availability  – host publishes a block of free time
//	GET  /api/availability  – visitors list unbooked slots
//	POST /api/bookings      – visitor books a slot id or a time range
//	GET  /api/schedule      – official shift schedule overlay
func Register(e *echo.Echo, r Routes) {
    e.GET("/healthz", handler.Health)

    api := e.Group("/api")
    if r.RateLimit != nil {
        api.Use(r.RateLimit)
    }

    api.POST("/availability", r.Availability.Publish)
    if r.AvailabilityCache != nil {
        api.GET("/availability", r.Availability.List, r.AvailabilityCache)
    } else {
        api.GET("/availability", r.Availability.List)
    }
    api.POST("/bookings", r.Booking.Create)
    api.GET("/schedule", r.Schedule.Get)
}
