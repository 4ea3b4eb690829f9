package handler

import (
    "io"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/labstack/gommon/log"
    "github.com/redis/go-redis/v9"
)

// scheduleCacheKey stores the upstream feed body in Redis.
const scheduleCacheKey = "schedule:feed"

// maxScheduleBody caps how much of the upstream response is read.
const maxScheduleBody = 4 << 20

// ScheduleHandler proxies the public read-only official shift
// schedule feed for the display overlay. The feed has no effect on
// booking logic; it is cached aggressively because upstream rotates
// on a multi-hour cadence.
type ScheduleHandler struct {
    FeedURL string
    Redis   *redis.Client // nil disables caching
    TTL     time.Duration
    Client  *http.Client
}

// NewScheduleHandler constructs a ScheduleHandler. A nil Redis client
// is allowed; every request then hits the upstream feed directly.
func NewScheduleHandler(feedURL string, rdb *redis.Client, ttl time.Duration) *ScheduleHandler {
    return &ScheduleHandler{
        FeedURL: feedURL,
        Redis:   rdb,
        TTL:     ttl,
        Client:  &http.Client{Timeout: 10 * time.Second},
    }
}

// Get handles GET /api/schedule. It serves the cached feed body when
// present and otherwise fetches upstream, caching the result.
func (h *ScheduleHandler) Get(c echo.Context) error {
    ctx := c.Request().Context()

    if h.Redis != nil {
        if body, err := h.Redis.Get(ctx, scheduleCacheKey).Bytes(); err == nil && len(body) > 0 {
            c.Response().Header().Set("X-Cache", "HIT")
            return c.JSONBlob(http.StatusOK, body)
        }
    }

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.FeedURL, nil)
    if err != nil {
        log.Errorf("schedule feed request build failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch official schedule."})
    }
    resp, err := h.Client.Do(req)
    if err != nil {
        log.Warnf("schedule feed fetch failed: %v", err)
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "Official schedule feed unavailable."})
    }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        log.Warnf("schedule feed returned status %d", resp.StatusCode)
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "Official schedule feed unavailable."})
    }
    body, err := io.ReadAll(io.LimitReader(resp.Body, maxScheduleBody))
    if err != nil {
        log.Warnf("schedule feed read failed: %v", err)
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "Official schedule feed unavailable."})
    }

    if h.Redis != nil {
        if err := h.Redis.SetEx(ctx, scheduleCacheKey, body, h.TTL).Err(); err != nil {
            log.Warnf("schedule feed cache write failed: %v", err)
        }
    }
    c.Response().Header().Set("X-Cache", "MISS")
    return c.JSONBlob(http.StatusOK, body)
}
