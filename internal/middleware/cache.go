package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/grizzco/salmon-run-scheduler/internal/config"
)

// bodyCapture tees the response body into a buffer, up to a limit,
// while forwarding it to the client.
type bodyCapture struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (w *bodyCapture) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
    if w.size < w.limit {
        if remain := w.limit - w.size; int64(len(b)) <= remain {
            w.buf.Write(b)
        } else {
            w.buf.Write(b[:remain])
        }
    }
    w.size += int64(len(b))
    return w.ResponseWriter.Write(b)
}

// NewResponseCache caches successful JSON GET responses in Redis for
// cfg.TTL. Only status 200 bodies within the size limit are stored.
// All cached endpoints emit JSON, so hits are replayed with the JSON
// content type.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 10 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            r := c.Request()
            if r.Method != http.MethodGet {
                return next(c)
            }
            sum := sha1.Sum([]byte(r.Method + ":" + c.Path() + "?" + r.URL.RawQuery))
            key := fmt.Sprintf("%s:%x", cfg.Prefix, sum)

            if body, err := rdb.Get(r.Context(), key).Bytes(); err == nil && len(body) > 0 {
                c.Response().Header().Set("X-Cache", "HIT")
                return c.JSONBlob(http.StatusOK, body)
            }

            w := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
            c.Response().Writer = w
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if w.status == http.StatusOK && w.size <= w.limit {
                // Store in the background; the response is already on
                // its way to the client.
                _ = rdb.SetEx(context.Background(), key, w.buf.Bytes(), ttl).Err()
            }
            return nil
        }
    }
}
