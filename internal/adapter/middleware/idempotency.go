package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"library-borrowing/pkg/id"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestAt      = "X-Request-At"
	HeaderUserID         = "X-User-Id"

	// How long the "in-progress" lock lives if the handler never finishes.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for X-Request-At.
	maxClockSkew = 10 * time.Minute
	redisTimeout = 2 * time.Second
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	Key         string    `json:"key"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

func errJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// Idempotency guards mutating borrowing calls (create, approve, reject).
// A retried request with the same key and body replays the first response;
// the same key with another body, or while the first is running, is a 409.
// 5xx outcomes are not kept so the caller can retry after a store outage.
// X-Request-At must be epoch (s or ms) or RFC 3339 with a zone.
func Idempotency(rdb redis.Cmdable, ttl time.Duration, l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			key := strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey))
			if key == "" {
				return errJSON(c, http.StatusBadRequest, "missing "+HeaderIdempotencyKey)
			}
			if !id.Valid(key) {
				return errJSON(c, http.StatusBadRequest, "invalid "+HeaderIdempotencyKey+" format")
			}

			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return errJSON(c, http.StatusBadRequest, err.Error())
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return errJSON(c, http.StatusBadRequest, HeaderRequestAt+" too skewed")
			}

			userID, ok := parseUserID(req.Header.Get(HeaderUserID))
			if !ok {
				return errJSON(c, http.StatusBadRequest, "missing or invalid "+HeaderUserID)
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			bhash := bodyHash(body)

			rkey := buildKey(req.Method, req.URL.Path, userID, key)
			ctx, cancel := context.WithTimeout(req.Context(), redisTimeout)
			defer cancel()

			acquired, err := provisionalSet(ctx, rdb, rkey, idempEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				Key:         key,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			})
			if err != nil {
				l.Error("idempotency store unavailable", "key", rkey, "err", err)
				return errJSON(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !acquired {
				cur, err := loadEntry(ctx, rdb, rkey)
				if err != nil {
					l.Warn("idempotency entry unreadable", "key", rkey, "err", err)
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return errJSON(c, http.StatusConflict, HeaderIdempotencyKey+" reused with different body")
				}
				if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
					c.Response().Header().Set("Idempotent-Replayed", "true")
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return errJSON(c, http.StatusConflict, "request is already in progress")
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// detached: the client may already be gone
			bg, cancelBG := context.WithTimeout(context.Background(), redisTimeout)
			defer cancelBG()
			if rec.code >= http.StatusInternalServerError {
				if err := rdb.Del(bg, rkey).Err(); err != nil {
					l.Warn("idempotency release failed", "key", rkey, "err", err)
				}
				return nil
			}
			if err := saveFinal(bg, rdb, rkey, idempEntry{
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				Key:         key,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}, ttl); err != nil {
				l.Warn("idempotency save failed", "key", rkey, "err", err)
			}
			return nil
		}
	}
}
