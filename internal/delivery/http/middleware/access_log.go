package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err)
		}

		owner := "-"
		if id := Identity(c); id.Authenticated() {
			owner = id.UserID.String()
		}

		m.logger.Printf(
			"[HTTP] access rid=%s ip=%s method=%s path=%s status=%d latency=%s owner=%s req_bytes=%d ua=%q",
			rid, c.IP(), c.Method(), c.OriginalURL(), status, time.Since(start), owner,
			c.Request().Header.ContentLength(), c.Get("User-Agent"),
		)

		return err
	}
}

func errorStatus(err error) int {
	status, _, _ := normalizeError(err)
	return status
}
