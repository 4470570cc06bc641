package middleware

import (
	"context"
	"net/http"

	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// FormSessionCookieName identifies one visitor's contact form across requests.
	FormSessionCookieName = "contact_session"
	formSessionMaxAge     = 2 * 60 * 60

	// IdempotencyKeyHeader lets API clients without a session scope the submit guard
	// themselves, so callers sharing one address do not block each other.
	IdempotencyKeyHeader    = "Idempotency-Key"
	maxIdempotencyKeyLength = 128
)

// FormSession makes sure the visitor carries a contact_session cookie. Its value keys
// the submit guard so a second submit from the same form is rejected while the first
// is in flight.
func FormSession(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(FormSessionCookieName)
		if _, perr := uuid.Parse(id); err != nil || perr != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(FormSessionCookieName, id, formSessionMaxAge, "/", "", secure, true)
		}

		c.Set(FormSessionCookieName, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), domain.KeyFormSession, id))
		c.Next()
	}
}

// SubmitGuardKey scopes duplicate-submit detection: the form session when the visitor
// has one, then a well-formed Idempotency-Key header, the client IP otherwise.
func SubmitGuardKey(c *gin.Context) string {
	if id := c.GetString(FormSessionCookieName); id != "" {
		return "session:" + id
	}
	if id, err := c.Cookie(FormSessionCookieName); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return "session:" + id
		}
	}
	if key := c.GetHeader(IdempotencyKeyHeader); validIdempotencyKey(key) {
		return "key:" + key
	}
	return "ip:" + c.ClientIP()
}

// validIdempotencyKey accepts 1 to 128 visible ASCII characters.
func validIdempotencyKey(key string) bool {
	if key == "" || len(key) > maxIdempotencyKeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] <= ' ' || key[i] > '~' {
			return false
		}
	}
	return true
}
