package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the name of the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName is the header a script may use to send the token
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenFormField is the hidden form field rendered into HTML forms
	CSRFTokenFormField = "csrf_token"
	// CSRFTokenLength is the length of the generated token in bytes (32 bytes = 64 hex chars)
	CSRFTokenLength = 32
	// CSRFTokenExpiry is how long the token is valid
	CSRFTokenExpiry = 24 * time.Hour

	csrfContextKey = "csrf_token"
)

// generateCSRFToken creates a cryptographically secure random token
func generateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the Double-Submit Cookie pattern for the HTML pages.
//
// Every request gets a csrf_token cookie. State-changing requests must echo it in
// the hidden csrf_token form field or the X-CSRF-Token header.
//
// The JSON API under exemptPrefix is skipped: it is called by non-browser clients
// and the frontend, and is protected by CORS and rate limiting instead.
func CSRFMiddleware(exemptPrefix string, secure bool, audit *security.SecurityLogger) gin.HandlerFunc {
	if audit == nil {
		audit = security.DefaultLogger()
	}

	return func(c *gin.Context) {
		if exemptPrefix != "" && strings.HasPrefix(c.Request.URL.Path, exemptPrefix) {
			c.Next()
			return
		}

		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || csrfCookie == "" {
			newToken, err := generateCSRFToken()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to generate security token", nil)
				c.Abort()
				return
			}

			// SameSite=Lax keeps the cookie on top-level navigations only
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				CSRFTokenCookieName,
				newToken,
				int(CSRFTokenExpiry.Seconds()),
				"/",
				"",
				secure,
				true, // the token reaches the page through the form, never through JS
			)
			csrfCookie = newToken
		}
		c.Set(csrfContextKey, csrfCookie)

		method := c.Request.Method
		if method == "GET" || method == "HEAD" || method == "OPTIONS" {
			c.Next()
			return
		}

		sent := c.GetHeader(CSRFTokenHeaderName)
		if sent == "" {
			sent = c.PostForm(CSRFTokenFormField)
		}

		if sent == "" {
			audit.LogCSRFViolation(c.Request.Context(), c.ClientIP(), GetRequestID(c), c.FullPath(), "missing")
			response.Error(c, http.StatusForbidden, "Missing CSRF token", nil)
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(sent), []byte(csrfCookie)) != 1 {
			audit.LogCSRFViolation(c.Request.Context(), c.ClientIP(), GetRequestID(c), c.FullPath(), "mismatch")
			response.Error(c, http.StatusForbidden, "Invalid CSRF token", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFToken returns the token to render into forms for this request.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}
