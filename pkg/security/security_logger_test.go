package security

import (
	"context"
	"errors"
	"testing"

	"portfolio-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewSecurityLogger(zap.New(core), "portfolio-backend", "test"), logs
}

func fieldMap(entry observer.LoggedEntry) map[string]interface{} {
	return entry.ContextMap()
}

func TestLogDeliveryFailedMasksEmail(t *testing.T) {
	sl, logs := newObserved()

	sl.LogDeliveryFailed(context.Background(), "emailjs", "john@example.com", errors.New("The Public Key is invalid"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "delivery_failed", entry.Message)

	fields := fieldMap(entry)
	assert.Equal(t, "j***@example.com", fields["subject_value"])
	assert.Contains(t, fields["details"], "The Public Key is invalid")
}

func TestLogLevels(t *testing.T) {
	sl, logs := newObserved()

	sl.LogValidationFailed(context.Background(), []string{"phone"})
	sl.LogDuplicateSubmit(context.Background(), "session-1")
	sl.LogRateLimitTriggered(context.Background(), "10.0.0.1", "ua", "req-1", "/v1/contact")

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
	assert.NotEqual(t, "session-1", fieldMap(logs.All()[1])["subject_value"])
	assert.Equal(t, "10.0.0.1", fieldMap(logs.All()[2])["ip"])
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "a***@b.com", MaskEmail("ab@b.com"))
	assert.Equal(t, "***@b.com", MaskEmail("a@b.com"))
}

func TestCSRFViolationIsHighSeverity(t *testing.T) {
	sl, logs := newObserved()

	sl.LogCSRFViolation(context.Background(), "10.0.0.1", "req-1", "/contact", "mismatch")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	assert.Equal(t, "HIGH", fieldMap(logs.All()[0])["severity"])
	assert.True(t, IsHighOrAbove(EventCSRFViolation))
	assert.Equal(t, SeverityWARN, GetSeverity(EventType("unknown")))
}

func TestLogPicksRequestIDFromContext(t *testing.T) {
	sl, logs := newObserved()
	ctx := context.WithValue(context.Background(), domain.KeyRequestID, "req-42")

	sl.LogDuplicateSubmit(ctx, "session:abc")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-42", fieldMap(logs.All()[0])["request_id"])
}
