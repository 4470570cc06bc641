package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"portfolio-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(context.Background(), domain.Notification{Message: "a", Severity: domain.SeverityInfo})
	r.Notify(context.Background(), domain.Notification{Message: "b", Severity: domain.SeverityError})

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "b", last.Message)
	assert.Len(t, r.All(), 2)
}

func TestMultiAndLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	rec := NewRecorder()

	Multi{rec, nil, NewLogNotifier(log)}.Notify(context.Background(), domain.Notification{
		Message:  domain.MessageSendFailed,
		Severity: domain.SeverityError,
	})

	assert.Len(t, rec.All(), 1)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"component":"contact_notification"`)
}
