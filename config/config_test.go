package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", "emailjs")
	t.Setenv("EMAILJS_SERVICE_ID", "service_x")
	t.Setenv("EMAILJS_TEMPLATE_ID", "template_y")
	t.Setenv("EMAILJS_PUBLIC_KEY", "pk_z")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, domain.DeliveryConfig{ServiceID: "service_x", TemplateID: "template_y", PublicKey: "pk_z"}, cfg.Delivery())
	assert.Equal(t, domain.DefaultServices, cfg.Services)
	assert.Equal(t, 2*time.Minute, cfg.SubmitLockTTL())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", "SMTP")
	t.Setenv("CONTACT_SERVICES", "Web Development, ,Branding")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "not-a-number")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "smtp", cfg.EmailProvider)
	assert.Equal(t, []string{"Web Development", "Branding"}, cfg.Services)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow())
	assert.True(t, cfg.IsProduction())

	d := cfg.Delivery()
	assert.Equal(t, "smtp", d.ServiceID)
	assert.Equal(t, "contact", d.TemplateID)
}

func TestProfile(t *testing.T) {
	t.Setenv("PROFILE_ADDRESS", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Profile().ContactInfo(), 2)
}
