package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"portfolio-backend/internal/domain"
)

type Config struct {
	Port           string
	AppEnv         string
	GinMode        string
	LogLevel       string
	AllowedOrigins []string
	SiteURL        string
	// Email delivery
	EmailProvider     string // emailjs, smtp or ses
	EmailTemplateID   string // built-in template for smtp and ses
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string
	EmailJSPrivateKey string
	EmailJSAPIURL     string
	// SMTP Configuration
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string
	ContactEmailTo string
	// AWS SES Configuration
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SESFromEmail       string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds    int
	RateLimitContactThreshold int
	RateLimitGlobalThreshold  int
	SubmitLockTTLSeconds      int
	// Contact page content
	Services       []string
	ProfilePhone   string
	ProfileEmail   string
	ProfileAddress string
}

func LoadConfig() (*Config, error) {
	// Load .env file when present; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "development"),
		GinMode:        getEnv("GIN_MODE", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		SiteURL:        strings.TrimRight(getEnv("SITE_URL", "http://localhost:8080"), "/"),
		// Email delivery
		EmailProvider:     strings.ToLower(getEnv("EMAIL_PROVIDER", "emailjs")),
		EmailTemplateID:   getEnv("EMAIL_TEMPLATE_ID", "contact"),
		EmailJSServiceID:  getEnv("EMAILJS_SERVICE_ID", ""),
		EmailJSTemplateID: getEnv("EMAILJS_TEMPLATE_ID", ""),
		EmailJSPublicKey:  getEnv("EMAILJS_PUBLIC_KEY", ""),
		EmailJSPrivateKey: getEnv("EMAILJS_PRIVATE_KEY", ""),
		EmailJSAPIURL:     getEnv("EMAILJS_API_URL", "https://api.emailjs.com/api/v1.0/email/send"),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", ""),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", ""),
		// AWS SES Configuration
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SESFromEmail:       getEnv("SES_FROM_EMAIL", ""),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:    getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitContactThreshold: getEnvInt("RATE_LIMIT_CONTACT_THRESHOLD", 5),
		RateLimitGlobalThreshold:  getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		SubmitLockTTLSeconds:      getEnvInt("SUBMIT_LOCK_TTL_SECONDS", 120),
		// Contact page content
		Services:       getEnvList("CONTACT_SERVICES", domain.DefaultServices),
		ProfilePhone:   getEnv("PROFILE_PHONE", "(+45) 29 88 03 79"),
		ProfileEmail:   getEnv("PROFILE_EMAIL", "willyjensen251@gmail.com"),
		ProfileAddress: getEnv("PROFILE_ADDRESS", "Storkevej 20, 7741 Frøstrup, Denmark"),
	}

	if missing := cfg.Delivery().Missing(); cfg.EmailProvider == "emailjs" && len(missing) > 0 {
		log.Printf("WARNING: EmailJS configuration incomplete (missing %s). Contact submissions will be rejected.", strings.Join(missing, ", "))
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting and submit locks will use in-memory fallback.")
	}

	return cfg, nil
}

// Delivery returns the provider identifiers passed explicitly into every submit.
// Non-EmailJS providers only consume the template id, which defaults to the built-in one.
func (c *Config) Delivery() domain.DeliveryConfig {
	if c.EmailProvider != "emailjs" {
		return domain.DeliveryConfig{
			ServiceID:  c.EmailProvider,
			TemplateID: c.EmailTemplateID,
		}
	}
	return domain.DeliveryConfig{
		ServiceID:   c.EmailJSServiceID,
		TemplateID:  c.EmailJSTemplateID,
		PublicKey:   c.EmailJSPublicKey,
		AccessToken: c.EmailJSPrivateKey,
	}
}

// Profile returns the contact details shown next to the form.
func (c *Config) Profile() domain.Profile {
	return domain.Profile{
		Phone:   c.ProfilePhone,
		Email:   c.ProfileEmail,
		Address: c.ProfileAddress,
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.GinMode == "release"
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c *Config) SubmitLockTTL() time.Duration {
	return time.Duration(c.SubmitLockTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
