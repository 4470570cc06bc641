package usecase

import (
	"context"
	"time"

	"portfolio-backend/internal/domain"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// Pinger reports whether a backing service answers.
type Pinger func(ctx context.Context) error

type healthUsecase struct {
	sender   domain.EmailSender
	delivery domain.DeliveryConfig
	redis    Pinger
}

// NewHealthUsecase reports email configuration and Redis reachability. redis may be nil
// when the service runs with in-memory fallbacks.
func NewHealthUsecase(sender domain.EmailSender, delivery domain.DeliveryConfig, redis Pinger) HealthUsecase {
	return &healthUsecase{sender: sender, delivery: delivery, redis: redis}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status":           "ok",
		"email_provider":   u.sender.Name(),
		"email_configured": "true",
		"redis":            "disabled",
	}

	if err := u.sender.CheckConfig(u.delivery); err != nil {
		status["email_configured"] = "false"
		status["status"] = "degraded"
	}

	if u.redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := u.redis(pingCtx); err != nil {
			status["redis"] = "unavailable"
			status["status"] = "degraded"
		} else {
			status["redis"] = "ok"
		}
	}
	return status
}
