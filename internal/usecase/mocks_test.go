package usecase_test

import (
	"context"
	"sync"

	"portfolio-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Name() string { return "mock" }

func (m *MockSender) CheckConfig(cfg domain.DeliveryConfig) error {
	return m.Called(cfg).Error(0)
}

func (m *MockSender) Send(ctx context.Context, cfg domain.DeliveryConfig, sub domain.ContactSubmission) domain.DeliveryResult {
	return m.Called(ctx, cfg, sub).Get(0).(domain.DeliveryResult)
}

type MockNotifier struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (n *MockNotifier) Notify(_ context.Context, note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, note)
}

func (n *MockNotifier) All() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.items...)
}

type MockGuard struct {
	mock.Mock
	released int
}

func (m *MockGuard) Acquire(ctx context.Context, key string) (func(), bool, error) {
	args := m.Called(ctx, key)
	return func() { m.released++ }, args.Bool(0), args.Error(1)
}

var testDelivery = domain.DeliveryConfig{ServiceID: "service_x", TemplateID: "template_y", PublicKey: "pk_z"}

// validValues is the reference input that passes every rule.
func validValues() domain.FieldValues {
	return domain.FieldValues{
		domain.FieldFirstName:   "Jo",
		domain.FieldLastName:    "Li",
		domain.FieldEmail:       "a@b.com",
		domain.FieldPhone:       "12345678",
		domain.FieldService:     "Web Development",
		domain.FieldDescription: "Please build me a site",
	}
}
