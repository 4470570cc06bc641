package usecase_test

import (
	"context"
	"errors"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newForm(sender *MockSender, notifier domain.Notifier) *usecase.ContactForm {
	return usecase.NewContactForm(usecase.NewFieldValidator(domain.DefaultServices), sender, notifier)
}

func fill(t *testing.T, form *usecase.ContactForm, values domain.FieldValues) {
	t.Helper()
	for _, f := range domain.AllFields {
		_, err := form.UpdateField(f, values[f])
		require.NoError(t, err)
	}
}

func TestFieldValidatorReferenceInput(t *testing.T) {
	v := usecase.NewFieldValidator(domain.DefaultServices)
	assert.Empty(t, v.All(validValues()))

	values := validValues()
	values[domain.FieldPhone] = "1234"
	errs := v.All(values)
	assert.Equal(t, domain.FieldErrors{domain.FieldPhone: "Phone number must be at least 8 digits."}, errs)
}

func TestFieldValidatorIsRepeatable(t *testing.T) {
	v := usecase.NewFieldValidator(domain.DefaultServices)
	for _, f := range domain.AllFields {
		for _, value := range []string{"", "x", "12345678", "a@b.com", "Web Development", "Please build me a site"} {
			first, err := v.Field(f, value)
			require.NoError(t, err)
			second, _ := v.Field(f, value)
			assert.Equal(t, first, second, "field %s value %q", f, value)
		}
	}
}

func TestFieldValidatorUnknownField(t *testing.T) {
	_, err := usecase.NewFieldValidator(nil).Field("company", "Acme")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestUpdateFieldValidatesOnChange(t *testing.T) {
	form := newForm(new(MockSender), nil)

	msg, err := form.UpdateField(domain.FieldFirstName, "J")
	require.NoError(t, err)
	assert.Equal(t, "Firstname must be at least 2 characters.", msg)
	assert.Equal(t, domain.FieldErrors{domain.FieldFirstName: msg}, form.Errors())

	msg, err = form.UpdateField(domain.FieldFirstName, "Jo")
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Empty(t, form.Errors())
	assert.Equal(t, "Jo", form.Values()[domain.FieldFirstName])
}

func TestSubmitBlockedBySingleInvalidField(t *testing.T) {
	invalid := map[domain.Field]string{
		domain.FieldFirstName:   "J",
		domain.FieldLastName:    "L",
		domain.FieldEmail:       "not-an-email",
		domain.FieldPhone:       "12ab5678",
		domain.FieldService:     "",
		domain.FieldDescription: "too short",
	}

	for field, bad := range invalid {
		t.Run(string(field), func(t *testing.T) {
			sender := new(MockSender)
			notifier := &MockNotifier{}
			form := newForm(sender, notifier)

			values := validValues()
			values[field] = bad
			fill(t, form, values)

			_, err := form.Submit(context.Background(), testDelivery)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Fields, 1)
			assert.Contains(t, verr.Fields, field)
			assert.False(t, form.InFlight())
			assert.Empty(t, notifier.All())
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)

			// Correcting the field clears its error and unblocks delivery.
			sender.On("CheckConfig", testDelivery).Return(nil)
			sender.On("Send", mock.Anything, testDelivery, mock.Anything).Return(domain.Delivered("id-1")).Once()

			msg, err := form.UpdateField(field, validValues()[field])
			require.NoError(t, err)
			assert.Empty(t, msg)
			assert.Empty(t, form.Errors())

			_, err = form.Submit(context.Background(), testDelivery)
			require.NoError(t, err)
			sender.AssertNumberOfCalls(t, "Send", 1)
		})
	}
}

func TestSubmitSuccessResetsForm(t *testing.T) {
	sender := new(MockSender)
	notifier := &MockNotifier{}
	form := newForm(sender, notifier)
	fill(t, form, validValues())

	sender.On("CheckConfig", testDelivery).Return(nil)
	sender.On("Send", mock.Anything, testDelivery, domain.NewContactSubmission(validValues())).
		Return(domain.Delivered("msg-1")).Once()

	res, err := form.Submit(context.Background(), testDelivery)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", res.MessageID)

	for _, f := range domain.AllFields {
		assert.Empty(t, form.Values()[f], "field %s should be cleared", f)
	}
	assert.False(t, form.InFlight())
	assert.Equal(t, []domain.Notification{{Message: "Email sent successfully!", Severity: domain.SeverityInfo}}, notifier.All())
	sender.AssertExpectations(t)
}

func TestSubmitFailurePreservesInput(t *testing.T) {
	sender := new(MockSender)
	notifier := &MockNotifier{}
	form := newForm(sender, notifier)
	fill(t, form, validValues())

	sender.On("CheckConfig", testDelivery).Return(nil)
	sender.On("Send", mock.Anything, testDelivery, mock.Anything).
		Return(domain.Failed(errors.New("The service ID is invalid"))).Once()

	_, err := form.Submit(context.Background(), testDelivery)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "The service ID is invalid")

	assert.Equal(t, validValues(), form.Values())
	assert.False(t, form.InFlight())
	assert.Equal(t, []domain.Notification{{Message: "Failed to send email. Please try again later.", Severity: domain.SeverityError}}, notifier.All())
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	sender := new(MockSender)
	notifier := &MockNotifier{}
	form := newForm(sender, notifier)
	fill(t, form, validValues())

	unblock := make(chan struct{})
	started := make(chan struct{})
	sender.On("CheckConfig", testDelivery).Return(nil)
	sender.On("Send", mock.Anything, testDelivery, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-unblock
		}).
		Return(domain.Delivered("")).Once()

	outcome := form.SubmitAsync(context.Background(), testDelivery)
	<-started
	assert.True(t, form.InFlight())

	for i := 0; i < 5; i++ {
		_, err := form.Submit(context.Background(), testDelivery)
		assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)
	}

	// Other fields stay editable during delivery.
	_, err := form.UpdateField(domain.FieldDescription, "Changed my mind slightly")
	require.NoError(t, err)

	close(unblock)
	got, ok := <-outcome
	require.True(t, ok)
	require.NoError(t, got.Err)
	_, ok = <-outcome
	assert.False(t, ok, "outcome channel closes after one value")

	assert.False(t, form.InFlight())
	assert.Len(t, notifier.All(), 1)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestSubmitAsyncValidationFailsImmediately(t *testing.T) {
	sender := new(MockSender)
	form := newForm(sender, nil)

	got := <-form.SubmitAsync(context.Background(), testDelivery)
	var verr *domain.ValidationError
	require.True(t, errors.As(got.Err, &verr))
	assert.Len(t, verr.Fields, len(domain.AllFields))
	assert.Equal(t, verr.Fields, form.Errors())
}

func TestSubmitNotConfiguredFailsFast(t *testing.T) {
	sender := new(MockSender)
	notifier := &MockNotifier{}
	form := newForm(sender, notifier)
	fill(t, form, validValues())

	cfgErr := errors.Join(domain.ErrDeliveryNotConfigured, errors.New("missing public_key"))
	sender.On("CheckConfig", domain.DeliveryConfig{}).Return(cfgErr)

	_, err := form.Submit(context.Background(), domain.DeliveryConfig{})
	assert.ErrorIs(t, err, domain.ErrDeliveryNotConfigured)
	assert.False(t, form.InFlight())
	assert.Equal(t, validValues(), form.Values())
	assert.Equal(t, domain.SeverityError, notifier.All()[0].Severity)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateReportsEveryField(t *testing.T) {
	form := newForm(new(MockSender), nil)

	errs := form.Validate()
	assert.Len(t, errs, len(domain.AllFields))
	assert.Equal(t, "Please select a service.", errs[domain.FieldService])

	fill(t, form, validValues())
	assert.Empty(t, form.Validate())
	assert.Empty(t, form.Errors())
}

func TestSubmitDeliveryOutlivesCancelledRequest(t *testing.T) {
	sender := new(MockSender)
	notifier := &MockNotifier{}
	form := newForm(sender, notifier)
	fill(t, form, validValues())

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	unblock := make(chan struct{})
	var sendErr error
	sender.On("CheckConfig", testDelivery).Return(nil)
	sender.On("Send", mock.Anything, testDelivery, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-unblock
			sendErr = args.Get(0).(context.Context).Err()
		}).
		Return(domain.Delivered("msg-2")).Once()

	outcome := form.SubmitAsync(ctx, testDelivery)
	<-started
	cancel()
	close(unblock)

	got := <-outcome
	require.NoError(t, got.Err)
	assert.NoError(t, sendErr, "the provider call must not see the request cancellation")
	assert.Equal(t, "msg-2", got.Result.MessageID)
	assert.Empty(t, form.Values()[domain.FieldEmail])
	assert.Equal(t, domain.MessageSent, notifier.All()[0].Message)
}

func TestSubmitPassesDetachedContextToSender(t *testing.T) {
	sender := new(MockSender)
	form := newForm(sender, nil)
	fill(t, form, validValues())

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), domain.KeyRequestID, "req-1"))
	var sendCtx context.Context
	sender.On("CheckConfig", testDelivery).Return(nil)
	sender.On("Send", mock.Anything, testDelivery, mock.Anything).
		Run(func(args mock.Arguments) {
			sendCtx = args.Get(0).(context.Context)
			cancel()
		}).
		Return(domain.Delivered("")).Once()

	_, err := form.Submit(ctx, testDelivery)
	require.NoError(t, err)
	require.Error(t, ctx.Err())
	assert.NoError(t, sendCtx.Err())
	assert.Equal(t, "req-1", sendCtx.Value(domain.KeyRequestID), "request values still reach the provider")
}
