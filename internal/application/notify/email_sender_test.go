package notify

import (
	"context"
	"testing"

	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, phone, message string) error {
	return m.Called(ctx, phone, message).Error(0)
}

func userWithPhone(confirmed bool) *domain.User {
	phone := "+15550100"
	return &domain.User{
		UserID:         "u1",
		Name:           "Ava",
		Email:          "ava@example.com",
		Phone:          &phone,
		PhoneConfirmed: confirmed,
	}
}

func TestSendVerification_DeepLink(t *testing.T) {
	mailer := new(mockMailer)
	var body string
	mailer.On("SendEmail", "ava@example.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { body = args.String(2) }).
		Return(nil)

	s := NewEmailSender(mailer, nil, "https://app.eventio.test/", false)
	require.NoError(t, s.SendVerification(userWithPhone(false), "tok+123"))

	// Trailing slash trimmed, token query-escaped.
	assert.Contains(t, body, "https://app.eventio.test/verify-email?token=tok%2B123&email=ava%40example.com")
}

func TestSendMagicLink_DeepLink(t *testing.T) {
	mailer := new(mockMailer)
	var body string
	mailer.On("SendEmail", "ava@example.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { body = args.String(2) }).
		Return(nil)

	s := NewEmailSender(mailer, nil, "https://app.eventio.test", false)
	require.NoError(t, s.SendMagicLink("ava@example.com", "tok123"))

	assert.Contains(t, body, "https://app.eventio.test/reset-password?token=tok123&email=ava%40example.com")
}

func TestSendOTP_SMSLegWhenConfirmed(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("SendEmail", "ava@example.com", mock.Anything, mock.Anything).Return(nil)
	sms := new(mockSMS)
	sms.On("SendSMS", mock.Anything, "+15550100", "Your Eventio login code: 123456").Return(nil)

	s := NewEmailSender(mailer, sms, "https://app.eventio.test", true)
	require.NoError(t, s.SendOTP(context.Background(), userWithPhone(true), "123456"))

	sms.AssertNumberOfCalls(t, "SendSMS", 1)
}

func TestSendOTP_NoSMSForUnconfirmedPhone(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("SendEmail", "ava@example.com", mock.Anything, mock.Anything).Return(nil)
	sms := new(mockSMS)

	s := NewEmailSender(mailer, sms, "https://app.eventio.test", true)
	require.NoError(t, s.SendOTP(context.Background(), userWithPhone(false), "123456"))

	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendOTP_SMSFailureIsBestEffort(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("SendEmail", "ava@example.com", mock.Anything, mock.Anything).Return(nil)
	sms := new(mockSMS)
	sms.On("SendSMS", mock.Anything, "+15550100", mock.Anything).Return(assert.AnError)

	s := NewEmailSender(mailer, sms, "https://app.eventio.test", true)
	assert.NoError(t, s.SendOTP(context.Background(), userWithPhone(true), "123456"))
}

func TestSend_FailureWrapsDomainError(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	s := NewEmailSender(mailer, nil, "https://app.eventio.test", false)
	err := s.SendMagicLink("ava@example.com", "tok123")
	assert.ErrorIs(t, err, domain.ErrEmailSendFailed)
}
