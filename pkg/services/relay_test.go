package services

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twclient "github.com/twilio/twilio-go/client"

	"contact-relay/pkg/clients/twilio"
	"contact-relay/pkg/config"
	"contact-relay/pkg/metrics"
	"contact-relay/pkg/models"
)

// Mock twilio.Client recording every message it is asked to send
type mockTwilioClient struct {
	sent   []twilio.Message
	failAt int // 1-based position of the failing call, 0 never fails
	err    error
}

func (m *mockTwilioClient) SendMessage(msg twilio.Message) (string, error) {
	m.sent = append(m.sent, msg)
	if len(m.sent) == m.failAt {
		return "", m.err
	}
	return fmt.Sprintf("SM%d", len(m.sent)), nil
}

func testConfig() *config.Config {
	return &config.Config{
		TwilioAccountSID:  "AC123",
		TwilioAuthToken:   "secret",
		TwilioPhoneNumber: "+15005550006",
		WhatsAppFrom:      "whatsapp:+14155238886",
		BusinessPhone:     "054-877-5052",
		PartnerWhatsApp:   "whatsapp:+972521112233",
	}
}

func newTestService(client twilio.Client, cfg *config.Config, m *metrics.Metrics) *contactRelayServiceImpl {
	s := NewContactRelayService(client, cfg, nil, m).(*contactRelayServiceImpl)
	s.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }
	return s
}

func restError(code int) error {
	return fmt.Errorf("error sending message: %w", &twclient.TwilioRestError{Code: code, Message: "rejected", Status: 400})
}

type messageSample struct {
	recipient, channel, result string
}

func assertMessages(t *testing.T, reg *prometheus.Registry, samples ...messageSample) {
	t.Helper()
	var b strings.Builder
	b.WriteString("# HELP contact_relay_messages_total Outbound provider messages by recipient, channel and outcome.\n")
	b.WriteString("# TYPE contact_relay_messages_total counter\n")
	for _, s := range samples {
		fmt.Fprintf(&b, "contact_relay_messages_total{channel=%q,recipient=%q,result=%q} 1\n", s.channel, s.recipient, s.result)
	}
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(b.String()), "contact_relay_messages_total"))
}

func TestSubmit_SendsThreeMessagesInOrder(t *testing.T) {
	client := &mockTwilioClient{}
	reg := prometheus.NewRegistry()
	s := newTestService(client, testConfig(), metrics.New(reg))

	result, err := s.Submit(models.Submission{Name: "Dana", Phone: "0501234567"})
	require.NoError(t, err)

	assert.Equal(t, &models.NotificationResult{
		CustomerSMS:     "SM1",
		BusinessSMS:     "SM2",
		PartnerWhatsApp: "SM3",
	}, result)

	require.Len(t, client.sent, 3)

	customer := client.sent[0]
	assert.Equal(t, "+15005550006", customer.From)
	assert.Equal(t, "+972501234567", customer.To)
	assert.Equal(t, customerMessage(), customer.Body)

	business := client.sent[1]
	assert.Equal(t, "+15005550006", business.From)
	assert.Equal(t, "+972548775052", business.To)
	assert.Contains(t, business.Body, "שם מלא: Dana")
	assert.Contains(t, business.Body, "טלפון: 0501234567")
	assert.Contains(t, business.Body, `דוא"ל: לא צוין`)
	assert.Contains(t, business.Body, "לא צוינה הודעה")

	partner := client.sent[2]
	assert.Equal(t, "whatsapp:+14155238886", partner.From)
	assert.Equal(t, "whatsapp:+972521112233", partner.To)
	assert.Empty(t, partner.ContentSID)
	assert.Contains(t, partner.Body, "👤 Dana")
	assert.Contains(t, partner.Body, "🏊 ללא שירות מוגדר")
	assert.Contains(t, partner.Body, "⏰ 17.10.2026, 12:30:00")

	assertMessages(t, reg,
		messageSample{RecipientCustomer, ChannelSMS, "sent"},
		messageSample{RecipientBusiness, ChannelSMS, "sent"},
		messageSample{RecipientPartner, ChannelWhatsApp, "sent"},
	)
}

func TestSubmit_PartnerContentTemplate(t *testing.T) {
	cfg := testConfig()
	cfg.WhatsAppContentSID = "HX0123456789"
	client := &mockTwilioClient{}

	_, err := newTestService(client, cfg, nil).Submit(models.Submission{
		Name:    "Dana",
		Phone:   "+972501234567",
		Email:   "dana@example.com",
		Service: "שיפוץ בריכה",
	})
	require.NoError(t, err)
	require.Len(t, client.sent, 3)

	partner := client.sent[2]
	assert.Equal(t, "HX0123456789", partner.ContentSID)
	assert.Empty(t, partner.Body)
	assert.Equal(t, map[string]string{
		"1": "Dana",
		"2": "+972501234567",
		"3": "dana@example.com",
		"4": "שיפוץ בריכה",
		"5": "ללא הודעה",
	}, partner.ContentVariables)
}

func TestSubmit_FirstFailureWins(t *testing.T) {
	tests := []struct {
		failAt    int
		recipient string
		channel   string
	}{
		{1, RecipientCustomer, ChannelSMS},
		{2, RecipientBusiness, ChannelSMS},
		{3, RecipientPartner, ChannelWhatsApp},
	}

	for _, tt := range tests {
		t.Run(tt.recipient, func(t *testing.T) {
			client := &mockTwilioClient{failAt: tt.failAt, err: restError(twilio.CodeInvalidToNumber)}
			reg := prometheus.NewRegistry()

			result, err := newTestService(client, testConfig(), metrics.New(reg)).Submit(models.Submission{Name: "Dana", Phone: "0501234567"})
			assert.Nil(t, result)
			require.Error(t, err)

			var sendErr *SendError
			require.True(t, errors.As(err, &sendErr))
			assert.Equal(t, tt.recipient, sendErr.Recipient)
			assert.Equal(t, tt.channel, sendErr.Channel)
			assert.Equal(t, CategoryInvalidNumber, sendErr.Category)

			// nothing after the failing call is attempted
			assert.Len(t, client.sent, tt.failAt)
			want := []messageSample{
				{RecipientCustomer, ChannelSMS, "sent"},
				{RecipientBusiness, ChannelSMS, "sent"},
			}[:tt.failAt-1]
			assertMessages(t, reg, append(want, messageSample{tt.recipient, tt.channel, "failed"})...)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"invalid number", restError(21211), CategoryInvalidNumber},
		{"not mobile", restError(21614), CategoryChannelUnsupported},
		{"auth", restError(20003), CategoryUpstream},
		{"other provider code", restError(30007), CategoryGeneric},
		{"network", &url.Error{Op: "Post", URL: "https://api.twilio.com", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}, CategoryUpstream},
		{"unknown", errors.New("boom"), CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestCategoryMessage(t *testing.T) {
	assert.Equal(t, "מספר הטלפון אינו תקין. אנא בדוק ונסה שוב.", CategoryInvalidNumber.Message())
	assert.Equal(t, "שגיאה בשליחת ההודעות", CategoryGeneric.Message())
	assert.Equal(t, "שגיאה בשליחת ההודעות", Category("unknown").Message())
}

func TestSendError_Unwrap(t *testing.T) {
	cause := restError(21614)
	err := newSendError(RecipientCustomer, ChannelSMS, cause)

	code, ok := twilio.ErrorCode(err)
	assert.True(t, ok)
	assert.Equal(t, 21614, code)
	assert.Contains(t, err.Error(), "customer sms message failed")
}
