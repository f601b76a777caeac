package services

import (
	"time"

	"go.uber.org/zap"

	"contact-relay/pkg/clients/twilio"
	"contact-relay/pkg/config"
	"contact-relay/pkg/metrics"
	"contact-relay/pkg/models"
	"contact-relay/pkg/utils"
)

// Recipients and channels of the three notifications
const (
	RecipientCustomer = "customer"
	RecipientBusiness = "business"
	RecipientPartner  = "partner"

	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// ContactRelayService defines the interface for relaying a validated submission
type ContactRelayService interface {
	Submit(sub models.Submission) (*models.NotificationResult, error)
}

type contactRelayServiceImpl struct {
	client  twilio.Client
	config  *config.Config
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewContactRelayService creates a new relay service
func NewContactRelayService(
	client twilio.Client,
	config *config.Config,
	logger *zap.SugaredLogger,
	metrics *metrics.Metrics,
) ContactRelayService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &contactRelayServiceImpl{
		client:  client,
		config:  config,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// delivery is one step of the send plan. sid receives the provider id on success.
type delivery struct {
	recipient string
	channel   string
	message   twilio.Message
	sid       *string
}

// plan lists the notifications in the order they must be sent.
func (s *contactRelayServiceImpl) plan(sub models.Submission, result *models.NotificationResult) []delivery {
	vars := partnerVariables(sub)
	partner := twilio.Message{
		From: s.config.WhatsAppFrom,
		To:   s.config.PartnerWhatsApp,
	}
	if s.config.WhatsAppContentSID != "" {
		partner.ContentSID = s.config.WhatsAppContentSID
		partner.ContentVariables = vars
	} else {
		partner.Body = partnerMessage(vars, s.now())
	}

	return []delivery{
		{
			recipient: RecipientCustomer,
			channel:   ChannelSMS,
			message: twilio.Message{
				From: s.config.TwilioPhoneNumber,
				To:   utils.Normalize(sub.Phone),
				Body: customerMessage(),
			},
			sid: &result.CustomerSMS,
		},
		{
			recipient: RecipientBusiness,
			channel:   ChannelSMS,
			message: twilio.Message{
				From: s.config.TwilioPhoneNumber,
				To:   utils.Normalize(s.config.BusinessPhone),
				Body: businessMessage(sub),
			},
			sid: &result.BusinessSMS,
		},
		{
			recipient: RecipientPartner,
			channel:   ChannelWhatsApp,
			message:   partner,
			sid:       &result.PartnerWhatsApp,
		},
	}
}

// Submit sends the customer confirmation, the business alert and the partner
// alert in that order. The first failure stops the sequence and is returned
// as a *SendError.
func (s *contactRelayServiceImpl) Submit(sub models.Submission) (*models.NotificationResult, error) {
	result := &models.NotificationResult{}
	log := s.logger.With("phone_hash", utils.PhoneFingerprint(sub.Phone))

	log.Infow("Sending messages", "service", sub.Service)

	for _, d := range s.plan(sub, result) {
		sid, err := s.client.SendMessage(d.message)
		s.metrics.Message(d.recipient, d.channel, err == nil)
		if err != nil {
			sendErr := newSendError(d.recipient, d.channel, err)
			log.Errorw("Error sending message",
				"recipient", d.recipient,
				"channel", d.channel,
				"category", sendErr.Category,
				"error", err,
			)
			return nil, sendErr
		}

		*d.sid = sid
		log.Debugw("Message sent", "recipient", d.recipient, "channel", d.channel, "sid", sid)
	}

	log.Infow("Successfully relayed submission",
		"customer_sms", result.CustomerSMS,
		"business_sms", result.BusinessSMS,
		"partner_whatsapp", result.PartnerWhatsApp,
	)
	return result, nil
}
