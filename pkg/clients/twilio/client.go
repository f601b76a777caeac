package twilio

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Twilio error codes the relay translates for visitors.
// See https://www.twilio.com/docs/api/errors
const (
	CodeAuthenticationFailed = 20003
	CodeInvalidToNumber      = 21211
	CodeNotMobileNumber      = 21614
)

// Message is a single outbound message. Either Body or ContentSID is set.
type Message struct {
	From             string
	To               string
	Body             string
	ContentSID       string
	ContentVariables map[string]string
}

// Client defines the interface for sending messages through Twilio
type Client interface {
	SendMessage(msg Message) (string, error)
}

type clientImpl struct {
	client *twilio.RestClient
}

// NewClient creates a new Twilio client
func NewClient(accountSid, authToken string) Client {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &clientImpl{client: client}
}

func (c *clientImpl) SendMessage(msg Message) (string, error) {
	params, err := buildParams(msg)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}
	if resp.Sid == nil {
		return "", errors.New("error sending message: response carried no sid")
	}

	return *resp.Sid, nil
}

func buildParams(msg Message) (*openapi.CreateMessageParams, error) {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(msg.From)
	params.SetTo(msg.To)

	if msg.ContentSID == "" {
		params.SetBody(msg.Body)
		return params, nil
	}

	vars, err := EncodeContentVariables(msg.ContentVariables)
	if err != nil {
		return nil, err
	}
	params.SetContentSid(msg.ContentSID)
	params.SetContentVariables(vars)
	return params, nil
}

// EncodeContentVariables renders template variables as the JSON object the
// Content API expects, e.g. {"1":"Dana","2":"0501234567"}.
func EncodeContentVariables(vars map[string]string) (string, error) {
	if len(vars) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("error encoding content variables: %w", err)
	}
	return string(b), nil
}

// ErrorCode extracts the Twilio error code from an API error.
func ErrorCode(err error) (int, bool) {
	var restErr *twclient.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Code, true
	}
	return 0, false
}
