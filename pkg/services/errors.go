package services

import (
	"errors"
	"fmt"
	"net"

	"contact-relay/pkg/clients/twilio"
)

// Category groups provider failures by what the visitor can do about them
type Category string

const (
	CategoryInvalidNumber      Category = "invalid_destination_number"
	CategoryChannelUnsupported Category = "destination_cannot_receive_channel"
	CategoryUpstream           Category = "upstream_auth_or_connectivity"
	CategoryGeneric            Category = "generic"
)

var categoryMessages = map[Category]string{
	CategoryInvalidNumber:      "מספר הטלפון אינו תקין. אנא בדוק ונסה שוב.",
	CategoryChannelUnsupported: "מספר הטלפון אינו יכול לקבל SMS. אנא נסה מספר אחר.",
	CategoryUpstream:           "שגיאה בחיבור לשירות SMS. אנא נסה שוב מאוחר יותר.",
	CategoryGeneric:            "שגיאה בשליחת ההודעות",
}

// Message returns the localized text shown to the visitor
func (c Category) Message() string {
	if msg, ok := categoryMessages[c]; ok {
		return msg
	}
	return categoryMessages[CategoryGeneric]
}

// Classify maps a provider error onto a Category
func Classify(err error) Category {
	if code, ok := twilio.ErrorCode(err); ok {
		switch code {
		case twilio.CodeInvalidToNumber:
			return CategoryInvalidNumber
		case twilio.CodeNotMobileNumber:
			return CategoryChannelUnsupported
		case twilio.CodeAuthenticationFailed:
			return CategoryUpstream
		}
		return CategoryGeneric
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryUpstream
	}
	return CategoryGeneric
}

// SendError reports the first outbound message that failed. Messages sent
// before it are not undone and later ones were never attempted.
type SendError struct {
	Recipient string
	Channel   string
	Category  Category
	Err       error
}

func newSendError(recipient, channel string, err error) *SendError {
	return &SendError{
		Recipient: recipient,
		Channel:   channel,
		Category:  Classify(err),
		Err:       err,
	}
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s %s message failed: %v", e.Recipient, e.Channel, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
