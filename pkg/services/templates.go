package services

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"contact-relay/pkg/models"
)

const (
	customerTemplate = `שלום רב,

תודה על פנייתך ל-LuxePool Projects.

פרטייך נקלטו במערכת בהצלחה.
נציג יצור איתך קשר תוך 24 שעות.

לשירות מיידי: 054-877-5052

בכבוד רב,
צוות LuxePool Projects`

	businessTemplate = `פנייה חדשה מהאתר - LuxePool Projects

שם מלא: %s
טלפון: %s
דוא"ל: %s
סוג שירות: %s

הודעה:
%s

---
נא לטפל בפנייה תוך 24 שעות.`

	partnerTemplate = `🔔 פנייה חדשה - LuxePool

👤 %s
📱 %s
🏊 %s

📝 %s

⏰ %s`

	notSpecified        = "לא צוין"
	noMessageBusiness   = "לא צוינה הודעה"
	noServicePartner    = "ללא שירות מוגדר"
	noMessagePartner    = "ללא הודעה"
	partnerTimeLayout   = "02.01.2006, 15:04:05"
	partnerTimeLocation = "Asia/Jerusalem"
)

var jerusalem = mustLoadLocation(partnerTimeLocation)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

func orDefault(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

func customerMessage() string {
	return customerTemplate
}

func businessMessage(sub models.Submission) string {
	return fmt.Sprintf(businessTemplate,
		sub.Name,
		sub.Phone,
		orDefault(sub.Email, notSpecified),
		orDefault(sub.Service, notSpecified),
		orDefault(sub.Message, noMessageBusiness),
	)
}

// partnerVariables fills the WhatsApp content template, keyed by position.
func partnerVariables(sub models.Submission) map[string]string {
	return map[string]string{
		"1": sub.Name,
		"2": sub.Phone,
		"3": orDefault(sub.Email, notSpecified),
		"4": orDefault(sub.Service, noServicePartner),
		"5": orDefault(sub.Message, noMessagePartner),
	}
}

// partnerMessage is the free-text alert used when no content template is configured.
func partnerMessage(vars map[string]string, at time.Time) string {
	return fmt.Sprintf(partnerTemplate,
		vars["1"],
		vars["2"],
		vars["4"],
		vars["5"],
		at.In(jerusalem).Format(partnerTimeLayout),
	)
}
