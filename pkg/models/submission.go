package models

import "strings"

// Submission represents the contact form posted by the landing page
type Submission struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Phone   string `json:"phone" form:"phone" validate:"required,ilphone"`
	Email   string `json:"email" form:"email" validate:"omitempty,email"`
	Service string `json:"service" form:"service"`
	Message string `json:"message" form:"message"`
}

// Sanitize trims the free-text fields. The phone is validated as submitted.
func (s *Submission) Sanitize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Service = strings.TrimSpace(s.Service)
	s.Message = strings.TrimSpace(s.Message)
}

// NotificationResult holds the provider message SIDs of a relayed submission
type NotificationResult struct {
	CustomerSMS     string `json:"customerSms"`
	BusinessSMS     string `json:"businessSms"`
	PartnerWhatsApp string `json:"partnerWhatsApp"`
}
