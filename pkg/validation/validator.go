package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"contact-relay/pkg/models"
	"contact-relay/pkg/utils"
)

// Messages shown to the visitor, keyed by JSON field name
const (
	MsgInvalidData  = "נתונים לא תקינים"
	MsgNameRequired = "שם הוא שדה חובה"
	MsgInvalidPhone = "מספר טלפון לא תקין"
	MsgInvalidEmail = "כתובת אימייל לא תקינה"
	MsgInvalidBody  = "גוף הבקשה אינו תקין"
)

var fieldMessages = map[string]string{
	"name":  MsgNameRequired,
	"phone": MsgInvalidPhone,
	"email": MsgInvalidEmail,
}

// Validator checks submissions before any message is sent
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the custom ilphone tag registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("ilphone", validateIsraeliPhone); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

// validateIsraeliPhone checks the number against the accepted local or +972 form
func validateIsraeliPhone(fl validator.FieldLevel) bool {
	return utils.IsraeliPhonePattern.MatchString(fl.Field().String())
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// Submission sanitizes the submission in place and returns one FieldError per
// failed field, in declaration order. A nil result means the submission is valid.
func (v *Validator) Submission(s *models.Submission) []models.FieldError {
	s.Sanitize()

	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.FieldError{{Field: "body", Message: MsgInvalidData}}
	}

	out := make([]models.FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, models.FieldError{
			Field:   e.Field(),
			Message: messageFor(e.Field()),
			Value:   valueOf(e),
		})
	}
	return out
}

// BodyError describes a request body that could not be decoded
func BodyError() []models.FieldError {
	return []models.FieldError{{Field: "body", Message: MsgInvalidBody}}
}

func messageFor(field string) string {
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	return MsgInvalidData
}

func valueOf(e validator.FieldError) string {
	if s, ok := e.Value().(string); ok {
		return s
	}
	return ""
}
