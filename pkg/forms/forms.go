// Package forms validates and stores contact and newsletter submissions.
//
// Validation mirrors what the site's forms show inline: every failing field
// gets one human-readable message, and [ContactForm.Validate] returns them
// together as a VALIDATION_FAILED error from pkg/errors. [Service] runs
// validation, assigns ids and hands accepted submissions to a [Store].
package forms

import (
	"unicode/utf8"

	"github.com/woodfordbl/maffei-design/pkg/errors"
)

// Field messages shown next to the inputs.
const (
	MsgNameTooShort    = "Name must be at least 2 characters"
	MsgNameTooLong     = "Name must be at most 50 characters"
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgPhoneLength     = "Phone number must be between 10 and 15 characters if provided"
	MsgSubjectTooShort = "Subject must be at least 5 characters"
	MsgSubjectTooLong  = "Subject must be at most 100 characters"
	MsgMessageTooShort = "Message must be at least 20 characters"
	MsgMessageTooLong  = "Message must be at most 1000 characters"
)

// Success messages returned to the submitter.
const (
	MsgContactSent = "Form submitted successfully"
	MsgSubscribed  = "Successfully subscribed to newsletter"
)

// Form names used in logs and hooks.
const (
	FormContact    = "contact"
	FormNewsletter = "newsletter"
)

// ContactForm is the contact page form.
type ContactForm struct {
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Subject string `json:"subject" bson:"subject"`
	Message string `json:"message" bson:"message"`
}

// Validate checks every field and returns all failures at once.
func (f ContactForm) Validate() error {
	fields := make(map[string]string)

	lengthRule(fields, "name", f.Name, 2, 50, MsgNameTooShort, MsgNameTooLong)
	if errors.ValidateEmail(f.Email) != nil {
		fields["email"] = MsgInvalidEmail
	}
	if n := utf8.RuneCountInString(f.Phone); n != 0 && (n < 10 || n > 15) {
		fields["phone"] = MsgPhoneLength
	}
	lengthRule(fields, "subject", f.Subject, 5, 100, MsgSubjectTooShort, MsgSubjectTooLong)
	lengthRule(fields, "message", f.Message, 20, 1000, MsgMessageTooShort, MsgMessageTooLong)

	return errors.Validation(fields)
}

func lengthRule(fields map[string]string, name, value string, min, max int, short, long string) {
	switch n := utf8.RuneCountInString(value); {
	case n < min:
		fields[name] = short
	case n > max:
		fields[name] = long
	}
}

// Newsletter is the footer signup form.
type Newsletter struct {
	Email string `json:"email" bson:"email"`
}

// Validate checks the email address.
func (n Newsletter) Validate() error {
	if errors.ValidateEmail(n.Email) != nil {
		return errors.Validation(map[string]string{"email": MsgInvalidEmail})
	}
	return nil
}
