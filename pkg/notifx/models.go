package notifx

import (
	"net/mail"
)

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// String renders the address in RFC 5322 form.
func (a Address) String() string {
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Message is one logical email. Build it once and do not mutate it after
// handing it to a Service.
type Message struct {
	From     Address  `json:"from"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	HTMLBody string   `json:"html_body"`
	TextBody string   `json:"text_body,omitempty"`
}

// NewMessage builds a Message for the given recipients.
func NewMessage(subject, htmlBody, textBody string, to ...string) Message {
	return Message{
		To:       append([]string(nil), to...),
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}

// DeliveryResult is the outcome of a successful send.
type DeliveryResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
}
