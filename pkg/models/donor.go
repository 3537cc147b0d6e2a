package models

import "net/url"

// DonorPayload is the untyped JSON object posted by the donor forms.
type DonorPayload map[string]any

// StringField returns the field as a string, or "" when it is absent or not a string.
func (p DonorPayload) StringField(field string) string {
	s, _ := p[field].(string)
	return s
}

// DonorFields is the set of donor form fields forwarded to the spreadsheet
// backend. Anything else in an inbound payload is dropped.
var DonorFields = []string{
	"fullName",
	"dateOfBirth",
	"gender",
	"contactNumber",
	"email",
	"weight",
	"bloodGroup",
	"city",
	"area",
	"emergencyAvailable",
	"preferredContact",
	"lastDonation",
	"medicalHistory",
	"registrationDate",
}

// Envelope is the form body sent to the Apps Script endpoint.
type Envelope struct {
	Action string // empty for the legacy blood request flow
	Data   string // JSON document
}

// Values form-encodes the envelope.
func (e Envelope) Values() url.Values {
	v := url.Values{}
	if e.Action != "" {
		v.Set("action", e.Action)
	}
	v.Set("data", e.Data)
	return v
}

// ErrorResponse is returned to the browser when a relay fails.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
