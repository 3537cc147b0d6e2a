package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeValues_WithAction(t *testing.T) {
	env := Envelope{Action: "submit_donor_registration", Data: `{"fullName":"Asha"}`}

	v := env.Values()

	assert.Equal(t, "submit_donor_registration", v.Get("action"))
	assert.Equal(t, `{"fullName":"Asha"}`, v.Get("data"))
	assert.Equal(t, "action=submit_donor_registration&data=%7B%22fullName%22%3A%22Asha%22%7D", v.Encode())
}

func TestEnvelopeValues_WithoutAction(t *testing.T) {
	v := Envelope{Data: `{}`}.Values()

	_, hasAction := v["action"]
	assert.False(t, hasAction)
	assert.Equal(t, "{}", v.Get("data"))
}

func TestDonorPayloadString(t *testing.T) {
	p := DonorPayload{"contactNumber": "03001234567", "weight": 62.5}

	assert.Equal(t, "03001234567", p.StringField("contactNumber"))
	assert.Equal(t, "", p.StringField("weight"))
	assert.Equal(t, "", p.StringField("missing"))
}

func TestDonorFields(t *testing.T) {
	assert.Len(t, DonorFields, 14)
	assert.NotContains(t, DonorFields, "captchaAnswer")
}
