package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"donor-relay/pkg/models"
)

var (
	ErrInvalidPayload = errors.New("invalid JSON payload")
	ErrMissingData    = errors.New("missing 'data' field in form body")
)

// BloodRequestEnvelope forwards an emergency blood request unchanged under
// the data key. The legacy script handler needs no action.
func BloodRequestEnvelope(raw []byte) (models.Envelope, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return models.Envelope{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return models.Envelope{Data: buf.String()}, nil
}

// DonorRegistrationEnvelope keeps only the donor form fields and tags the
// record with its source.
func DonorRegistrationEnvelope(p models.DonorPayload, action, source string) (models.Envelope, error) {
	return newEnvelope(action, donorData(p, source))
}

// DonorDetailsEnvelope is used when a donor answers a specific blood
// request, so the record also links back to that request.
func DonorDetailsEnvelope(p models.DonorPayload, action, source string) (models.Envelope, error) {
	data := donorData(p, source)
	setDefault(data, "emergencyAvailable", "Yes")
	data["relatedRequestId"] = valueOr(p, "requestId", "")
	data["relatedPatientName"] = valueOr(p, "patientName", "")
	return newEnvelope(action, data)
}

// ParseDonorPayload decodes a JSON object. Numbers keep their literal form.
func ParseDonorPayload(raw []byte) (models.DonorPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var p models.DonorPayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidPayload)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidPayload)
	}
	return p, nil
}

// ParseRegistrationForm extracts and decodes the JSON held in the data field
// of a form-urlencoded body.
func ParseRegistrationForm(body []byte) (models.DonorPayload, error) {
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	data := form.Get("data")
	if data == "" {
		return nil, ErrMissingData
	}
	return ParseDonorPayload([]byte(data))
}

func donorData(p models.DonorPayload, source string) map[string]any {
	data := make(map[string]any, len(models.DonorFields)+3)
	for _, field := range models.DonorFields {
		if v, ok := p[field]; ok && v != nil {
			data[field] = v
		}
	}
	setDefault(data, "lastDonation", "")
	setDefault(data, "medicalHistory", "")
	data["source"] = source
	return data
}

func setDefault(data map[string]any, key string, def any) {
	if v, ok := data[key]; !ok || v == nil {
		data[key] = def
	}
}

func valueOr(p models.DonorPayload, key string, def any) any {
	if v, ok := p[key]; ok && v != nil {
		return v
	}
	return def
}

func newEnvelope(action string, data map[string]any) (models.Envelope, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return models.Envelope{}, fmt.Errorf("error encoding envelope: %w", err)
	}
	return models.Envelope{Action: action, Data: string(bytes.TrimRight(buf.Bytes(), "\n"))}, nil
}
