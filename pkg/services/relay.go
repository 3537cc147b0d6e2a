package services

import (
	"context"
	"log/slog"

	"donor-relay/pkg/clients/appsscript"
	"donor-relay/pkg/config"
	"donor-relay/pkg/utils"
)

// RelayService forwards website submissions to the Apps Script backend and
// returns the script's raw answer.
type RelayService interface {
	FetchRequests(ctx context.Context) ([]byte, error)
	SubmitBloodRequest(ctx context.Context, body []byte) ([]byte, error)
	SubmitDonorRegistration(ctx context.Context, formBody []byte) ([]byte, error)
	SubmitDonorDetails(ctx context.Context, body []byte) ([]byte, error)
}

type relayServiceImpl struct {
	client appsscript.Client
	config *config.Config
}

// NewRelayService creates a new relay service
func NewRelayService(client appsscript.Client, config *config.Config) RelayService {
	return &relayServiceImpl{
		client: client,
		config: config,
	}
}

func (s *relayServiceImpl) FetchRequests(ctx context.Context) ([]byte, error) {
	return s.client.Fetch(ctx)
}

func (s *relayServiceImpl) SubmitBloodRequest(ctx context.Context, body []byte) ([]byte, error) {
	env, err := BloodRequestEnvelope(body)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Submitting blood request", "bytes", len(env.Data))
	return s.client.Submit(ctx, env.Values())
}

func (s *relayServiceImpl) SubmitDonorRegistration(ctx context.Context, formBody []byte) ([]byte, error) {
	payload, err := ParseRegistrationForm(formBody)
	if err != nil {
		return nil, err
	}

	env, err := DonorRegistrationEnvelope(payload, s.config.DonorRegistrationAction, s.config.SourceTag)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Submitting donor registration",
		"contact_hash", utils.HashContact(payload.StringField("contactNumber")),
		"blood_group", payload.StringField("bloodGroup"))
	return s.client.Submit(ctx, env.Values())
}

func (s *relayServiceImpl) SubmitDonorDetails(ctx context.Context, body []byte) ([]byte, error) {
	payload, err := ParseDonorPayload(body)
	if err != nil {
		return nil, err
	}

	env, err := DonorDetailsEnvelope(payload, s.config.DonorDetailsAction, s.config.SourceTag)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Submitting donor details",
		"contact_hash", utils.HashContact(payload.StringField("contactNumber")),
		"request_id", payload.StringField("requestId"))
	return s.client.Submit(ctx, env.Values())
}
