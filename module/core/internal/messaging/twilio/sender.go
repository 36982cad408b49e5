package twilio

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Morpheus61/relishagro-backend/module/core/internal/messaging"
)

var _ messaging.Sender = (*Sender)(nil)

type Sender struct {
	client     *twilio.RestClient
	fromNumber string
}

func NewSender(accountSID, authToken, fromNumber string) *Sender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Sender{client: client, fromNumber: fromNumber}
}

func (s *Sender) SendSMS(_ context.Context, toNumber, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio sms: %w", err)
	}
	return nil
}

func (s *Sender) SendWhatsApp(_ context.Context, toNumber, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo("whatsapp:" + toNumber)
	params.SetFrom("whatsapp:" + s.fromNumber)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio whatsapp: %w", err)
	}
	return nil
}
