package messaging

import "context"

// Sender delivers a message over an external channel. Implementations either
// succeed or return an error; there is no partial-delivery state.
type Sender interface {
	SendSMS(ctx context.Context, toNumber, body string) error
	SendWhatsApp(ctx context.Context, toNumber, body string) error
}
