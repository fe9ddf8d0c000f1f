package notifications

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers one prepared message.
type Sender interface {
	Send(ctx context.Context, message *mail.SGMailV3) error
}

type sendgridSender struct {
	client *sendgrid.Client
}

// NewSendgridSender wraps the SendGrid v3 mail client.
func NewSendgridSender(apiKey string) Sender {
	return &sendgridSender{client: sendgrid.NewSendClient(apiKey)}
}

func (s *sendgridSender) Send(ctx context.Context, message *mail.SGMailV3) error {
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
