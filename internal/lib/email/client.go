// Package email sends transactional mail through Resend.
//
// Bodies are rendered from HTML templates embedded in the binary, with the
// sprig function map available inside them.
package email

import (
	"fmt"

	"github.com/deppfellow/robotics-club/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client wraps the Resend client. With no API key configured it renders the
// message, logs it and skips delivery.
type Client struct {
	sender   sender
	from     string
	clubName string
	logger   *zerolog.Logger
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{
		from:     fmt.Sprintf("%s <%s>", "Robotics Club", cfg.Integration.EmailFrom),
		clubName: "Robotics Club",
		logger:   logger,
	}

	if cfg.Integration.ResendAPIKey != "" {
		c.sender = resend.NewClient(cfg.Integration.ResendAPIKey).Emails
	}

	return c
}

// Enabled reports whether messages are actually delivered.
func (c *Client) Enabled() bool {
	return c.sender != nil
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["ClubName"]; !ok {
		data["ClubName"] = c.clubName
	}

	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	if c.sender == nil {
		c.logger.Info().
			Str("to", to).
			Str("template", string(templateName)).
			Msg("email delivery disabled, skipping send")
		return nil
	}

	_, err = c.sender.Send(&resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	return nil
}
