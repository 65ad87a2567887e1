package email

import "time"

func (c *Client) SendWelcomeEmail(to, username string) error {
	return c.SendEmail(to, "Welcome to the Robotics Club!", TemplateWelcome, map[string]any{
		"Username": username,
	})
}

func (c *Client) SendPasswordChangedEmail(to, username string, changedAt time.Time) error {
	return c.SendEmail(to, "Your password was changed", TemplatePasswordChanged, map[string]any{
		"Username":  username,
		"ChangedAt": changedAt,
	})
}
