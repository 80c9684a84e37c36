package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.brevo.com"

var ErrNotConfigured = errors.New("brevo api key not set")

// BrevoClient sends transactional email through the Brevo SMTP API
type BrevoClient struct {
	http       *resty.Client
	apiKey     string
	senderName string
	senderMail string
}

type contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendRequest struct {
	Sender      contact   `json:"sender"`
	To          []contact `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
}

// NewBrevoClient creates a client. baseURL may be empty for the public API.
func NewBrevoClient(apiKey, senderMail, baseURL string) *BrevoClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &BrevoClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetHeader("accept", "application/json"),
		apiKey:     apiKey,
		senderName: "AlertFi",
		senderMail: senderMail,
	}
}

// Send delivers one HTML email
func (c *BrevoClient) Send(ctx context.Context, to, subject, html string) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("api-key", c.apiKey).
		SetBody(sendRequest{
			Sender:      contact{Name: c.senderName, Email: c.senderMail},
			To:          []contact{{Email: to}},
			Subject:     subject,
			HTMLContent: html,
		}).
		Post("/v3/smtp/email")
	if err != nil {
		return fmt.Errorf("brevo request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("brevo returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
