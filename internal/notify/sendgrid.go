package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultSendGridURL is SendGrid's v3 mail send endpoint
const DefaultSendGridURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridClient delivers plain-text mail through the SendGrid v3 API.
// The operator mails themselves: from and to are the same address.
type SendGridClient struct {
	url          string
	apiKey       string
	emailAddress string
	httpClient   *http.Client
}

// NewSendGridClient creates a mail client with a bounded send timeout
func NewSendGridClient(apiKey, emailAddress string) *SendGridClient {
	return &SendGridClient{
		url:          DefaultSendGridURL,
		apiKey:       apiKey,
		emailAddress: emailAddress,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type mailAddress struct {
	Email string `json:"email"`
}

type mailPersonalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailSendRequest struct {
	Personalizations []mailPersonalization `json:"personalizations"`
	From             mailAddress           `json:"from"`
	Subject          string                `json:"subject"`
	Content          []mailContent         `json:"content"`
}

// Send delivers one plain-text message and returns SendGrid's status code
func (c *SendGridClient) Send(ctx context.Context, subject, body string) (int, error) {
	payload := mailSendRequest{
		Personalizations: []mailPersonalization{
			{To: []mailAddress{{Email: c.emailAddress}}},
		},
		From:    mailAddress{Email: c.emailAddress},
		Subject: subject,
		Content: []mailContent{
			{Type: "text/plain", Value: body},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("mail send failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	return resp.StatusCode, nil
}
