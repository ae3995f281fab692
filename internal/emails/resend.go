package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"
)

const resendAPI = "https://api.resend.com/emails"

// LeadNotification is everything the agent email needs.
type LeadNotification struct {
	AgentEmail     string
	AgentName      string
	LeadName       string
	LeadEmail      string
	LeadPhone      *string
	Message        *string
	ListingAddress string
}

// Sender sends the lead-notification email. The caller treats failure as
// best-effort: logged, reflected in Lead.Notified, never raised.
type Sender interface {
	SendLeadNotification(ctx context.Context, n LeadNotification) error
}

// ResendClient sends transactional email via the Resend API.
type ResendClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

type resendSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *ResendClient) SendLeadNotification(ctx context.Context, n LeadNotification) error {
	if c.APIKey == "" {
		return fmt.Errorf("resend: RESEND_API_KEY is not set")
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}

	body := resendSendRequest{
		From:    c.MailFrom,
		To:      []string{n.AgentEmail},
		Subject: fmt.Sprintf("New Lead for %s", n.ListingAddress),
		HTML:    leadNotificationHTML(n),
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resend send failed: status %d", resp.StatusCode)
	}
	return nil
}

func leadNotificationHTML(n LeadNotification) string {
	phoneHTML := ""
	if n.LeadPhone != nil && *n.LeadPhone != "" {
		phoneHTML = fmt.Sprintf("<p>Phone: %s</p>", html.EscapeString(*n.LeadPhone))
	}
	messageHTML := ""
	if n.Message != nil && *n.Message != "" {
		messageHTML = fmt.Sprintf("<p>Message: %s</p>", html.EscapeString(*n.Message))
	}
	return fmt.Sprintf(`
		<h2>New inquiry for %s</h2>
		<p><strong>%s</strong> is interested in this property.</p>
		<p>Email: %s</p>
		%s
		%s
		<hr>
		<p style="color:#666;font-size:12px">Sent via PropertyFlow</p>
	`,
		html.EscapeString(n.ListingAddress),
		html.EscapeString(n.LeadName),
		html.EscapeString(n.LeadEmail),
		phoneHTML,
		messageHTML,
	)
}
