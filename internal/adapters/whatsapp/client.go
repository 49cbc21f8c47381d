package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/attune-labs/attune-agent/internal/config"
	"github.com/attune-labs/attune-agent/internal/domain"
)

// MaxButtons is the WhatsApp Cloud API cap on interactive reply buttons.
const MaxButtons = 3

// Client talks to the WhatsApp Cloud API (graph.facebook.com) for both
// configured Business accounts. It implements domain.MessageSender.
//
// A failed send is returned as an error and never retried here: the
// cron schedule that triggered the batch simply runs again later.
type Client struct {
	graphURL string
	cfg      *config.Config
	http     *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		graphURL: cfg.GraphAPIURL,
		cfg:      cfg,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// ─────────────────────────────────────────
// Wire types
// ─────────────────────────────────────────

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type interactiveMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Interactive      struct {
		Type string `json:"type"`
		Body struct {
			Text string `json:"text"`
		} `json:"body"`
		Action struct {
			Buttons []replyButton `json:"buttons"`
		} `json:"action"`
	} `json:"interactive"`
}

type replyButton struct {
	Type  string `json:"type"`
	Reply struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"reply"`
}

// SendText sends a plain text message through the selected account.
func (c *Client) SendText(ctx context.Context, account domain.AccountID, to domain.UserID, body string) error {
	msg := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               string(to),
		Type:             "text",
	}
	msg.Text.Body = body

	return c.post(ctx, account, msg)
}

// SendButtons sends an interactive message with up to MaxButtons reply
// options.
func (c *Client) SendButtons(ctx context.Context, account domain.AccountID, to domain.UserID, body string, buttons []domain.Button) error {
	if len(buttons) == 0 || len(buttons) > MaxButtons {
		return fmt.Errorf("whatsapp: interactive message needs 1-%d buttons, got %d", MaxButtons, len(buttons))
	}

	msg := interactiveMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               string(to),
		Type:             "interactive",
	}
	msg.Interactive.Type = "button"
	msg.Interactive.Body.Text = body
	for _, b := range buttons {
		rb := replyButton{Type: "reply"}
		rb.Reply.ID = b.ID
		rb.Reply.Title = b.Title
		msg.Interactive.Action.Buttons = append(msg.Interactive.Action.Buttons, rb)
	}

	return c.post(ctx, account, msg)
}

func (c *Client) post(ctx context.Context, account domain.AccountID, payload any) error {
	acct := c.cfg.Account(int(account))

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: encoding payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.graphURL, acct.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+acct.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: sending message: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("whatsapp: send failed with status %d: %s", res.StatusCode, detail)
	}
	return nil
}

// ─────────────────────────────────────────
// Media (voice notes)
// ─────────────────────────────────────────

// MediaURL resolves a media ID from a webhook event into a short-lived
// download URL.
func (c *Client) MediaURL(ctx context.Context, account domain.AccountID, mediaID string) (string, error) {
	acct := c.cfg.Account(int(account))

	url := fmt.Sprintf("%s/%s", c.graphURL, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("whatsapp: building media request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+acct.AccessToken)

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: resolving media %s: %w", mediaID, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whatsapp: media lookup failed with status %d", res.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("whatsapp: decoding media response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("whatsapp: media %s has no download url", mediaID)
	}
	return out.URL, nil
}

// DownloadMedia fetches media bytes. Graph download URLs require the
// same bearer token as the API itself.
func (c *Client) DownloadMedia(ctx context.Context, account domain.AccountID, url string) ([]byte, error) {
	acct := c.cfg.Account(int(account))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: building download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+acct.AccessToken)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: downloading media: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whatsapp: media download failed with status %d", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}
