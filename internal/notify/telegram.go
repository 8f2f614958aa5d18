package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Notifier sends guardrail alerts to a Telegram chat via the Bot API.
type Notifier struct {
	botToken   string
	chatID     string
	httpClient *http.Client
	enabled    bool
	baseURL    string // overridable for testing; defaults to Telegram API
}

// NewNotifier creates a Notifier. Notifications are enabled only when both
// botToken and chatID are non-empty.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		enabled:    botToken != "" && chatID != "",
	}
}

// Enabled reports whether the notifier is active.
func (n *Notifier) Enabled() bool { return n.enabled }

// Send posts a message to the configured Telegram chat.
func (n *Notifier) Send(ctx context.Context, msg string) error {
	if !n.enabled {
		return nil
	}

	endpoint := n.baseURL
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	}
	vals := url.Values{
		"chat_id":    {n.chatID},
		"text":       {msg},
		"parse_mode": {"HTML"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.URL.RawQuery = vals.Encode()

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("notify: telegram %d: %s", resp.StatusCode, body.Description)
	}
	return nil
}

// NotifyBlocked alerts that a subject transitioned into a blocked state.
func (n *Notifier) NotifyBlocked(ctx context.Context, subject string, tags []string, reasons []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Guardrail Block</b>\nSubject: <code>%s</code>\nPatterns: %s", subject, strings.Join(tags, ", "))
	for _, r := range reasons {
		fmt.Fprintf(&b, "\n• %s", r)
	}
	return n.Send(ctx, b.String())
}

// NotifyCooldown alerts that a cooldown was stored or extended.
func (n *Notifier) NotifyCooldown(ctx context.Context, subject string, tag string, until time.Time) error {
	msg := fmt.Sprintf("<b>Cooldown Set</b>\nSubject: <code>%s</code>\nTrigger: %s\nExpires: %s",
		subject, tag, until.Format(time.RFC3339))
	return n.Send(ctx, msg)
}
