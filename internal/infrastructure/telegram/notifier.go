// Package telegram sends run reports through the Bot API.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"infocurator/internal/domain"
	"infocurator/internal/ports"
)

const sendTimeout = 10 * time.Second

// Notifier posts run outcomes to a Telegram chat. With no token or chat id
// configured it logs and skips; notification failures never fail a run.
type Notifier struct {
	client   *http.Client
	baseURL  string
	botToken string
	chatID   string
	siteURL  string
	logger   *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(botToken, chatID, siteURL string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		client:   &http.Client{Timeout: sendTimeout},
		baseURL:  "https://api.telegram.org",
		botToken: botToken,
		chatID:   chatID,
		siteURL:  siteURL,
		logger:   logger.With("component", "telegram"),
	}
}

func (n *Notifier) configured() bool {
	return n.botToken != "" && n.chatID != ""
}

// NotifyRun sends one message describing the run outcome.
func (n *Notifier) NotifyRun(ctx context.Context, note domain.Notification) error {
	if !n.configured() {
		n.logger.Debug("telegram not configured, skipping notification")
		return nil
	}
	return n.send(ctx, n.format(note))
}

func (n *Notifier) format(note domain.Notification) string {
	var b strings.Builder

	if note.Error != "" {
		fmt.Fprintf(&b, "❌ Curation run failed\n\n%s\n", note.Error)
		if note.Collected > 0 {
			fmt.Fprintf(&b, "\nCollected %d items before failing.", note.Collected)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "✅ Curation run complete\n\n")
	fmt.Fprintf(&b, "Collected: %d\nSelected: %d\n", note.Collected, note.Selected)

	if len(note.Categories) > 0 {
		ids := make([]string, 0, len(note.Categories))
		for id := range note.Categories {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		b.WriteString("\n")
		for _, id := range ids {
			cat := note.Categories[id]
			label := cat.Label
			if label == "" {
				label = id
			}
			fmt.Fprintf(&b, "• %s: %d\n", label, cat.Collected)
		}
	}

	if note.IncludeWeekly {
		b.WriteString("\nWeekly digest included.\n")
	}
	if n.siteURL != "" {
		fmt.Fprintf(&b, "\n%s", n.siteURL)
	}
	return b.String()
}

func (n *Notifier) send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	form := url.Values{
		"chat_id": {n.chatID},
		"text":    {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram responded %s", resp.Status)
	}
	return nil
}
