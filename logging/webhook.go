package logging

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	dgo "github.com/bwmarrin/discordgo"
)

const maxMessageLen = 2000

// WebhookExecutor is the part of *discordgo.Session used to post records.
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *dgo.WebhookParams, options ...dgo.RequestOption) (*dgo.Message, error)
}

type webhookHandler struct {
	*slog.TextHandler
}

// NewWebhookHandler returns a handler posting each record, in slog's text
// format, as a message of the Discord webhook at rawURL. An empty rawURL
// gives slog.DiscardHandler.
func NewWebhookHandler(s WebhookExecutor, rawURL string, opts *slog.HandlerOptions) (slog.Handler, error) {
	if rawURL == "" {
		return slog.DiscardHandler, nil
	}

	id, token, err := ParseWebhookURL(rawURL)
	if err != nil {
		return nil, err
	}

	w := webhookWriter{session: s, id: id, token: token}
	return webhookHandler{slog.NewTextHandler(w, opts)}, nil
}

// ParseWebhookURL extracts the ID and token of a Discord webhook URL such
// as https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(rawURL string) (id, token string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "webhooks" && i+2 < len(parts) {
			return parts[i+1], parts[i+2], nil
		}
	}

	return "", "", fmt.Errorf("Invalid webhook URL %q", u.Redacted())
}

type webhookWriter struct {
	session WebhookExecutor
	id      string
	token   string
}

func (w webhookWriter) Write(p []byte) (int, error) {
	_, err := w.session.WebhookExecute(w.id, w.token, false, &dgo.WebhookParams{
		Content: codeBlock(string(p)),
		AllowedMentions: &dgo.MessageAllowedMentions{
			Parse: []dgo.AllowedMentionType{},
		},
	})
	if err != nil {
		return 0, err
	}

	return len(p), nil
}

// codeBlock wraps s in a code block, cutting it to fit one message.
func codeBlock(s string) string {
	const fence = "```"
	s = strings.TrimRight(s, "\n")

	limit := maxMessageLen - 2*len(fence) - 2
	if len(s) > limit {
		s = s[:limit-len("…")]
		for !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
		s += "…"
	}

	return fence + "\n" + s + "\n" + fence
}
