package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const labelUnread = "UNREAD"

// System defines the mail-provider contract the triage pipeline depends on.
// Fetched records arrive with normalized bodies; replies are threaded via the
// record's threadId, messageId, and references.
type System interface {
	// FetchUnread returns unread inbox messages as validated email records.
	// Records missing required provider fields are dropped, not returned.
	FetchUnread(ctx context.Context) ([]Email, error)
	// Reply dispatches one threaded reply to the given record's sender.
	Reply(ctx context.Context, email Email, body string) error
	// MarkRead clears the unread label on a message after a terminal outcome.
	MarkRead(ctx context.Context, id string) error
}

type client struct {
	srv    *gmail.Service
	cfg    *Config
	logger *slog.Logger
}

// New creates a Gmail-backed mail system from the given configuration.
// It requires an existing OAuth token file; the interactive consent flow is
// not part of the service and must be completed out of band.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(data, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoToken, err)
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return &client{
		srv:    srv,
		cfg:    cfg,
		logger: logger.With("system", "mail"),
	}, nil
}

func (c *client) FetchUnread(ctx context.Context) ([]Email, error) {
	list, err := c.srv.Users.Messages.List(c.cfg.UserID).
		Q(c.cfg.Query).
		MaxResults(c.cfg.MaxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	emails := make([]Email, 0, len(list.Messages))
	for _, ref := range list.Messages {
		msg, err := c.srv.Users.Messages.Get(c.cfg.UserID, ref.Id).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			c.logger.Warn("fetch message failed", "id", ref.Id, "error", err)
			continue
		}

		email, err := c.parseMessage(msg)
		if err != nil {
			c.logger.Warn("message dropped at ingestion", "id", ref.Id, "error", err)
			continue
		}

		emails = append(emails, email)
	}

	c.logger.Info("unread messages fetched", "count", len(emails))
	return emails, nil
}

func (c *client) Reply(ctx context.Context, email Email, body string) error {
	raw := composeReply(email, body)

	msg := &gmail.Message{
		ThreadId: email.ThreadID,
		Raw:      base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := c.srv.Users.Messages.Send(c.cfg.UserID, msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	c.logger.Info("reply dispatched", "thread", email.ThreadID, "to", email.Sender)
	return nil
}

func (c *client) MarkRead(ctx context.Context, id string) error {
	req := &gmail.ModifyMessageRequest{RemoveLabelIds: []string{labelUnread}}
	if _, err := c.srv.Users.Messages.Modify(c.cfg.UserID, id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("mark read %s: %w", id, err)
	}
	return nil
}

// parseMessage converts a provider message into a validated email record.
// A message without a References header starts its thread; its own Message-ID
// seeds the references chain so replies always thread correctly.
func (c *client) parseMessage(msg *gmail.Message) (Email, error) {
	var sender, subject, messageID, references string

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			switch header.Name {
			case "From":
				sender = header.Value
			case "Subject":
				subject = header.Value
			case "Message-ID", "Message-Id":
				messageID = header.Value
			case "References":
				references = header.Value
			}
		}
	}

	if references == "" {
		references = messageID
	}

	body := CleanBody(plainTextBody(msg.Payload))

	in := Input{
		ID:         &msg.Id,
		ThreadID:   &msg.ThreadId,
		MessageID:  &messageID,
		References: &references,
		Sender:     &sender,
		Subject:    &subject,
		Body:       &body,
	}

	return in.Email()
}

func plainTextBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(data)
		}
	}

	for _, part := range payload.Parts {
		mime := strings.ToLower(part.MimeType)
		if strings.HasPrefix(mime, "text/") || strings.HasPrefix(mime, "multipart/") {
			if body := plainTextBody(part); body != "" {
				return body
			}
		}
	}

	return ""
}

func composeReply(email Email, body string) string {
	subject := email.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	references := email.References
	if !strings.Contains(references, email.MessageID) {
		references += " " + email.MessageID
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "To: %s\r\n", email.Sender)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	fmt.Fprintf(&sb, "In-Reply-To: %s\r\n", email.MessageID)
	fmt.Fprintf(&sb, "References: %s\r\n", references)
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	return sb.String()
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}
