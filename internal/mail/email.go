// Package mail implements the mail-provider domain for Mailpilot.
// It provides the email record type, ingestion validation, body text
// normalization, and a Gmail-backed provider client for fetching unread
// messages and dispatching threaded replies.
package mail

import "fmt"

// Email is the immutable per-message record threaded through the triage
// pipeline. All seven fields are required for a record to enter the pipeline.
type Email struct {
	ID         string `json:"id"`
	ThreadID   string `json:"threadId"`
	MessageID  string `json:"messageId"`
	References string `json:"references"`
	Sender     string `json:"sender"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// Input is the wire shape of an email record. Pointer fields distinguish
// a missing field from an empty value so ingestion can fail fast on
// malformed records before any pipeline state exists.
type Input struct {
	ID         *string `json:"id"`
	ThreadID   *string `json:"threadId"`
	MessageID  *string `json:"messageId"`
	References *string `json:"references"`
	Sender     *string `json:"sender"`
	Subject    *string `json:"subject"`
	Body       *string `json:"body"`
}

// Email validates the input and converts it to an Email record.
// Returns an error wrapping ErrIngestion when a required field is missing,
// or when an identifier or threading field is empty.
func (in Input) Email() (Email, error) {
	fields := []struct {
		name     string
		value    *string
		nonEmpty bool
	}{
		{"id", in.ID, true},
		{"threadId", in.ThreadID, true},
		{"messageId", in.MessageID, true},
		{"references", in.References, true},
		{"sender", in.Sender, true},
		{"subject", in.Subject, false},
		{"body", in.Body, false},
	}

	for _, f := range fields {
		if f.value == nil {
			return Email{}, fmt.Errorf("%w: missing required field: %s", ErrIngestion, f.name)
		}
		if f.nonEmpty && *f.value == "" {
			return Email{}, fmt.Errorf("%w: field must not be empty: %s", ErrIngestion, f.name)
		}
	}

	return Email{
		ID:         *in.ID,
		ThreadID:   *in.ThreadID,
		MessageID:  *in.MessageID,
		References: *in.References,
		Sender:     *in.Sender,
		Subject:    *in.Subject,
		Body:       *in.Body,
	}, nil
}
