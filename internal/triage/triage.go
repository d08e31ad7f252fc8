// Package triage implements the triage outcome domain for Mailpilot.
// It provides types, data access, and business logic for running the triage
// pipeline over email records and storing the terminal outcome of each run.
package triage

import (
	"time"

	"github.com/google/uuid"
)

// Outcome represents a stored triage result for one email. It mirrors the
// outcomes table schema with flattened pipeline metadata.
type Outcome struct {
	ID           uuid.UUID `json:"id"`
	EmailID      string    `json:"email_id"`
	ThreadID     string    `json:"thread_id"`
	Status       string    `json:"status"`
	Category     string    `json:"category"`
	Draft        string    `json:"draft"`
	Reason       string    `json:"reason"`
	Trials       int       `json:"trials"`
	ModelName    string    `json:"model_name"`
	ProviderName string    `json:"provider_name"`
	ProcessedAt  time.Time `json:"processed_at"`
}
