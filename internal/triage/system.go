package triage

import (
	"context"

	"github.com/google/uuid"

	"github.com/mailpilot/mailpilot/internal/mail"
	"github.com/mailpilot/mailpilot/pkg/pagination"
)

// System defines the public contract for triage domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Outcome], error)

	Find(ctx context.Context, id uuid.UUID) (*Outcome, error)

	// Process validates the submitted email records, runs the triage
	// pipeline over each, and stores the outcomes. A single malformed
	// record rejects the whole batch before any pipeline state exists.
	Process(ctx context.Context, inputs []mail.Input) ([]Outcome, error)

	// ProcessInbox fetches unread messages from the mail provider, triages
	// them, stores the outcomes, and marks completed messages read.
	ProcessInbox(ctx context.Context) ([]Outcome, error)
}
