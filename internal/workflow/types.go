package workflow

import (
	"slices"
	"time"
)

// State bag keys shared across triage nodes.
const (
	KeyEmail   = "email"
	KeyTriage  = "triage_state"
	KeyOutcome = "outcome"
)

// OutcomeStatus is the terminal disposition of a triage execution.
type OutcomeStatus string

// Terminal statuses for a triaged email.
const (
	// StatusSent indicates a drafted reply was approved and dispatched.
	StatusSent OutcomeStatus = "sent"
	// StatusSkipped indicates the category required no reply.
	StatusSkipped OutcomeStatus = "skipped"
	// StatusUnsent indicates drafting gave up or a stage failed; the last
	// draft is preserved for manual review.
	StatusUnsent OutcomeStatus = "unsent"
	// StatusCancelled indicates the execution was interrupted before a
	// terminal stage was reached.
	StatusCancelled OutcomeStatus = "cancelled"
)

// Turn is one entry in the drafting conversation: a writer draft or a
// reviewer verdict.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation roles for drafting turns.
const (
	RoleWriter   = "writer"
	RoleReviewer = "reviewer"
)

// WriterLog is the append-only drafting conversation accumulated across
// draft/evaluate cycles. Append never mutates the receiver's backing array,
// so snapshots held by earlier state values stay stable.
type WriterLog []Turn

// Append returns a new log with the turn added.
func (w WriterLog) Append(role, content string) WriterLog {
	return append(slices.Clip(w), Turn{Role: role, Content: content})
}

// Document is one retrieved knowledge-base entry.
type Document struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}

// TriageState holds the running per-email triage data accumulated across
// nodes. Nodes treat it as copy-on-write: each node reads it from the state
// bag, modifies a local copy, and writes the copy back.
type TriageState struct {
	Category  string     `json:"category"`
	Rationale string     `json:"rationale"`
	Queries   []string   `json:"queries"`
	Retrieved []Document `json:"retrieved"`
	Draft     string     `json:"draft"`
	Writer    WriterLog  `json:"writer"`
	Sendable  bool       `json:"sendable"`
	Reason    string     `json:"reason"`
	Trials    int        `json:"trials"`
	Sent      bool       `json:"sent"`

	// FailedStage is set when a stage fails terminally; the graph then
	// routes to resolve instead of erroring, so every execution produces
	// an outcome.
	FailedStage   string `json:"failed_stage,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// Failed reports whether a stage has failed terminally.
func (s *TriageState) Failed() bool {
	return s.FailedStage != ""
}

// Outcome is the final output of a triage execution for one email.
type Outcome struct {
	EmailID     string        `json:"email_id"`
	ThreadID    string        `json:"thread_id"`
	Status      OutcomeStatus `json:"status"`
	Category    string        `json:"category"`
	Draft       string        `json:"draft"`
	Reason      string        `json:"reason"`
	Trials      int           `json:"trials"`
	CompletedAt time.Time     `json:"completed_at"`
}
