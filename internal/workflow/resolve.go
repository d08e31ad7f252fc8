package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ResolveNode returns the single exit node of the triage graph. It folds the
// accumulated triage state into a terminal Outcome: sent when a reply was
// dispatched, skipped when the category required none, unsent otherwise.
func ResolveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		email, ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("resolve: %w", err)
		}

		outcome := Outcome{
			EmailID:     email.ID,
			ThreadID:    email.ThreadID,
			Category:    ts.Category,
			Draft:       ts.Draft,
			Trials:      ts.Trials,
			CompletedAt: time.Now(),
		}

		switch {
		case ts.Sent:
			outcome.Status = StatusSent
			outcome.Reason = ts.Reason
		case ts.Failed():
			outcome.Status = StatusUnsent
			outcome.Reason = ts.FailureReason
		case ts.Category != "" && rt.Options.NoReplyCategory(ts.Category):
			outcome.Status = StatusSkipped
			outcome.Reason = ts.Rationale
		default:
			outcome.Status = StatusUnsent
			outcome.Reason = ts.Reason
		}

		rt.Logger.InfoContext(
			ctx, "resolve node complete",
			"email_id", email.ID,
			"status", outcome.Status,
			"category", outcome.Category,
			"trials", outcome.Trials,
		)

		return s.Set(KeyOutcome, outcome), nil
	})
}
