package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// SendNode returns a state node that dispatches the approved draft as a
// threaded reply. A provider failure marks the stage failed rather than
// erroring; the draft is preserved on the outcome for manual dispatch.
func SendNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		email, ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("send: %w", err)
		}

		if err := rt.Mail.Reply(ctx, email, ts.Draft); err != nil {
			if ctx.Err() != nil {
				return s, ctx.Err()
			}
			return failStage(s, ts, "send", fmt.Errorf("%w: %w", ErrSendFailed, err)), nil
		}

		ts.Sent = true

		rt.Logger.InfoContext(
			ctx, "send node complete",
			"email_id", email.ID,
			"thread_id", email.ThreadID,
			"trials", ts.Trials,
		)

		return s.Set(KeyTriage, ts), nil
	})
}
