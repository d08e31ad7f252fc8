package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mailpilot/mailpilot/internal/mail"
	"github.com/mailpilot/mailpilot/internal/prompts"
	"github.com/mailpilot/mailpilot/pkg/formatting"
)

type evaluateResponse struct {
	Sendable bool   `json:"sendable"`
	Reason   string `json:"reason"`
}

type evaluatePayload struct {
	Email     mail.Email `json:"email"`
	Documents []Document `json:"documents"`
	Draft     string     `json:"draft"`
}

// EvaluateNode returns a state node that reviews the current draft against
// the original email and retrieved documents. The verdict is appended to the
// conversation log so a rejected draft's feedback reaches the next attempt.
// A model failure or unparseable response degrades to a rejection, never an
// approval: an unreviewed draft must not be sent.
func EvaluateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		email, ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("evaluate: %w", err)
		}

		prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageEvaluate, evaluatePayload{
			Email:     email,
			Documents: ts.Retrieved,
			Draft:     ts.Draft,
		})
		if err != nil {
			return s, fmt.Errorf("evaluate: %w", err)
		}

		verdict := evaluateResponse{
			Sendable: false,
			Reason:   "evaluation unavailable; manual review required",
		}

		content, err := rt.complete(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return s, ctx.Err()
			}
			rt.Logger.WarnContext(
				ctx, "evaluation degraded to rejection",
				"email_id", email.ID,
				"error", fmt.Errorf("%w: %w", ErrEvaluateFailed, err),
			)
		} else if parsed, err := formatting.Parse[evaluateResponse](content); err == nil {
			verdict = parsed
		} else {
			rt.Logger.WarnContext(
				ctx, "evaluation response unparseable",
				"email_id", email.ID,
				"error", fmt.Errorf("%w: %w", ErrEvaluateFailed, err),
			)
		}

		ts.Sendable = verdict.Sendable
		ts.Reason = verdict.Reason
		ts.Writer = ts.Writer.Append(RoleReviewer, verdict.Reason)

		rt.Logger.InfoContext(
			ctx, "evaluate node complete",
			"email_id", email.ID,
			"sendable", ts.Sendable,
			"trial", ts.Trials,
		)

		return s.Set(KeyTriage, ts), nil
	})
}
