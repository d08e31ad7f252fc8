package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mailpilot/mailpilot/internal/mail"
	"github.com/mailpilot/mailpilot/internal/prompts"
	"github.com/mailpilot/mailpilot/pkg/formatting"
)

type draftResponse struct {
	Email string `json:"email"`
}

type draftPayload struct {
	Email        mail.Email `json:"email"`
	Category     string     `json:"category"`
	Documents    []Document `json:"documents"`
	Conversation WriterLog  `json:"conversation"`
}

// DraftNode returns a state node that generates one reply attempt. The
// conversation log carries every prior draft and reviewer verdict, so
// redrafts see the feedback they must address. A transient model failure is
// retried once before the stage is marked failed; an unparseable response
// falls back to the raw completion text so the evaluator still sees a draft.
// Each successful attempt consumes one trial.
func DraftNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		email, ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("draft: %w", err)
		}

		prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageDraft, draftPayload{
			Email:        email,
			Category:     ts.Category,
			Documents:    ts.Retrieved,
			Conversation: ts.Writer,
		})
		if err != nil {
			return s, fmt.Errorf("draft: %w", err)
		}

		content, err := rt.complete(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return s, ctx.Err()
			}

			rt.Logger.WarnContext(
				ctx, "draft attempt failed, retrying",
				"email_id", email.ID,
				"error", err,
			)

			content, err = rt.complete(ctx, prompt)
			if err != nil {
				if ctx.Err() != nil {
					return s, ctx.Err()
				}
				return failStage(s, ts, "draft", fmt.Errorf("%w: %w", ErrDraftFailed, err)), nil
			}
		}

		draft := content
		if parsed, err := formatting.Parse[draftResponse](content); err == nil && parsed.Email != "" {
			draft = parsed.Email
		}

		ts.Draft = draft
		ts.Trials++
		ts.Writer = ts.Writer.Append(RoleWriter, draft)
		ts.Sendable = false
		ts.Reason = ""

		rt.Logger.InfoContext(
			ctx, "draft node complete",
			"email_id", email.ID,
			"trial", ts.Trials,
		)

		return s.Set(KeyTriage, ts), nil
	})
}
