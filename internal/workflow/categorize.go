package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mailpilot/mailpilot/internal/mail"
	"github.com/mailpilot/mailpilot/internal/prompts"
	"github.com/mailpilot/mailpilot/pkg/formatting"
)

type categorizeResponse struct {
	Category  string `json:"category"`
	Rationale string `json:"rationale"`
}

type categorizePayload struct {
	Categories []string   `json:"categories"`
	Email      mail.Email `json:"email"`
}

// CategorizeNode returns a state node that assigns exactly one category from
// the configured set to the email. A model failure, unparseable response, or
// unknown category label marks the stage failed; the graph then routes to
// resolve so the email still reaches a terminal outcome.
func CategorizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		email, ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("categorize: %w", err)
		}

		prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageCategorize, categorizePayload{
			Categories: rt.Options.Categories,
			Email:      email,
		})
		if err != nil {
			return s, fmt.Errorf("categorize: %w", err)
		}

		content, err := rt.complete(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return s, ctx.Err()
			}
			return failStage(s, ts, "categorize", fmt.Errorf("%w: %w", ErrCategorizeFailed, err)), nil
		}

		parsed, err := formatting.Parse[categorizeResponse](content)
		if err != nil {
			return failStage(s, ts, "categorize", fmt.Errorf("%w: parse response: %w", ErrCategorizeFailed, err)), nil
		}

		if !rt.Options.ValidCategory(parsed.Category) {
			return failStage(s, ts, "categorize", fmt.Errorf("%w: unknown category %q", ErrCategorizeFailed, parsed.Category)), nil
		}

		ts.Category = parsed.Category
		ts.Rationale = parsed.Rationale

		rt.Logger.InfoContext(
			ctx, "categorize node complete",
			"email_id", email.ID,
			"category", ts.Category,
		)

		return s.Set(KeyTriage, ts), nil
	})
}

// extractTriageState reads the email and triage state from the state bag.
// Missing or mistyped values indicate a wiring bug, not a stage failure.
func extractTriageState(s state.State) (mail.Email, TriageState, error) {
	emailVal, ok := s.Get(KeyEmail)
	if !ok {
		return mail.Email{}, TriageState{}, fmt.Errorf("%w: missing %s in state", ErrStateCorrupt, KeyEmail)
	}

	email, ok := emailVal.(mail.Email)
	if !ok {
		return mail.Email{}, TriageState{}, fmt.Errorf("%w: %s is not mail.Email", ErrStateCorrupt, KeyEmail)
	}

	triageVal, ok := s.Get(KeyTriage)
	if !ok {
		return mail.Email{}, TriageState{}, fmt.Errorf("%w: missing %s in state", ErrStateCorrupt, KeyTriage)
	}

	ts, ok := triageVal.(TriageState)
	if !ok {
		return mail.Email{}, TriageState{}, fmt.Errorf("%w: %s is not TriageState", ErrStateCorrupt, KeyTriage)
	}

	return email, ts, nil
}

func failStage(s state.State, ts TriageState, stage string, err error) state.State {
	ts.FailedStage = stage
	ts.FailureReason = err.Error()
	return s.Set(KeyTriage, ts)
}
