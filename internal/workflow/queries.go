package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mailpilot/mailpilot/internal/mail"
	"github.com/mailpilot/mailpilot/internal/prompts"
	"github.com/mailpilot/mailpilot/pkg/formatting"
)

type queriesResponse struct {
	Queries []string `json:"queries"`
}

type queriesPayload struct {
	Category string     `json:"category"`
	Email    mail.Email `json:"email"`
}

// PlanNode returns a state node that produces knowledge-base search queries
// for the categorized email. Planning is best-effort: a model failure or
// unparseable response degrades to an empty query list, and drafting
// proceeds without reference material.
func PlanNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		email, ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("plan: %w", err)
		}

		prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageQueries, queriesPayload{
			Category: ts.Category,
			Email:    email,
		})
		if err != nil {
			return s, fmt.Errorf("plan: %w", err)
		}

		content, err := rt.complete(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return s, ctx.Err()
			}
			rt.Logger.WarnContext(
				ctx, "query planning degraded to no queries",
				"email_id", email.ID,
				"error", err,
			)
			return s.Set(KeyTriage, ts), nil
		}

		parsed, err := formatting.Parse[queriesResponse](content)
		if err != nil {
			rt.Logger.WarnContext(
				ctx, "query planning response unparseable",
				"email_id", email.ID,
				"error", err,
			)
			return s.Set(KeyTriage, ts), nil
		}

		ts.Queries = parsed.Queries

		rt.Logger.InfoContext(
			ctx, "plan node complete",
			"email_id", email.ID,
			"query_count", len(ts.Queries),
		)

		return s.Set(KeyTriage, ts), nil
	})
}
