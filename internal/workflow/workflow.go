package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"golang.org/x/sync/errgroup"

	"github.com/mailpilot/mailpilot/internal/mail"
)

// Execute runs the triage pipeline for a single email. It builds the state
// graph (categorize → plan → retrieve → draft ⇄ evaluate → send → resolve),
// executes it, and extracts the Outcome from the final state. Cancellation
// yields a cancelled outcome rather than an error so batch callers can
// record partial progress.
func Execute(ctx context.Context, rt *Runtime, email mail.Email) (*Outcome, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyEmail, email)
	initialState = initialState.Set(KeyTriage, TriageState{})

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		if ctx.Err() != nil {
			return &Outcome{
				EmailID:     email.ID,
				ThreadID:    email.ThreadID,
				Status:      StatusCancelled,
				Reason:      ctx.Err().Error(),
				CompletedAt: time.Now(),
			}, nil
		}
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractOutcome(finalState)
}

// ProcessAll triages a batch of emails with bounded concurrency. An email
// whose execution errors is recorded as unsent rather than aborting the
// batch. Cancellation mid-batch stops new work but keeps the outcomes
// already produced: emails that never started are recorded as cancelled,
// so the caller always receives one outcome per input.
func ProcessAll(ctx context.Context, rt *Runtime, emails []mail.Email) ([]Outcome, error) {
	results := make([]Outcome, len(emails))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.Options.Workers)

	for i, email := range emails {
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = Outcome{
					EmailID:     email.ID,
					ThreadID:    email.ThreadID,
					Status:      StatusCancelled,
					Reason:      gctx.Err().Error(),
					CompletedAt: time.Now(),
				}
				return nil
			}

			outcome, err := Execute(gctx, rt, email)
			if err != nil {
				rt.Logger.ErrorContext(
					gctx, "triage execution failed",
					"email_id", email.ID,
					"error", err,
				)
				results[i] = Outcome{
					EmailID:     email.ID,
					ThreadID:    email.ThreadID,
					Status:      StatusUnsent,
					Reason:      err.Error(),
					CompletedAt: time.Now(),
				}
				return nil
			}

			results[i] = *outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("mailpilot-triage")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("categorize", CategorizeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("plan", PlanNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("retrieve", RetrieveNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("draft", DraftNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("evaluate", EvaluateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("send", SendNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("resolve", ResolveNode(rt)); err != nil {
		return nil, err
	}

	needsReply := needsReplyCond(rt)
	giveUp := giveUpCond(rt)

	// categorize → plan (reply expected), otherwise straight to resolve
	if err := graph.AddEdge("categorize", "plan", needsReply); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("categorize", "resolve", state.Not(needsReply)); err != nil {
		return nil, err
	}

	// plan → retrieve → draft (unconditional)
	if err := graph.AddEdge("plan", "retrieve", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("retrieve", "draft", nil); err != nil {
		return nil, err
	}

	// draft → evaluate (attempt produced), draft → resolve (stage failed)
	if err := graph.AddEdge("draft", "evaluate", state.Not(stageFailed)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("draft", "resolve", stageFailed); err != nil {
		return nil, err
	}

	// evaluate → send (approved), → draft (rejected with budget left),
	// → resolve (budget exhausted)
	if err := graph.AddEdge("evaluate", "send", approved); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("evaluate", "draft", retryDraft(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("evaluate", "resolve", giveUp); err != nil {
		return nil, err
	}

	// send → resolve (unconditional)
	if err := graph.AddEdge("send", "resolve", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("categorize"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("resolve"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractOutcome(s state.State) (*Outcome, error) {
	val, ok := s.Get(KeyOutcome)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in final state", ErrStateCorrupt, KeyOutcome)
	}

	outcome, ok := val.(Outcome)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not Outcome", ErrStateCorrupt, KeyOutcome)
	}

	return &outcome, nil
}

func triageState(s state.State) (TriageState, bool) {
	val, ok := s.Get(KeyTriage)
	if !ok {
		return TriageState{}, false
	}

	ts, ok := val.(TriageState)
	return ts, ok
}

// needsReplyCond routes categorized emails into the drafting path. A failed
// categorization or a no-reply category goes straight to resolve.
func needsReplyCond(rt *Runtime) func(state.State) bool {
	return func(s state.State) bool {
		ts, ok := triageState(s)
		if !ok || ts.Failed() {
			return false
		}
		return !rt.Options.NoReplyCategory(ts.Category)
	}
}

func stageFailed(s state.State) bool {
	ts, ok := triageState(s)
	return ok && ts.Failed()
}

func approved(s state.State) bool {
	ts, ok := triageState(s)
	return ok && ts.Sendable
}

func retryDraft(rt *Runtime) func(state.State) bool {
	return func(s state.State) bool {
		ts, ok := triageState(s)
		if !ok || ts.Sendable {
			return false
		}
		return ts.Trials < rt.Options.MaxTrials
	}
}

func giveUpCond(rt *Runtime) func(state.State) bool {
	return func(s state.State) bool {
		ts, ok := triageState(s)
		if !ok || ts.Sendable {
			return false
		}
		return ts.Trials >= rt.Options.MaxTrials
	}
}
