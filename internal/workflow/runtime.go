package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/mailpilot/mailpilot/internal/config"
	"github.com/mailpilot/mailpilot/internal/mail"
	"github.com/mailpilot/mailpilot/internal/prompts"
	"github.com/mailpilot/mailpilot/pkg/storage"
)

// CompleteFunc produces a model completion for a composed prompt.
// When nil on Runtime, a fresh agent handles each completion.
type CompleteFunc func(ctx context.Context, prompt string) (string, error)

// Runtime bundles the dependencies that triage nodes require.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems.
type Runtime struct {
	Agent    gaconfig.AgentConfig
	Options  config.WorkflowConfig
	Mail     mail.System
	Storage  storage.System
	Prompts  prompts.System
	Logger   *slog.Logger
	Complete CompleteFunc
}

func (rt *Runtime) complete(ctx context.Context, prompt string) (string, error) {
	if rt.Complete != nil {
		return rt.Complete(ctx, prompt)
	}

	a, err := agent.New(&rt.Agent)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Text(), nil
}
