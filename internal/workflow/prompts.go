package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mailpilot/mailpilot/internal/prompts"
)

// ComposePrompt builds a system prompt by combining tunable instructions,
// immutable specifications, and a stage-specific JSON context payload.
// When payload is nil, the prompt contains only instructions and spec.
func ComposePrompt(
	ctx context.Context,
	ps prompts.System,
	stage prompts.Stage,
	payload any,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if payload != nil {
		payloadJSON, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serialize %s context: %w", stage, err)
		}

		sb.WriteString("\n\nTriage context:\n\n")
		sb.WriteString(string(payloadJSON))
	}

	return sb.String(), nil
}
