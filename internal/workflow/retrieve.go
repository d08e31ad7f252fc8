package workflow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

const listPageSize = 200

// RetrieveNode returns a state node that resolves planned queries against
// the knowledge base. Matching is keyword-based: a blob matches when its key
// contains any token from any query. Retrieval is best-effort: storage
// failures degrade to an empty document set, and an empty query list skips
// the knowledge base entirely.
func RetrieveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		email, ts, err := extractTriageState(s)
		if err != nil {
			return s, fmt.Errorf("retrieve: %w", err)
		}

		if len(ts.Queries) == 0 {
			return s.Set(KeyTriage, ts), nil
		}

		docs, err := searchKnowledgeBase(ctx, rt, ts.Queries)
		if err != nil {
			if ctx.Err() != nil {
				return s, ctx.Err()
			}
			rt.Logger.WarnContext(
				ctx, "retrieval degraded to no documents",
				"email_id", email.ID,
				"error", fmt.Errorf("%w: %w", ErrRetrieveFailed, err),
			)
			return s.Set(KeyTriage, ts), nil
		}

		ts.Retrieved = docs

		rt.Logger.InfoContext(
			ctx, "retrieve node complete",
			"email_id", email.ID,
			"document_count", len(docs),
		)

		return s.Set(KeyTriage, ts), nil
	})
}

func searchKnowledgeBase(ctx context.Context, rt *Runtime, queries []string) ([]Document, error) {
	tokens := queryTokens(queries)
	if len(tokens) == 0 {
		return nil, nil
	}

	keys, err := matchKeys(ctx, rt, tokens)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, key := range keys {
		if len(docs) >= rt.Options.MaxDocuments {
			break
		}

		content, err := downloadDocument(ctx, rt, key)
		if err != nil {
			rt.Logger.WarnContext(ctx, "document download failed", "key", key, "error", err)
			continue
		}

		docs = append(docs, Document{Key: key, Content: content})
	}

	return docs, nil
}

// matchKeys walks the knowledge-base prefix and collects blob keys that
// contain any query token, case-insensitively.
func matchKeys(ctx context.Context, rt *Runtime, tokens []string) ([]string, error) {
	var keys []string
	marker := ""

	for {
		page, err := rt.Storage.List(ctx, rt.Options.RetrievalPrefix, marker, listPageSize)
		if err != nil {
			return nil, fmt.Errorf("list knowledge base: %w", err)
		}

		for _, item := range page.Items {
			lowered := strings.ToLower(item.Key)
			for _, token := range tokens {
				if strings.Contains(lowered, token) {
					keys = append(keys, item.Key)
					break
				}
			}
		}

		if page.NextMarker == nil {
			return keys, nil
		}
		marker = *page.NextMarker
	}
}

func downloadDocument(ctx context.Context, rt *Runtime, key string) (string, error) {
	result, err := rt.Storage.Download(ctx, key)
	if err != nil {
		return "", err
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return "", fmt.Errorf("read blob %s: %w", key, err)
	}

	return string(data), nil
}

// queryTokens splits queries into lowercase tokens, dropping short words
// that would match too broadly.
func queryTokens(queries []string) []string {
	seen := make(map[string]struct{})
	var tokens []string

	for _, q := range queries {
		for _, field := range strings.Fields(strings.ToLower(q)) {
			token := strings.Trim(field, ".,;:!?\"'()")
			if len(token) < 3 {
				continue
			}
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			tokens = append(tokens, token)
		}
	}

	return tokens
}
