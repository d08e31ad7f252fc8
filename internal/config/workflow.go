package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

const (
	EnvWorkflowMaxTrials       = "MAILPILOT_WORKFLOW_MAX_TRIALS"
	EnvWorkflowCategories      = "MAILPILOT_WORKFLOW_CATEGORIES"
	EnvWorkflowNoReply         = "MAILPILOT_WORKFLOW_NO_REPLY"
	EnvWorkflowRetrievalPrefix = "MAILPILOT_WORKFLOW_RETRIEVAL_PREFIX"
	EnvWorkflowMaxDocuments    = "MAILPILOT_WORKFLOW_MAX_DOCUMENTS"
	EnvWorkflowWorkers         = "MAILPILOT_WORKFLOW_WORKERS"
)

// WorkflowConfig holds triage pipeline parameters: the draft/evaluate retry
// budget, the category label sets, and knowledge-base retrieval limits.
type WorkflowConfig struct {
	MaxTrials       int      `toml:"max_trials"`
	Categories      []string `toml:"categories"`
	NoReply         []string `toml:"no_reply"`
	RetrievalPrefix string   `toml:"retrieval_prefix"`
	MaxDocuments    int      `toml:"max_documents"`
	Workers         int      `toml:"workers"`
}

// ValidCategory reports whether label is a member of the configured category set.
func (c *WorkflowConfig) ValidCategory(label string) bool {
	return slices.Contains(c.Categories, label)
}

// NoReplyCategory reports whether label is a category that terminates triage
// without drafting a reply.
func (c *WorkflowConfig) NoReplyCategory(label string) bool {
	return slices.Contains(c.NoReply, label)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkflowConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.MaxTrials != 0 {
		c.MaxTrials = overlay.MaxTrials
	}
	if len(overlay.Categories) > 0 {
		c.Categories = overlay.Categories
	}
	if len(overlay.NoReply) > 0 {
		c.NoReply = overlay.NoReply
	}
	if overlay.RetrievalPrefix != "" {
		c.RetrievalPrefix = overlay.RetrievalPrefix
	}
	if overlay.MaxDocuments != 0 {
		c.MaxDocuments = overlay.MaxDocuments
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *WorkflowConfig) loadDefaults() {
	if c.MaxTrials == 0 {
		c.MaxTrials = 3
	}
	if len(c.Categories) == 0 {
		c.Categories = []string{
			"needs_reply",
			"complaint",
			"feedback",
			"no_reply_needed",
			"unsubscribe",
			"spam",
		}
	}
	if len(c.NoReply) == 0 {
		c.NoReply = []string{
			"no_reply_needed",
			"unsubscribe",
			"spam",
		}
	}
	if c.MaxDocuments == 0 {
		c.MaxDocuments = 5
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

func (c *WorkflowConfig) loadEnv() {
	if v := os.Getenv(EnvWorkflowMaxTrials); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTrials = n
		}
	}
	if v := os.Getenv(EnvWorkflowCategories); v != "" {
		c.Categories = splitLabels(v)
	}
	if v := os.Getenv(EnvWorkflowNoReply); v != "" {
		c.NoReply = splitLabels(v)
	}
	if v := os.Getenv(EnvWorkflowRetrievalPrefix); v != "" {
		c.RetrievalPrefix = v
	}
	if v := os.Getenv(EnvWorkflowMaxDocuments); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxDocuments = n
		}
	}
	if v := os.Getenv(EnvWorkflowWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

func (c *WorkflowConfig) validate() error {
	if c.MaxTrials < 1 {
		return fmt.Errorf("max_trials must be at least 1")
	}
	if c.MaxDocuments < 1 {
		return fmt.Errorf("max_documents must be at least 1")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("categories must not be empty")
	}
	for _, label := range c.NoReply {
		if !slices.Contains(c.Categories, label) {
			return fmt.Errorf("no_reply category %q not in categories", label)
		}
	}
	return nil
}

func splitLabels(v string) []string {
	parts := strings.Split(v, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}
