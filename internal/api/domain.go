package api

import (
	"github.com/mailpilot/mailpilot/internal/config"
	"github.com/mailpilot/mailpilot/internal/prompts"
	"github.com/mailpilot/mailpilot/internal/triage"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Triage  triage.System
	Prompts prompts.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	triageSystem := triage.New(
		runtime.Database.Connection(),
		runtime.Agent,
		cfg.Workflow,
		runtime.Logger,
		runtime.Pagination,
		runtime.Storage,
		runtime.Mail,
		promptsSystem,
	)

	return &Domain{
		Triage:  triageSystem,
		Prompts: promptsSystem,
	}
}
