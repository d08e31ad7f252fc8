package api

import (
	"net/http"

	"github.com/mailpilot/mailpilot/internal/config"
	"github.com/mailpilot/mailpilot/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Triage.Handler().Routes(),
	)

	routes.Register(
		mux,
		domain.Prompts.Handler().Routes(),
	)

	kb := newKnowledgeBaseHandler(
		runtime.Storage,
		runtime.Logger,
		cfg.Storage.MaxListSize,
		cfg.API.MaxUploadSizeBytes(),
	)

	routes.Register(mux, kb.routes())
}
