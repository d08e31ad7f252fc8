package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/mailpilot/mailpilot/pkg/handlers"
	"github.com/mailpilot/mailpilot/pkg/routes"
	"github.com/mailpilot/mailpilot/pkg/storage"
)

// knowledgeBaseHandler exposes the reference-document store that retrieval
// searches. Documents are plain blobs keyed by topic-descriptive names.
type knowledgeBaseHandler struct {
	store         storage.System
	logger        *slog.Logger
	maxListSize   int32
	maxUploadSize int64
}

func newKnowledgeBaseHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
	maxUploadSize int64,
) *knowledgeBaseHandler {
	return &knowledgeBaseHandler{
		store:         store,
		logger:        logger.With("handler", "knowledge-base"),
		maxListSize:   maxListSize,
		maxUploadSize: maxUploadSize,
	}
}

func (h *knowledgeBaseHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/kb",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download},
			{Method: "GET", Pattern: "/{key...}", Handler: h.find},
			{Method: "PUT", Pattern: "/{key...}", Handler: h.upload},
			{Method: "DELETE", Pattern: "/{key...}", Handler: h.remove},
		},
	}
}

func (h *knowledgeBaseHandler) list(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	marker := r.URL.Query().Get("marker")

	maxResults, err := storage.ParseMaxResults(
		r.URL.Query().Get("max_results"),
		h.maxListSize,
	)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusBadRequest, err,
		)
		return
	}

	result, err := h.store.List(
		r.Context(),
		prefix,
		marker,
		maxResults,
	)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusInternalServerError, err,
		)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *knowledgeBaseHandler) find(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	meta, err := h.store.Find(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meta)
}

func (h *knowledgeBaseHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)

	if result.ContentLength > 0 {
		w.Header().Set(
			"Content-Length",
			strconv.FormatInt(result.ContentLength, 10),
		)
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}

func (h *knowledgeBaseHandler) upload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	body := http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	defer body.Close()

	if err := h.store.Upload(r.Context(), key, body, contentType); err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}

	h.logger.Info("knowledge base document stored", "key", key)
	w.WriteHeader(http.StatusNoContent)
}

func (h *knowledgeBaseHandler) remove(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if err := h.store.Delete(r.Context(), key); err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}

	h.logger.Info("knowledge base document deleted", "key", key)
	w.WriteHeader(http.StatusNoContent)
}
