package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/internal/service"
	"github.com/vistaluz/catalog-search/internal/state"
	"github.com/vistaluz/catalog-search/pkg/httputil"
	"github.com/vistaluz/catalog-search/pkg/pagination"
	"github.com/vistaluz/catalog-search/pkg/validator"
)

// SearchHandler handles HTTP requests for search endpoints.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// --- DTOs ---

// SnapshotRequest is the JSON request body for publishing a catalog
// snapshot over HTTP. Kafka is the usual path; this endpoint exists for
// operators and tests.
type SnapshotRequest struct {
	Products []domain.Product `json:"products" validate:"required,max=50000"`
}

// SearchResponse is the payload of a search call: one page of hits plus
// everything the storefront needs to render the full control state.
type SearchResponse struct {
	Results    pagination.Result[domain.Hit] `json:"results"`
	Suggestion string                        `json:"suggestion,omitempty"`
	Categories []string                      `json:"categories"`
	State      string                        `json:"state"`
	Lang       string                        `json:"lang"`
	TookMs     int64                         `json:"took_ms"`
}

// --- Handlers ---

// Search handles GET /api/v1/search. Every parameter is optional and
// malformed values degrade to defaults, so this endpoint never rejects a
// request.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	st := state.Decode(r.URL.Query())
	lang := domain.ParseLanguage(r.URL.Query().Get("lang"))
	page := pagination.FromRequest(r)

	out := h.service.Search(r.Context(), st, lang)

	hits := paginate(out.Hits, page)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SearchResponse{
		Results:    pagination.NewResult(hits, len(out.Hits), page),
		Suggestion: out.Suggestion,
		Categories: out.Categories,
		State:      out.EncodedState,
		Lang:       string(out.Lang),
		TookMs:     out.TookMs,
	}})
}

// Categories handles GET /api/v1/search/categories.
func (h *SearchHandler) Categories(w http.ResponseWriter, r *http.Request) {
	lang := domain.ParseLanguage(r.URL.Query().Get("lang"))
	cats := h.service.Categories(r.Context(), lang)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"categories": cats,
		"lang":       string(lang),
	}})
}

// PublishSnapshot handles POST /api/v1/catalog/snapshot.
func (h *SearchHandler) PublishSnapshot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 32<<20)

	var req SnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.service.ApplySnapshot(r.Context(), req.Products)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"status": "applied",
		"count":  len(req.Products),
	}})
}

// Reindex handles POST /api/v1/catalog/reindex. The refetch runs in the
// background; the response only acknowledges the request.
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx := context.Background()
		if err := h.service.Reindex(ctx); err != nil {
			h.logger.ErrorContext(ctx, "background reindex failed", "error", err)
		}
	}()

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"status": "reindex started"}})
}

// Stats handles GET /api/v1/catalog/stats.
func (h *SearchHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	size, version, appliedAt := h.service.Stats()

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"size":       size,
		"version":    version,
		"applied_at": appliedAt,
	}})
}

// paginate slices one page out of the full hit list. Out-of-range pages
// yield an empty slice rather than an error.
func paginate(hits []domain.Hit, p pagination.Params) []domain.Hit {
	if p.Offset >= len(hits) {
		return []domain.Hit{}
	}
	end := p.Offset + p.PerPage
	if end > len(hits) {
		end = len(hits)
	}
	return hits[p.Offset:end]
}
