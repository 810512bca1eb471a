package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vistaluz/catalog-search/internal/catalog"
	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/internal/engine"
	"github.com/vistaluz/catalog-search/internal/state"
)

// SnapshotFetcher pulls a complete catalog snapshot from the product
// service.
type SnapshotFetcher interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

// SnapshotCache persists the last applied snapshot across restarts.
// Implementations are best-effort; Save never reports failure.
type SnapshotCache interface {
	Save(ctx context.Context, products []domain.Product)
	Load(ctx context.Context) ([]domain.Product, bool)
}

// SearchService implements the business logic for catalog search: it owns
// snapshot application and answers queries against the derived views.
type SearchService struct {
	store   *catalog.Store
	engine  *engine.Engine
	fetcher SnapshotFetcher
	cache   SnapshotCache
	logger  *slog.Logger
}

// NewSearchService creates a new search service. fetcher and cache are
// optional: without a fetcher, reindexing is unavailable and snapshots
// only arrive through events; without a cache, restarts begin empty.
func NewSearchService(
	store *catalog.Store,
	eng *engine.Engine,
	fetcher SnapshotFetcher,
	cache SnapshotCache,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		store:   store,
		engine:  eng,
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
	}
}

// SearchOutput is the complete answer for one search invocation.
type SearchOutput struct {
	// Hits is the full ordered result list; the transport layer applies
	// pagination.
	Hits []domain.Hit

	// Suggestion is the did-you-mean alternate query, or empty.
	Suggestion string

	// Categories lists every selectable category label for the active
	// language under the current snapshot.
	Categories []string

	// EncodedState is the canonical URL-parameter form of the executed
	// state, for shareable links.
	EncodedState string

	State  domain.SearchState
	Lang   domain.Language
	TookMs int64
}

// Search executes the given state against the current snapshot for the
// active language. Malformed state and record data degrade to defaults;
// there is no error path.
func (s *SearchService) Search(ctx context.Context, st domain.SearchState, lang domain.Language) *SearchOutput {
	start := time.Now()

	st = st.Normalized()
	view := s.store.View(lang)
	result := s.engine.Execute(st, view.Index, view.Projected, lang)

	out := &SearchOutput{
		Hits:         result.Hits,
		Suggestion:   result.Suggestion,
		Categories:   view.Categories,
		EncodedState: state.EncodeQuery(st),
		State:        st,
		Lang:         lang,
		TookMs:       time.Since(start).Milliseconds(),
	}

	searchDuration.WithLabelValues(string(lang)).Observe(time.Since(start).Seconds())
	searchResults.WithLabelValues(string(lang)).Observe(float64(len(out.Hits)))

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", st.Query),
		slog.String("lang", string(lang)),
		slog.Int("hits", len(out.Hits)),
		slog.Int64("took_ms", out.TookMs),
	)

	return out
}

// Categories returns the selectable category labels for the language.
func (s *SearchService) Categories(_ context.Context, lang domain.Language) []string {
	return s.store.View(lang).Categories
}

// ApplySnapshot replaces the catalog with a full snapshot, rebuilding all
// derived views, and persists the snapshot to the warm cache.
func (s *SearchService) ApplySnapshot(ctx context.Context, products []domain.Product) {
	s.store.Apply(products)

	if s.cache != nil {
		s.cache.Save(ctx, products)
	}

	s.logger.InfoContext(ctx, "catalog snapshot applied",
		slog.Int("count", len(products)),
		slog.Uint64("version", s.store.Version()),
	)
}

// Reindex pulls a fresh full snapshot from the product service and
// applies it.
func (s *SearchService) Reindex(ctx context.Context) error {
	if s.fetcher == nil {
		return fmt.Errorf("reindex: no product service configured")
	}

	products, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}

	s.ApplySnapshot(ctx, products)
	return nil
}

// Warmup seeds the catalog before live snapshots arrive: first from the
// warm cache, then (failing that) from the product service. A cold start
// with neither available is not an error; the catalog stays empty until
// the first event delivers a snapshot.
func (s *SearchService) Warmup(ctx context.Context) {
	if s.cache != nil {
		if products, ok := s.cache.Load(ctx); ok {
			s.store.Apply(products)
			s.logger.InfoContext(ctx, "catalog warmed from cache",
				slog.Int("count", len(products)),
			)
			return
		}
	}

	if s.fetcher == nil {
		return
	}
	if err := s.Reindex(ctx); err != nil {
		s.logger.WarnContext(ctx, "initial catalog fetch failed, starting empty",
			slog.String("error", err.Error()),
		)
	}
}

// Stats reports snapshot bookkeeping for debug and health surfaces.
func (s *SearchService) Stats() (size int, version uint64, appliedAt time.Time) {
	return s.store.Size(), s.store.Version(), s.store.AppliedAt()
}
