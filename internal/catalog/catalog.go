// Package catalog holds the latest product snapshot and the derived
// search state: one immutable view per display language, each carrying
// the projected records, the fuzzy index, and the category list.
//
// The backing store delivers complete replacement snapshots (never
// deltas), so Apply rebuilds everything from scratch and swaps it in
// atomically. Readers always see one consistent view; a newer snapshot
// simply supersedes the previous derived state.
package catalog

import (
	"sort"
	"sync"
	"time"

	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/internal/engine"
	"github.com/vistaluz/catalog-search/internal/index"
	"github.com/vistaluz/catalog-search/internal/projector"
)

// View is the derived, immutable search state for one display language.
// Never modified after Apply publishes it.
type View struct {
	Language  domain.Language
	Projected []domain.ProjectedProduct
	Index     *index.Index

	// Categories are the distinct display-category labels across the
	// snapshot, alphabetized for the view's language.
	Categories []string
}

// Store is the snapshot holder. Safe for concurrent use: Apply swaps
// fully built views under the write lock, readers take the read lock
// only long enough to grab a pointer.
type Store struct {
	mu        sync.RWMutex
	products  []domain.Product
	views     map[domain.Language]*View
	version   uint64
	appliedAt time.Time

	indexOpts index.Options
}

// New creates an empty store with default index options.
func New() *Store {
	return NewWithOptions(index.DefaultOptions())
}

// NewWithOptions creates an empty store with explicit index options.
func NewWithOptions(opts index.Options) *Store {
	s := &Store{
		views:     make(map[domain.Language]*View, len(domain.Languages())),
		indexOpts: opts,
	}
	// Publish empty views so searches before the first snapshot return
	// empty results rather than nil dereferences.
	s.rebuild(nil)
	return s
}

// Apply replaces the catalog with a full snapshot and rebuilds every
// derived structure. An empty snapshot is valid and yields empty views.
func (s *Store) Apply(products []domain.Product) {
	start := time.Now()

	s.mu.Lock()
	s.products = append([]domain.Product(nil), products...)
	s.rebuild(s.products)
	s.version++
	s.appliedAt = time.Now().UTC()
	size := 0
	if v := s.views[domain.LanguageES]; v != nil {
		size = len(v.Projected)
	}
	s.mu.Unlock()

	snapshotsApplied.Inc()
	catalogSize.Set(float64(size))
	rebuildDuration.Observe(time.Since(start).Seconds())
}

// rebuild derives fresh views for every supported language. Caller holds
// the write lock (or owns the store exclusively during construction).
func (s *Store) rebuild(products []domain.Product) {
	for _, lang := range domain.Languages() {
		projected := projector.ProjectAll(products, lang)
		s.views[lang] = &View{
			Language:   lang,
			Projected:  projected,
			Index:      index.BuildWithOptions(projected, s.indexOpts),
			Categories: categoryList(projected, lang),
		}
	}
}

// View returns the current derived view for the given language. The
// returned view is immutable; callers may hold it across the next Apply
// and simply observe the snapshot it was built from.
func (s *Store) View(lang domain.Language) *View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views[lang]
}

// Products returns a copy of the raw snapshot, for persisting to the
// warm cache.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

// Version reports how many snapshots have been applied.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Size reports the number of records in the current snapshot.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// AppliedAt reports when the current snapshot was applied (zero before
// the first one).
func (s *Store) AppliedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appliedAt
}

// categoryList collects the distinct non-empty display categories and
// sorts them with locale-aware collation for the given language.
func categoryList(projected []domain.ProjectedProduct, lang domain.Language) []string {
	seen := make(map[string]struct{})
	cats := make([]string, 0)
	for _, p := range projected {
		if p.DisplayCategory == "" {
			continue
		}
		if _, dup := seen[p.DisplayCategory]; dup {
			continue
		}
		seen[p.DisplayCategory] = struct{}{}
		cats = append(cats, p.DisplayCategory)
	}

	c := engine.Collator(lang)
	sort.SliceStable(cats, func(i, j int) bool {
		return c.CompareString(cats[i], cats[j]) < 0
	})
	return cats
}
