// Package engine executes a search state against one catalog view:
// fuzzy ranking (or the full catalog when no query is active), category
// and price filtering, sorting, and the did-you-mean suggestion.
//
// The engine has no error path. Malformed input (bad sort keys, inverted
// price bounds, records with unparsable prices) degrades to permissive
// defaults instead of excluding data or failing the query.
package engine

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/internal/index"
	"github.com/vistaluz/catalog-search/internal/textnorm"
)

// Options holds the engine tunables.
type Options struct {
	// SuggestionThreshold is the score above which the best match is
	// considered weak enough to offer as a "did you mean" alternative.
	SuggestionThreshold float64
}

// DefaultOptions returns the standard engine parameters.
func DefaultOptions() Options {
	return Options{SuggestionThreshold: 0.45}
}

// Engine ranks, filters, and sorts projected records.
type Engine struct {
	opts Options
}

// New creates an engine with default options.
func New() *Engine {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates an engine with explicit options.
func NewWithOptions(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Execute runs the search state against the given index and projected
// record set. An empty (or sub-minimum-length) query returns the full
// catalog with neutral scores rather than an empty result. The active
// language only influences the name sort collation; all language
// resolution already happened at projection time.
func (e *Engine) Execute(
	state domain.SearchState,
	ix *index.Index,
	projected []domain.ProjectedProduct,
	lang domain.Language,
) domain.SearchResult {
	state = state.Normalized()
	query := textnorm.Normalize(state.Query)

	ranked := ix != nil && utf8.RuneCountInString(query) >= ix.MinQueryRunes()

	var hits []domain.Hit
	var suggestion string

	if ranked {
		matches := ix.Search(query)
		hits = make([]domain.Hit, 0, len(matches))
		for _, m := range matches {
			hits = append(hits, domain.Hit{Product: m.Product, Score: m.Score})
		}
		// The suggestion reflects the raw fuzzy outcome, before filters:
		// a weak-but-present best match is offered as an alternate query.
		if len(matches) > 0 && matches[0].Score > e.opts.SuggestionThreshold {
			suggestion = matches[0].Product.DisplayName
		}
	} else {
		hits = make([]domain.Hit, 0, len(projected))
		for _, p := range projected {
			hits = append(hits, domain.Hit{Product: p})
		}
	}

	hits = filterCategories(hits, state.Categories)
	hits = filterPrice(hits, state.MinPrice, state.MaxPrice)
	e.sortHits(hits, state.Sort, ranked, lang)

	return domain.SearchResult{Hits: hits, Suggestion: suggestion}
}

// filterCategories keeps hits whose projected display category is one of
// the selected labels. Matching is an exact string comparison against the
// label for the currently active language: a selection can stop matching
// after a language switch, which mirrors how the storefront has always
// behaved.
func filterCategories(hits []domain.Hit, selected []string) []domain.Hit {
	if len(selected) == 0 {
		return hits
	}
	set := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		if c = strings.TrimSpace(c); c != "" {
			set[c] = struct{}{}
		}
	}
	if len(set) == 0 {
		return hits
	}

	kept := hits[:0]
	for _, h := range hits {
		if _, ok := set[h.Product.DisplayCategory]; ok {
			kept = append(kept, h)
		}
	}
	return kept
}

// filterPrice keeps hits within the given bounds. Records whose price
// could not be coerced pass unconditionally; missing data never excludes.
// Inverted bounds are swapped rather than rejected.
func filterPrice(hits []domain.Hit, minPrice, maxPrice *float64) []domain.Hit {
	if minPrice == nil && maxPrice == nil {
		return hits
	}

	lo := math.Inf(-1)
	hi := math.Inf(1)
	if minPrice != nil {
		lo = *minPrice
	}
	if maxPrice != nil {
		hi = *maxPrice
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	kept := hits[:0]
	for _, h := range hits {
		if !h.Product.PriceKnown {
			kept = append(kept, h)
			continue
		}
		if h.Product.Price >= lo && h.Product.Price <= hi {
			kept = append(kept, h)
		}
	}
	return kept
}

func (e *Engine) sortHits(hits []domain.Hit, sortKey string, ranked bool, lang domain.Language) {
	switch sortKey {
	case domain.SortPriceAsc:
		sort.SliceStable(hits, func(i, j int) bool {
			return effectivePrice(hits[i].Product) < effectivePrice(hits[j].Product)
		})
	case domain.SortPriceDesc:
		sort.SliceStable(hits, func(i, j int) bool {
			return effectivePrice(hits[i].Product) > effectivePrice(hits[j].Product)
		})
	case domain.SortNameAsc:
		c := Collator(lang)
		sort.SliceStable(hits, func(i, j int) bool {
			return c.CompareString(hits[i].Product.DisplayName, hits[j].Product.DisplayName) < 0
		})
	default:
		// featured: a ranked result set keeps fuzzy-match order, since a
		// literal match must not be buried under featured flags. In
		// show-all mode, featured records come first, newest first
		// within each group, ID as the final deterministic tiebreak.
		if ranked {
			return
		}
		sort.SliceStable(hits, func(i, j int) bool {
			a, b := hits[i].Product, hits[j].Product
			if a.Featured != b.Featured {
				return a.Featured
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		})
	}
}

// effectivePrice treats unknown prices as 0 for sorting, per the sort
// contract (the price filter, by contrast, never excludes them).
func effectivePrice(p domain.ProjectedProduct) float64 {
	if !p.PriceKnown {
		return 0
	}
	return p.Price
}

// Collator returns a locale-aware collator for the display language.
// Collators are stateful and not safe for concurrent use, so callers
// build one per sort.
func Collator(lang domain.Language) *collate.Collator {
	if lang == domain.LanguageEN {
		return collate.New(language.English)
	}
	return collate.New(language.Spanish)
}
