package domain

import "time"

// ProjectedProduct is the derived, language-resolved view of a raw Product
// used for indexing and display. The projector resolves every fallback
// chain exactly once here so consumers never re-implement them.
type ProjectedProduct struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`

	// Display fields for the active language: preferred language value,
	// else the other language, else the legacy field, else empty. Never
	// a sentinel like "undefined".
	DisplayName     string `json:"display_name"`
	DisplayCategory string `json:"display_category"`

	Price      float64 `json:"price"`
	PriceKnown bool    `json:"price_known"`

	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"created_at"`

	// Normalized search text per field: both language variants and the
	// legacy value, deduplicated and joined, then normalized once. A
	// query in either language matches regardless of the display
	// language.
	SearchName      string `json:"-"`
	SearchShortDesc string `json:"-"`
	SearchLongDesc  string `json:"-"`
	SearchCategory  string `json:"-"`
}

// Hit pairs a projected product with its fuzzy match score (0 exact,
// approaching 1 for weaker matches; 0 for every record when no query ran).
type Hit struct {
	Product ProjectedProduct `json:"product"`
	Score   float64          `json:"score"`
}

// SearchResult is the ordered outcome of executing a SearchState against
// one catalog view.
type SearchResult struct {
	Hits []Hit `json:"hits"`

	// Suggestion carries the display name of the best weak match ("did
	// you mean"), or empty when the top match is strong or absent.
	Suggestion string `json:"suggestion,omitempty"`
}
