package domain

// Sort options for search results.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
)

// ValidSortOptions returns the list of valid sort options.
func ValidSortOptions() []string {
	return []string{SortFeatured, SortPriceAsc, SortPriceDesc, SortNameAsc}
}

// IsValidSort checks whether the given sort string is a valid sort option.
func IsValidSort(sort string) bool {
	for _, s := range ValidSortOptions() {
		if s == sort {
			return true
		}
	}
	return false
}

// SearchState is the complete user-facing search configuration: free-text
// query, sort order, selected category labels, and price bounds. It
// round-trips through URL parameters so every search is shareable; see the
// state package for the codec.
type SearchState struct {
	Query      string   `json:"query"`
	Sort       string   `json:"sort"`
	Categories []string `json:"categories,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
}

// DefaultState returns the state of a freshly opened search page.
func DefaultState() SearchState {
	return SearchState{Sort: SortFeatured}
}

// Normalized returns a copy with an invalid sort replaced by the default.
// Malformed state never fails a search.
func (s SearchState) Normalized() SearchState {
	if !IsValidSort(s.Sort) {
		s.Sort = SortFeatured
	}
	return s
}
