// Package state serializes search state to and from a flat URL-parameter
// representation so every search is shareable and bookmarkable. The codec
// is a pure boundary: it never touches navigation or any other side
// effect, and decode tolerates anything: unknown parameters (such as UI
// flags like autofocus) are ignored, malformed values fall back to
// component defaults.
package state

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/vistaluz/catalog-search/internal/domain"
)

// URL parameter names. Parameters at their default value are omitted on
// encode to keep shared URLs minimal.
const (
	ParamQuery      = "q"
	ParamSort       = "sort"
	ParamCategories = "cats"
	ParamMinPrice   = "min"
	ParamMaxPrice   = "max"
)

// Encode serializes the state into URL values, omitting defaults.
func Encode(s domain.SearchState) url.Values {
	v := url.Values{}

	if q := strings.TrimSpace(s.Query); q != "" {
		v.Set(ParamQuery, q)
	}
	if domain.IsValidSort(s.Sort) && s.Sort != domain.SortFeatured {
		v.Set(ParamSort, s.Sort)
	}
	if cats := cleanCategories(s.Categories); len(cats) > 0 {
		v.Set(ParamCategories, strings.Join(cats, ","))
	}
	if s.MinPrice != nil {
		v.Set(ParamMinPrice, formatBound(*s.MinPrice))
	}
	if s.MaxPrice != nil {
		v.Set(ParamMaxPrice, formatBound(*s.MaxPrice))
	}

	return v
}

// EncodeQuery returns the encoded state as a raw query string.
func EncodeQuery(s domain.SearchState) string {
	return Encode(s).Encode()
}

// Decode reconstructs a search state from URL values. Absent and
// empty-string parameters are equivalent; invalid values degrade to the
// field default instead of failing the decode.
func Decode(v url.Values) domain.SearchState {
	s := domain.DefaultState()

	s.Query = strings.TrimSpace(v.Get(ParamQuery))

	if sort := v.Get(ParamSort); domain.IsValidSort(sort) {
		s.Sort = sort
	}

	if raw := v.Get(ParamCategories); raw != "" {
		s.Categories = cleanCategories(strings.Split(raw, ","))
	}

	s.MinPrice = parseBound(v.Get(ParamMinPrice))
	s.MaxPrice = parseBound(v.Get(ParamMaxPrice))

	return s
}

// DecodeQuery reconstructs a search state from a raw query string. A
// malformed query string yields the default state.
func DecodeQuery(rawQuery string) domain.SearchState {
	v, err := url.ParseQuery(rawQuery)
	if err != nil {
		return domain.DefaultState()
	}
	return Decode(v)
}

// cleanCategories trims labels, discards empties, and deduplicates while
// preserving first-seen order.
func cleanCategories(cats []string) []string {
	if len(cats) == 0 {
		return nil
	}
	out := make([]string, 0, len(cats))
	seen := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
