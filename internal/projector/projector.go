// Package projector derives the searchable, language-resolved view of raw
// catalog records. All optional-field fallback logic lives here, applied
// once per snapshot, so the index and engine downstream work with fully
// resolved data.
package projector

import (
	"strings"

	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/internal/textnorm"
	"github.com/vistaluz/catalog-search/pkg/slug"
)

// separator joins the bilingual variants of a field into one indexable
// string. A pipe framed by spaces cannot occur inside normal field text,
// so variants never blur into each other at the join point.
const separator = " | "

// Project derives the projected view of one record for the given display
// language. Deterministic and side-effect free.
func Project(p domain.Product, lang domain.Language) domain.ProjectedProduct {
	displayName := fallback(nameFor(p, lang), nameFor(p, lang.Other()), p.Name)

	created := p.CreatedAt.Time
	if created.IsZero() {
		created = domain.Epoch()
	}

	return domain.ProjectedProduct{
		ID:              p.ID,
		Slug:            slug.Generate(displayName),
		DisplayName:     displayName,
		DisplayCategory: fallback(categoryFor(p, lang), categoryFor(p, lang.Other()), p.Category),
		Price:           p.Price.Value,
		PriceKnown:      p.Price.Known,
		Featured:        p.Featured,
		CreatedAt:       created.UTC(),
		SearchName:      searchText(p.NameES, p.NameEN, p.Name),
		SearchShortDesc: searchText(p.ShortDescES, p.ShortDescEN, p.ShortDesc),
		SearchLongDesc:  searchText(p.LongDescES, p.LongDescEN, p.LongDesc),
		SearchCategory:  searchText(p.CategoryES, p.CategoryEN, p.Category),
	}
}

// ProjectAll projects a full snapshot. Records without an ID cannot be
// addressed by the UI and are skipped.
func ProjectAll(products []domain.Product, lang domain.Language) []domain.ProjectedProduct {
	projected := make([]domain.ProjectedProduct, 0, len(products))
	for _, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			continue
		}
		projected = append(projected, Project(p, lang))
	}
	return projected
}

func nameFor(p domain.Product, lang domain.Language) string {
	if lang == domain.LanguageEN {
		return p.NameEN
	}
	return p.NameES
}

func categoryFor(p domain.Product, lang domain.Language) string {
	if lang == domain.LanguageEN {
		return p.CategoryEN
	}
	return p.CategoryES
}

// fallback returns the first non-blank value, or "" when every link of the
// chain is absent.
func fallback(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// searchText joins the distinct non-empty variants of a field and
// normalizes the result once. Duplicate text (the same name entered for
// both languages) is indexed a single time so it cannot double its own
// match weight.
func searchText(values ...string) string {
	distinct := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		distinct = append(distinct, v)
	}
	return textnorm.Normalize(strings.Join(distinct, separator))
}
