package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/internal/index"
	"github.com/vistaluz/catalog-search/internal/projector"
)

func ptr(f float64) *float64 { return &f }

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{
			ID:         "round",
			NameES:     "Gafas Redondas Clásicas",
			NameEN:     "Classic Round Glasses",
			CategoryES: "Monturas",
			CategoryEN: "Frames",
			Price:      domain.Num(120),
			Featured:   true,
			CreatedAt:  domain.At(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
		},
		{
			ID:         "aviator",
			NameES:     "Lentes de Sol Aviador",
			NameEN:     "Aviator Sunglasses",
			CategoryES: "Lentes de Sol",
			CategoryEN: "Sunglasses",
			Price:      domain.Num(89.5),
			CreatedAt:  domain.At(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
		},
		{
			ID:         "bluelight",
			NameES:     "Cristales Blue-Light",
			NameEN:     "Blue-Light Lenses",
			CategoryES: "Cristales",
			CategoryEN: "Lenses",
			Price:      domain.Num(45),
			CreatedAt:  domain.At(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			ID:         "case",
			NameES:     "Estuche Rígido",
			NameEN:     "Hard Case",
			CategoryES: "Accesorios",
			CategoryEN: "Accessories",
			// Price never coerced; the filter must let it through.
			CreatedAt: domain.At(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		},
	}
}

type fixture struct {
	projected []domain.ProjectedProduct
	index     *index.Index
}

func newFixture(lang domain.Language) fixture {
	projected := projector.ProjectAll(fixtureProducts(), lang)
	return fixture{projected: projected, index: index.Build(projected)}
}

func execute(t *testing.T, st domain.SearchState, lang domain.Language) domain.SearchResult {
	t.Helper()
	f := newFixture(lang)
	return New().Execute(st, f.index, f.projected, lang)
}

func ids(hits []domain.Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Product.ID
	}
	return out
}

func TestExecute_EmptyQueryShowsAll(t *testing.T) {
	result := execute(t, domain.DefaultState(), domain.LanguageES)

	require.Len(t, result.Hits, 4)
	assert.Empty(t, result.Suggestion)
	for _, h := range result.Hits {
		assert.Zero(t, h.Score)
	}
	// Featured first, then newest first.
	assert.Equal(t, []string{"round", "case", "aviator", "bluelight"}, ids(result.Hits))
}

func TestExecute_SubMinimumQueryShowsAll(t *testing.T) {
	result := execute(t, domain.SearchState{Query: "g", Sort: domain.SortFeatured}, domain.LanguageES)
	assert.Len(t, result.Hits, 4)
	assert.Empty(t, result.Suggestion)
}

func TestExecute_RankedQuery(t *testing.T) {
	result := execute(t, domain.SearchState{Query: "redondas", Sort: domain.SortFeatured}, domain.LanguageES)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "round", result.Hits[0].Product.ID)
	assert.Empty(t, result.Suggestion, "a strong match needs no suggestion")
}

func TestExecute_RankedOrderNotOverriddenByFeatured(t *testing.T) {
	// "aviador" literally matches a non-featured record; the featured sort
	// must not bury it under the featured one.
	result := execute(t, domain.SearchState{Query: "aviador", Sort: domain.SortFeatured}, domain.LanguageES)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "aviator", result.Hits[0].Product.ID)
}

func TestExecute_Suggestion(t *testing.T) {
	// "blu lite" is a weak fuzzy match on "Cristales Blue-Light": included,
	// but flagged as a did-you-mean candidate.
	result := execute(t, domain.SearchState{Query: "blu lite", Sort: domain.SortFeatured}, domain.LanguageES)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "bluelight", result.Hits[0].Product.ID)
	assert.Equal(t, "Cristales Blue-Light", result.Suggestion)
}

func TestExecute_NoMatchNoSuggestion(t *testing.T) {
	result := execute(t, domain.SearchState{Query: "zapatillas deportivas", Sort: domain.SortFeatured}, domain.LanguageES)

	assert.Empty(t, result.Hits)
	assert.Empty(t, result.Suggestion)
}

func TestExecute_SuggestionSurvivesFilters(t *testing.T) {
	// Filters empty the result list, but the suggestion reflects the raw
	// fuzzy outcome from before filtering.
	result := execute(t, domain.SearchState{
		Query:      "blu lite",
		Sort:       domain.SortFeatured,
		Categories: []string{"Monturas"},
	}, domain.LanguageES)

	assert.Empty(t, result.Hits)
	assert.Equal(t, "Cristales Blue-Light", result.Suggestion)
}

func TestExecute_CategoryFilter(t *testing.T) {
	result := execute(t, domain.SearchState{
		Sort:       domain.SortFeatured,
		Categories: []string{"Monturas", "Accesorios"},
	}, domain.LanguageES)

	assert.ElementsMatch(t, []string{"round", "case"}, ids(result.Hits))
}

func TestExecute_CategoryFilterIsLanguageBound(t *testing.T) {
	// A Spanish label selected before a language switch matches nothing
	// against the English display categories.
	result := execute(t, domain.SearchState{
		Sort:       domain.SortFeatured,
		Categories: []string{"Monturas"},
	}, domain.LanguageEN)

	assert.Empty(t, result.Hits)

	result = execute(t, domain.SearchState{
		Sort:       domain.SortFeatured,
		Categories: []string{"Frames"},
	}, domain.LanguageEN)
	assert.Equal(t, []string{"round"}, ids(result.Hits))
}

func TestExecute_PriceFilter(t *testing.T) {
	result := execute(t, domain.SearchState{
		Sort:     domain.SortFeatured,
		MinPrice: ptr(50),
		MaxPrice: ptr(100),
	}, domain.LanguageES)

	// "case" has no coercible price and always passes.
	assert.ElementsMatch(t, []string{"aviator", "case"}, ids(result.Hits))
}

func TestExecute_PriceFilterInvertedBoundsSwap(t *testing.T) {
	straight := execute(t, domain.SearchState{Sort: domain.SortFeatured, MinPrice: ptr(50), MaxPrice: ptr(100)}, domain.LanguageES)
	inverted := execute(t, domain.SearchState{Sort: domain.SortFeatured, MinPrice: ptr(100), MaxPrice: ptr(50)}, domain.LanguageES)

	assert.Equal(t, ids(straight.Hits), ids(inverted.Hits))
}

func TestExecute_PriceFilterSingleBound(t *testing.T) {
	result := execute(t, domain.SearchState{Sort: domain.SortFeatured, MinPrice: ptr(100)}, domain.LanguageES)
	assert.ElementsMatch(t, []string{"round", "case"}, ids(result.Hits))

	result = execute(t, domain.SearchState{Sort: domain.SortFeatured, MaxPrice: ptr(50)}, domain.LanguageES)
	assert.ElementsMatch(t, []string{"bluelight", "case"}, ids(result.Hits))
}

func TestExecute_SortPrice(t *testing.T) {
	asc := execute(t, domain.SearchState{Sort: domain.SortPriceAsc}, domain.LanguageES)
	// Unknown prices sort as zero.
	assert.Equal(t, []string{"case", "bluelight", "aviator", "round"}, ids(asc.Hits))

	desc := execute(t, domain.SearchState{Sort: domain.SortPriceDesc}, domain.LanguageES)
	assert.Equal(t, []string{"round", "aviator", "bluelight", "case"}, ids(desc.Hits))
}

func TestExecute_SortNameUsesCollation(t *testing.T) {
	result := execute(t, domain.SearchState{Sort: domain.SortNameAsc}, domain.LanguageES)
	assert.Equal(t, []string{"bluelight", "case", "round", "aviator"}, ids(result.Hits))
}

func TestExecute_InvalidSortFallsBack(t *testing.T) {
	bogus := execute(t, domain.SearchState{Sort: "relevance"}, domain.LanguageES)
	featured := execute(t, domain.SearchState{Sort: domain.SortFeatured}, domain.LanguageES)
	assert.Equal(t, ids(featured.Hits), ids(bogus.Hits))
}

func TestExecute_NilIndexShowsAll(t *testing.T) {
	f := newFixture(domain.LanguageES)
	result := New().Execute(domain.SearchState{Query: "redondas", Sort: domain.SortFeatured}, nil, f.projected, domain.LanguageES)

	assert.Len(t, result.Hits, 4)
	assert.Empty(t, result.Suggestion)
}

func TestExecute_CombinedQueryAndFilters(t *testing.T) {
	f := newFixture(domain.LanguageES)
	result := New().Execute(domain.SearchState{
		Query:      "lentes",
		Sort:       domain.SortFeatured,
		Categories: []string{"Lentes de Sol"},
		MaxPrice:   ptr(90),
	}, f.index, f.projected, domain.LanguageES)

	assert.Equal(t, []string{"aviator"}, ids(result.Hits))
}
