// Package index implements the weighted multi-field fuzzy search index.
//
// An Index is an immutable snapshot artifact: it is built from a projected
// record set and never mutated afterwards. When the catalog changes, the
// whole index is rebuilt. Scores are bounded to [0,1] with 0 meaning an
// exact match; records scoring above the match threshold are excluded from
// results entirely rather than ranked low.
package index

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/internal/textnorm"
)

// Options are the tunable matching parameters. The defaults were chosen
// empirically against the storefront catalog; their relative effect
// (permissive typo tolerance, name dominates ranking) matters more than
// the exact values.
type Options struct {
	// MatchThreshold excludes any record whose combined score exceeds it.
	MatchThreshold float64

	// TokenEditRatio is the maximum edit distance per query rune for a
	// token to count as matched (0.5 allows roughly one edit per two
	// characters of query).
	TokenEditRatio float64

	// MinQueryRunes is the minimum normalized query length before fuzzy
	// matching activates; shorter queries match nothing.
	MinQueryRunes int
}

// DefaultOptions returns the standard matching parameters.
func DefaultOptions() Options {
	return Options{
		MatchThreshold: 0.65,
		TokenEditRatio: 0.5,
		MinQueryRunes:  2,
	}
}

// Per-field ranking weights. Name dominates, category outranks the long
// description. They sum to 1.0.
const (
	weightName      = 0.55
	weightShortDesc = 0.25
	weightCategory  = 0.12
	weightLongDesc  = 0.08
)

// minFieldScore floors a perfect field score before weighting so the
// exponential combination stays meaningful: an exact name match lands near
// zero while an exact long-description match stays mediocre.
const minFieldScore = 1e-3

const fieldCount = 4

// fieldText is one searchable field of one document, pre-tokenized at
// build time.
type fieldText struct {
	text   string
	tokens [][]rune
	weight float64
}

type document struct {
	product domain.ProjectedProduct
	fields  [fieldCount]fieldText
}

// Index is a fuzzy search index over one projected snapshot. Safe for
// concurrent readers; never written after Build returns.
type Index struct {
	opts Options
	docs []document
}

// Match pairs a matched product with its combined score (lower is better).
type Match struct {
	Product domain.ProjectedProduct
	Score   float64
}

// Build constructs an index over the projected records with default options.
func Build(products []domain.ProjectedProduct) *Index {
	return BuildWithOptions(products, DefaultOptions())
}

// BuildWithOptions constructs an index with explicit matching parameters.
func BuildWithOptions(products []domain.ProjectedProduct, opts Options) *Index {
	ix := &Index{
		opts: opts,
		docs: make([]document, 0, len(products)),
	}
	for _, p := range products {
		ix.docs = append(ix.docs, document{
			product: p,
			fields: [fieldCount]fieldText{
				newFieldText(p.SearchName, weightName),
				newFieldText(p.SearchShortDesc, weightShortDesc),
				newFieldText(p.SearchCategory, weightCategory),
				newFieldText(p.SearchLongDesc, weightLongDesc),
			},
		})
	}
	return ix
}

func newFieldText(text string, weight float64) fieldText {
	words := strings.Fields(text)
	tokens := make([][]rune, len(words))
	for i, w := range words {
		tokens[i] = []rune(w)
	}
	return fieldText{text: text, tokens: tokens, weight: weight}
}

// Len reports the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// MinQueryRunes reports the minimum normalized query length this index
// requires before fuzzy matching activates.
func (ix *Index) MinQueryRunes() int {
	return ix.opts.MinQueryRunes
}

// Search runs the query against every document and returns matches ordered
// best-first. The query is normalized before matching, so callers may pass
// raw user input. Queries shorter than MinQueryRunes return no matches.
func (ix *Index) Search(query string) []Match {
	normalized := textnorm.Normalize(query)
	if utf8.RuneCountInString(normalized) < ix.opts.MinQueryRunes {
		return nil
	}

	words := strings.Fields(normalized)
	qTokens := make([][]rune, len(words))
	for i, w := range words {
		qTokens[i] = []rune(w)
	}

	matches := make([]Match, 0, 16)
	for _, doc := range ix.docs {
		if score, ok := ix.scoreDocument(doc, normalized, qTokens); ok {
			matches = append(matches, Match{Product: doc.product, Score: score})
		}
	}

	// Stable so equal scores keep snapshot order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})
	return matches
}

// scoreDocument combines per-field scores by weighted exponentiation:
// unmatched fields contribute nothing, matched fields multiply in
// score^weight. A perfect match in a low-weight field therefore yields a
// mediocre (but included) combined score, which is exactly what feeds the
// did-you-mean suggestion upstream.
func (ix *Index) scoreDocument(doc document, query string, qTokens [][]rune) (float64, bool) {
	combined := 1.0
	matched := false

	for _, f := range doc.fields {
		s, ok := ix.scoreField(f, query, qTokens)
		if !ok {
			continue
		}
		matched = true
		combined *= math.Pow(math.Max(s, minFieldScore), f.weight)
	}

	if !matched || combined > ix.opts.MatchThreshold {
		return 0, false
	}
	return combined, true
}

// scoreField matches the whole query against one field. Every query token
// must find a counterpart in the field; the field score is the mean token
// score. An exact hit on the full field text is a perfect 0.
func (ix *Index) scoreField(f fieldText, query string, qTokens [][]rune) (float64, bool) {
	if f.text == "" || len(qTokens) == 0 {
		return 0, false
	}
	if f.text == query {
		return 0, true
	}

	total := 0.0
	for _, qt := range qTokens {
		s, ok := ix.scoreToken(qt, f.tokens)
		if !ok {
			return 0, false
		}
		total += s
	}
	return total / float64(len(qTokens)), true
}

// scoreToken finds the best counterpart for one query token among the
// field tokens. Matching is location-agnostic: a token buried at the end
// of a long description scores the same as one up front.
func (ix *Index) scoreToken(qt []rune, fTokens [][]rune) (float64, bool) {
	best := math.Inf(1)
	for _, ft := range fTokens {
		var s float64
		switch d := substringDistance(qt, ft); {
		case d == 0 && len(qt) == len(ft):
			return 0, true
		case d == 0:
			// Clean substring of a longer token: near-perfect, with a
			// small penalty for uncovered characters so exact tokens
			// still rank first.
			s = 0.1 * (1 - float64(len(qt))/float64(len(ft)))
		default:
			s = float64(d) / float64(len(qt))
		}
		if s < best {
			best = s
		}
	}
	if best > ix.opts.TokenEditRatio {
		return 0, false
	}
	return best, true
}

// substringDistance is the Sellers variant of Levenshtein distance: the
// minimum number of edits needed for pattern to match anywhere inside
// text (a free start and end, full edits in between). Single-row dynamic
// programming over runes.
func substringDistance(pattern, text []rune) int {
	if len(pattern) == 0 {
		return 0
	}
	if len(text) == 0 {
		return len(pattern)
	}

	prev := make([]int, len(text)+1)
	curr := make([]int, len(text)+1)
	// Row zero stays all zeros: the match may begin at any text offset.

	for i := 1; i <= len(pattern); i++ {
		curr[0] = i
		for j := 1; j <= len(text); j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	best := prev[0]
	for _, d := range prev {
		if d < best {
			best = d
		}
	}
	return best
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
