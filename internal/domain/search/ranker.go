package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/foliohq/folio/backend/internal/shared/paths"
	"github.com/foliohq/folio/backend/internal/shared/types"
)

// Ranker fuzzy-ranks index paths against a query. Matching runs over
// the home-relative form of each path with diacritics folded away;
// queries are smart-case: all-lowercase queries match case
// insensitively, a query with any uppercase requires those letters to
// match exactly.
type Ranker struct {
	home       string
	maxResults int
}

// NewRanker creates a ranker. home anchors display paths ("~/..."),
// maxResults caps every response.
func NewRanker(home string, maxResults int) *Ranker {
	return &Ranker{home: home, maxResults: maxResults}
}

// Rank returns the best-matching paths in descending score order; ties
// keep index order, so equally scored paths come back in a stable,
// deterministic sequence. A blank query lists the first paths unranked
// with score zero.
func (r *Ranker) Rank(query string, indexPaths []string) []types.SearchResult {
	if strings.TrimSpace(query) == "" {
		return r.unranked(indexPaths)
	}

	candidates := make([]string, len(indexPaths))
	for i, path := range indexPaths {
		rel, _ := paths.StripHome(path, r.home)
		candidates[i] = fold(rel)
	}

	foldedQuery := fold(query)
	caseSensitive := hasUpper(foldedQuery)

	type ranked struct {
		result types.SearchResult
		index  int
	}
	matches := make([]ranked, 0, len(candidates))
	for _, match := range fuzzy.Find(foldedQuery, candidates) {
		if caseSensitive && !caseMatches(foldedQuery, match.Str, match.MatchedIndexes) {
			continue
		}
		matches = append(matches, ranked{
			result: types.SearchResult{
				Path:        indexPaths[match.Index],
				DisplayPath: paths.Display(indexPaths[match.Index], r.home),
				Score:       match.Score,
			},
			index: match.Index,
		})
	}

	// The library's tie order is unspecified; equal scores fall back to
	// index position so results are deterministic
	sort.Slice(matches, func(a, b int) bool {
		if matches[a].result.Score != matches[b].result.Score {
			return matches[a].result.Score > matches[b].result.Score
		}
		return matches[a].index < matches[b].index
	})

	n := len(matches)
	if n > r.maxResults {
		n = r.maxResults
	}
	results := make([]types.SearchResult, n)
	for i := 0; i < n; i++ {
		results[i] = matches[i].result
	}
	return results
}

// unranked lists the first maxResults paths for the empty query.
func (r *Ranker) unranked(indexPaths []string) []types.SearchResult {
	n := len(indexPaths)
	if n > r.maxResults {
		n = r.maxResults
	}
	results := make([]types.SearchResult, 0, n)
	for _, path := range indexPaths[:n] {
		results = append(results, types.SearchResult{
			Path:        path,
			DisplayPath: paths.Display(path, r.home),
		})
	}
	return results
}

// fold strips combining diacritical marks so "résumé" matches "resume".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// caseMatches verifies a case-insensitive fuzzy match against the
// query's uppercase letters. The i-th matched index is the position of
// the i-th query rune in the candidate.
func caseMatches(query, candidate string, matchedIndexes []int) bool {
	queryRunes := []rune(query)
	for i, idx := range matchedIndexes {
		if i >= len(queryRunes) {
			break
		}
		q := queryRunes[i]
		if !unicode.IsUpper(q) {
			continue
		}
		c, _ := utf8.DecodeRuneInString(candidate[idx:])
		if c != q {
			return false
		}
	}
	return true
}
