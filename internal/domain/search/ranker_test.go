package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const home = "/home/u"

func TestBlankQueryListsFirstPaths(t *testing.T) {
	ranker := NewRanker(home, 20)
	indexPaths := []string{
		"/home/u/Documents/a.pdf",
		"/home/u/Documents/b.md",
		"/home/u/notes.md",
	}

	results := ranker.Rank("", indexPaths)
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, indexPaths[i], res.Path)
		assert.Zero(t, res.Score)
	}

	results = ranker.Rank("   ", indexPaths)
	assert.Len(t, results, 3)
}

func TestBlankQueryCapped(t *testing.T) {
	ranker := NewRanker(home, 20)
	indexPaths := make([]string, 50)
	for i := range indexPaths {
		indexPaths[i] = fmt.Sprintf("/home/u/doc%02d.md", i)
	}

	results := ranker.Rank("", indexPaths)
	require.Len(t, results, 20)
	assert.Equal(t, "/home/u/doc00.md", results[0].Path)
	assert.Equal(t, "/home/u/doc19.md", results[19].Path)
}

func TestRankMatchesSubsequence(t *testing.T) {
	ranker := NewRanker(home, 20)
	indexPaths := []string{
		"/home/u/Documents/a.pdf",
		"/home/u/Pictures/photo.png",
	}

	results := ranker.Rank("doc", indexPaths)
	require.Len(t, results, 1)
	assert.Equal(t, "/home/u/Documents/a.pdf", results[0].Path)
	assert.Equal(t, "~/Documents/a.pdf", results[0].DisplayPath)
	assert.Greater(t, results[0].Score, 0)
}

func TestRankNoMatch(t *testing.T) {
	ranker := NewRanker(home, 20)
	results := ranker.Rank("zzzqqq", []string{"/home/u/Documents/a.pdf"})
	assert.Empty(t, results)
}

func TestRankCapped(t *testing.T) {
	ranker := NewRanker(home, 5)
	indexPaths := make([]string, 30)
	for i := range indexPaths {
		indexPaths[i] = fmt.Sprintf("/home/u/notes/doc%02d.md", i)
	}

	results := ranker.Rank("doc", indexPaths)
	assert.Len(t, results, 5)
}

func TestRankOrderedByScore(t *testing.T) {
	ranker := NewRanker(home, 20)
	indexPaths := []string{
		"/home/u/archive/old-report-draft.md",
		"/home/u/report.md",
	}

	results := ranker.Rank("report", indexPaths)
	require.Len(t, results, 2)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	// Tighter match wins
	assert.Equal(t, "/home/u/report.md", results[0].Path)
}

func TestRankTieBreakIsIndexOrder(t *testing.T) {
	ranker := NewRanker(home, 20)
	// Identical basenames score identically; index order decides
	indexPaths := []string{
		"/home/u/aaa/note.md",
		"/home/u/bbb/note.md",
		"/home/u/ccc/note.md",
	}

	results := ranker.Rank("note.md", indexPaths)
	require.Len(t, results, 3)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, results[1].Score, results[2].Score)
	assert.Equal(t, indexPaths[0], results[0].Path)
	assert.Equal(t, indexPaths[1], results[1].Path)
	assert.Equal(t, indexPaths[2], results[2].Path)
}

func TestRankDeterministic(t *testing.T) {
	ranker := NewRanker(home, 20)
	indexPaths := []string{
		"/home/u/x/note.md",
		"/home/u/y/note.md",
	}

	first := ranker.Rank("note", indexPaths)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ranker.Rank("note", indexPaths))
	}
}

func TestRankFoldsDiacritics(t *testing.T) {
	ranker := NewRanker(home, 20)
	indexPaths := []string{"/home/u/résumé.md"}

	results := ranker.Rank("resume", indexPaths)
	require.Len(t, results, 1)
	// Original path survives folding
	assert.Equal(t, "/home/u/résumé.md", results[0].Path)
	assert.Equal(t, "~/résumé.md", results[0].DisplayPath)
}

func TestRankSmartCaseLowercase(t *testing.T) {
	ranker := NewRanker(home, 20)
	indexPaths := []string{"/home/u/README.md", "/home/u/readme-draft.md"}

	results := ranker.Rank("readme", indexPaths)
	assert.Len(t, results, 2)
}

func TestRankSmartCaseUppercase(t *testing.T) {
	ranker := NewRanker(home, 20)
	indexPaths := []string{"/home/u/README.md", "/home/u/readme-draft.md"}

	results := ranker.Rank("README", indexPaths)
	require.Len(t, results, 1)
	assert.Equal(t, "/home/u/README.md", results[0].Path)
}

func TestRankDisplayPathOutsideHome(t *testing.T) {
	ranker := NewRanker(home, 20)
	indexPaths := []string{"/mnt/shared/manual.md"}

	results := ranker.Rank("manual", indexPaths)
	require.Len(t, results, 1)
	assert.Equal(t, "/mnt/shared/manual.md", results[0].DisplayPath)
}

func TestRankEmptyIndex(t *testing.T) {
	ranker := NewRanker(home, 20)
	assert.Empty(t, ranker.Rank("anything", nil))
	assert.Empty(t, ranker.Rank("", nil))
}
