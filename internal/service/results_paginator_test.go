package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 9: 1, 10: 1, 11: 2, 20: 2, 21: 3, 95: 10}
	for n, want := range cases {
		assert.Equal(t, want, TotalPages(n), "n=%d", n)
	}
}

func TestPageOfCoversEveryMatchOnce(t *testing.T) {
	for _, n := range []int{0, 1, 10, 11, 37} {
		matches := generatedMatches(n)
		seen := map[string]int{}
		total := TotalPages(n)
		for page := 1; page <= total; page++ {
			p := PageOf(matches, page)
			assert.LessOrEqual(t, len(p.Matches), ResultsPageSize)
			for _, m := range p.Matches {
				seen[m.ID]++
			}
		}
		assert.Len(t, seen, n)
		for id, count := range seen {
			assert.Equal(t, 1, count, "match %s", id)
		}
	}
}

func TestPageOfClampsOutOfRange(t *testing.T) {
	matches := generatedMatches(15)

	first := PageOf(matches, 0)
	assert.Equal(t, 1, first.Pagination.Page)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)

	last := PageOf(matches, 7)
	assert.Equal(t, 2, last.Pagination.Page)
	assert.Len(t, last.Matches, 5)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)
}

func TestPageOfEmpty(t *testing.T) {
	p := PageOf(nil, 1)
	assert.Equal(t, 1, p.Pagination.Page)
	assert.Equal(t, 0, p.Pagination.TotalPages)
	assert.Empty(t, p.Matches)
	assert.NotNil(t, p.Matches)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}
