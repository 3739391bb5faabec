// Package search implements the quick filter over the listings on screen.
package search

import (
	"sort"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/sahilm/fuzzy"
)

const separator = " | "

// Result is a listing that matched the quick filter
type Result struct {
	Listing        *domain.Listing
	Index          int   // Position in the filtered slice
	Score          int   // Higher is better
	TitleMatches   []int // Rune positions in Listing.Title
	AddressMatches []int // Rune positions in Listing.Address
}

// Index implements fuzzy.Source over folded "title | address" lines
type Index struct {
	listings []*domain.Listing
	lines    []string
	titleLen []int // Rune length of each title, to split match positions
}

// NewIndex folds the searchable text of every listing once
func NewIndex(listings []*domain.Listing) *Index {
	idx := &Index{
		listings: listings,
		lines:    make([]string, len(listings)),
		titleLen: make([]int, len(listings)),
	}
	for i, l := range listings {
		idx.lines[i] = Fold(l.Title) + separator + Fold(l.Address)
		idx.titleLen[i] = len([]rune(l.Title))
	}
	return idx
}

// String returns the folded line at i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lines[i] }

// Len returns the number of listings (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.lines) }

// Filter matches query against the index. Every word of the query must
// match (in any order); diacritics and case are ignored. An empty query
// returns every listing in its original order.
func (idx *Index) Filter(query string) []Result {
	words := strings.Fields(Fold(query))
	if len(words) == 0 {
		results := make([]Result, len(idx.listings))
		for i, l := range idx.listings {
			results[i] = Result{Listing: l, Index: i}
		}
		return results
	}

	type hit struct {
		score   int
		matched []int
		words   int
	}
	hits := make(map[int]*hit)

	for _, word := range words {
		for _, m := range fuzzy.FindFrom(word, idx) {
			h, ok := hits[m.Index]
			if !ok {
				h = &hit{}
				hits[m.Index] = h
			}
			h.score += m.Score
			h.words++
			h.matched = append(h.matched, runeIndexes(idx.lines[m.Index], m.MatchedIndexes)...)
		}
	}

	results := make([]Result, 0, len(hits))
	for i, h := range hits {
		if h.words != len(words) {
			continue
		}
		title, address := idx.split(i, h.matched)
		results = append(results, Result{
			Listing:        idx.listings[i],
			Index:          i,
			Score:          h.score,
			TitleMatches:   title,
			AddressMatches: address,
		})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Index < results[b].Index
	})
	return results
}

// split maps line positions back onto title and address positions
func (idx *Index) split(i int, positions []int) (title, address []int) {
	titleLen := idx.titleLen[i]
	addressStart := titleLen + len([]rune(separator))

	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		if seen[p] {
			continue
		}
		seen[p] = true
		switch {
		case p < titleLen:
			title = append(title, p)
		case p >= addressStart:
			address = append(address, p-addressStart)
		}
	}
	sort.Ints(title)
	sort.Ints(address)
	return title, address
}

// Listings returns the listings of results in order
func Listings(results []Result) []*domain.Listing {
	out := make([]*domain.Listing, len(results))
	for i, r := range results {
		out[i] = r.Listing
	}
	return out
}
