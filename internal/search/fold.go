package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips Vietnamese diacritics rune by rune, so the
// result has exactly as many runes as s and rune i of the result is rune i
// of s. "Cầu Giấy" folds to "cau giay".
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(foldRune(r))
	}
	return b.String()
}

func foldRune(r rune) rune {
	switch r {
	case 'đ', 'Đ':
		return 'd'
	}
	if r < utf8.RuneSelf {
		return unicode.ToLower(r)
	}
	base, _ := utf8.DecodeRuneInString(norm.NFD.String(string(r)))
	if unicode.Is(unicode.Mn, base) {
		return r
	}
	return unicode.ToLower(base)
}

// runeIndexes converts byte offsets in s to rune offsets
func runeIndexes(s string, byteIdx []int) []int {
	if len(byteIdx) == 0 {
		return nil
	}
	lookup := make(map[int]int, len(s))
	n := 0
	for i := range s {
		lookup[i] = n
		n++
	}
	out := make([]int, 0, len(byteIdx))
	for _, b := range byteIdx {
		if r, ok := lookup[b]; ok {
			out = append(out, r)
		}
	}
	return out
}
