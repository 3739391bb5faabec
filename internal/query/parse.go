package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseVND parses an amount the way people type it: "2500000", "2,5tr",
// "2.5 triệu", "800k", "800 nghìn". Empty input yields 0.
func ParseVND(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}

	multiplier := 1.0
	for _, suffix := range []struct {
		text string
		mult float64
	}{
		{"triệu", million}, {"trieu", million}, {"tr", million}, {"m", million},
		{"nghìn", 1000}, {"ngàn", 1000}, {"nghin", 1000}, {"k", 1000},
	} {
		if strings.HasSuffix(s, suffix.text) {
			multiplier = suffix.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix.text))
			break
		}
	}

	if multiplier == 1 {
		// Plain amounts may only use separators between groups of three
		// digits; "2.5" is ambiguous without a unit
		digits, ok := groupedDigits(s)
		if !ok {
			return 0, fmt.Errorf("invalid amount %q (use a unit for decimals, e.g. 2,5tr)", s)
		}
		s = digits
	} else {
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	amount := math.Round(v * multiplier)
	if amount >= math.MaxInt64 {
		return 0, fmt.Errorf("amount %q is too large", s)
	}
	return int64(amount), nil
}

// groupedDigits strips thousands separators from "2.500.000", "2,500,000"
// or "2 500 000" and rejects anything else that is not all digits
func groupedDigits(s string) (string, bool) {
	groups := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == ',' || r == ' '
	})
	if len(groups) == 0 || strings.Trim(s, "0123456789., ") != "" {
		return "", false
	}
	for i, g := range groups {
		if g == "" || strings.Trim(g, "0123456789") != "" {
			return "", false
		}
		if len(groups) > 1 && ((i == 0 && len(g) > 3) || (i > 0 && len(g) != 3)) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

// ParseArea parses an area such as "25", "25m2" or "25 m²"
func ParseArea(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "m²"), "m2"))
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid area %q", s)
	}
	return v, nil
}
