package normalizer

import (
	"regexp"
	"strconv"
)

// Patterns run against raw, unnormalized titles.
var (
	reDimensionExpr = regexp.MustCompile(`\d+\s*[xX×*/]\s*\d+`)
	reCountExpr     = regexp.MustCompile(`(?i)(\d+)\s*(?:-count|count|pcs|ct|支|个)`)
	reBoxOfExpr     = regexp.MustCompile(`(?i)box of (\d+)`)
)

// FindDimensionExpr returns the first "52/178", "178x52" style expression in title, or "".
func FindDimensionExpr(title string) string {
	return reDimensionExpr.FindString(title)
}

// FindCountExpr returns the first piece-count expression ("25支", "10 pcs", "Box of 25"), or "".
func FindCountExpr(title string) string {
	if m := reCountExpr.FindString(title); m != "" {
		return m
	}
	return reBoxOfExpr.FindString(title)
}

// ExtractCount returns the numeric piece count found in title, or 0.
func ExtractCount(title string) int {
	m := reCountExpr.FindStringSubmatch(title)
	if m == nil {
		m = reBoxOfExpr.FindStringSubmatch(title)
	}
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
