// Package textsim scores how much two OCR readings of a frame differ.
package textsim

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the character-level similarity of a and b in [0, 1] using
// the Ratcliff/Obershelp matching of difflib's SequenceMatcher. Two empty
// strings are identical and score 1.
func Ratio(a, b string) float64 {
	m := difflib.NewMatcher(chars(a), chars(b))
	return m.Ratio()
}

// QuickRatio is an upper bound on Ratio that is cheaper to compute.
func QuickRatio(a, b string) float64 {
	m := difflib.NewMatcher(chars(a), chars(b))
	return m.QuickRatio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
