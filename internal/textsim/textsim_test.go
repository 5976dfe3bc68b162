package textsim

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 1},
		{"identical", "Newton's laws", "Newton's laws", 1},
		{"one empty", "", "Gravity", 0},
		{"disjoint", "abc", "xyz", 0},
		// matching blocks "ab" and "d": 2*3/8
		{"partial", "abcd", "abed", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioHandlesMultibyteRunes(t *testing.T) {
	if got := Ratio("café", "café"); got != 1 {
		t.Fatalf("expected identical unicode strings to score 1, got %v", got)
	}
	if got := Ratio("é", "e"); got != 0 {
		t.Fatalf("expected distinct runes to score 0, got %v", got)
	}
}

func TestQuickRatioBoundsRatio(t *testing.T) {
	a := "Free fall acceleration is 9.8 m/s"
	b := "Acceleration in free fall: 9.81 m/s2"
	if QuickRatio(a, b) < Ratio(a, b) {
		t.Fatalf("quick ratio %v below ratio %v", QuickRatio(a, b), Ratio(a, b))
	}
}
