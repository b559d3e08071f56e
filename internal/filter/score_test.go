package filter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "height", "height", 100},
		{"substring", "elevation", "elevation above sea level", 100},
		{"order independent", "elevation above sea level", "elevation", 100},
		{"multibyte substring", "höhe", "maximale höhe", 100},
		{"dropped space", "timezone", "located in time zone", 88},
		{"dropped letter", "elevaton", "elevation above sea level", 88},
		{"dropped spaces", "dateofbirth", "date of birth", 82},
		{"one substitution", "weight", "height", 83},
		{"unrelated", "height", "location", 18},
		{"shared letters only", "mass", "taxon rank", 25},
		{"nothing in common", "mass", "height", 0},
		{"empty term", "", "height", 0},
		{"empty label", "height", "", 0},
		{"both empty", "", "", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartialRatio(tt.a, tt.b), "PartialRatio(%q, %q)", tt.a, tt.b)
		})
	}
}

func TestPartialRatio_TyposStayAboveThreshold(t *testing.T) {
	f := New()
	for _, label := range []string{"located in time zone", "date of birth"} {
		_, _, ok := f.Match(label, []string{"timezone", "dateofbirth"})
		assert.True(t, ok, label)
	}
}

// FuzzPartialRatio checks range, symmetry and the substring property.
func FuzzPartialRatio(f *testing.F) {
	f.Add("height", "height above sea level")
	f.Add("mass", "weight")
	f.Add("", "x")
	f.Fuzz(func(t *testing.T, a, b string) {
		if !utf8.ValidString(a) || !utf8.ValidString(b) {
			return
		}
		s := PartialRatio(a, b)
		if s < 0 || s > 100 {
			t.Fatalf("score out of range: %d", s)
		}
		// equal lengths keep argument order, so only unequal ones are symmetric
		la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
		if la != lb && s != PartialRatio(b, a) {
			t.Fatalf("asymmetric score for %q, %q", a, b)
		}
		// long inputs switch on popular-element junk heuristics
		if a != "" && lb < 200 && strings.Contains(b, a) && s != 100 {
			t.Fatalf("substring %q of %q scored %d", a, b, s)
		}
	})
}
