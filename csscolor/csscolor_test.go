package csscolor

import (
	"math/rand"
	"regexp"
	"strconv"
	"testing"
)

func TestParse(t *testing.T) {
	tables := []struct {
		in   string
		want RGB
	}{
		{"rgb(12,34,56)", RGB{12, 34, 56}},
		{"rgb(255, 0, 128)", RGB{255, 0, 128}},
		{"#00ff00", Green},
		{"red", RGB{255, 0, 0}},
		{"not a color", White},
		{"", White},
	}

	for _, tt := range tables {
		if got := Parse(tt.in); got != tt.want {
			t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRandomFormat(t *testing.T) {
	re := regexp.MustCompile(`^rgb\((\d+),(\d+),(\d+)\)$`)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		c := Random(rng)
		m := re.FindStringSubmatch(c.String())
		if m == nil {
			t.Fatalf("bad format %q", c.String())
		}
		for _, ch := range m[1:] {
			v, err := strconv.Atoi(ch)
			if err != nil || v < 0 || v > 255 {
				t.Fatalf("channel %q out of range", ch)
			}
		}
		if Parse(c.String()) != c {
			t.Fatalf("%v does not round trip", c)
		}
	}
}
