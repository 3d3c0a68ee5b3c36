// Package csscolor parses CSS color strings into RGB triples.
package csscolor

import (
	"fmt"
	"math/rand"

	"github.com/mazznoer/csscolorparser"
)

// RGB is an opaque 8 bit per channel color
type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{255, 255, 255}
	Green = RGB{0, 255, 0}
)

// Parse converts any CSS color notation to RGB. Input that does not parse
// yields White. Alpha is dropped.
func Parse(css string) RGB {
	c, err := csscolorparser.Parse(css)
	if err != nil {
		return White
	}
	r, g, b, _ := c.RGBA255()
	return RGB{R: r, G: g, B: b}
}

// Random picks every channel uniformly in [0,255]
func Random(rng *rand.Rand) RGB {
	return RGB{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
	}
}

// String formats the color as rgb(r,g,b)
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
