// Package palette assigns a distinguishable color to each culture,
// nation, and subnation. The reference implementation's generate_colors
// helper (utils.rs) was referenced by cultures.rs/civilization.rs but
// was not present in the retrieved source, so this is an independent
// evenly-spaced HSL wheel, not a verbatim port.
package palette

import (
	"fmt"
	"math"
)

// Generate returns n maximally-spread hex colors by walking the hue
// wheel in even steps at a fixed saturation/lightness.
func Generate(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		hue := 360 * float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.55, 0.55)
		out[i] = fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return out
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r1, g1, b1 float64
	switch {
	case hp < 1:
		r1, g1, b1 = c, x, 0
	case hp < 2:
		r1, g1, b1 = x, c, 0
	case hp < 3:
		r1, g1, b1 = 0, c, x
	case hp < 4:
		r1, g1, b1 = 0, x, c
	case hp < 5:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}
	m := l - c/2
	return toByte(r1 + m), toByte(g1 + m), toByte(b1 + m)
}

func toByte(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(math.Round(v * 255))
}
