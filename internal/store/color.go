package store

import (
	"fmt"
	"math/rand"
)

// ColorFunc produces a CSS color token for a newly created topic.
// It is injectable so tests can pin colors deterministically.
type ColorFunc func() string

// RandomColor returns a ColorFunc that samples a hue uniformly from
// [0, 359] at fixed saturation and lightness, matching the palette
// topics have always been displayed with.
func RandomColor(rng *rand.Rand) ColorFunc {
	return func() string {
		return fmt.Sprintf("hsl(%d, 70%%, 60%%)", rng.Intn(360))
	}
}
