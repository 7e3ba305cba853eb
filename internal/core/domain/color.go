package domain

import (
	"fmt"
	"math/rand/v2"
)

// hueRange is an inclusive hue band in degrees. From may exceed To, in which
// case the band wraps through 0.
type hueRange struct{ From, To int }

var professionalHues = []hueRange{
	{180, 260}, // blues
	{160, 200}, // teals
	{230, 300}, // violets
	{300, 20},  // magentas into reds
}

// RandomColor returns a display colour for a professional as an HSL string.
// Each call draws from its own source so there is no shared state.
func RandomColor() string {
	return randomColor(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

func randomColor(r *rand.Rand) string {
	pick := r.IntN(len(professionalHues) + 2)

	var h, s, l int
	switch {
	case pick < len(professionalHues):
		h = professionalHues[pick].sample(r)
		s = between(r, 70, 90)
		l = between(r, 18, 55)
	case pick == len(professionalHues):
		// slate
		h = between(r, 200, 250)
		s = between(r, 10, 30)
		l = between(r, 15, 40)
	default:
		// near-black grey
		h, s = 0, 0
		l = between(r, 6, 45)
	}
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", h, s, l)
}

func (hr hueRange) sample(r *rand.Rand) int {
	if hr.From <= hr.To {
		return between(r, hr.From, hr.To)
	}
	span := 360 - hr.From + hr.To
	return (hr.From + r.IntN(span+1)) % 360
}

func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}
