package interp

// Mode selects an interpolation kernel.
type Mode int

const (
	// Linear uses [Linear2].
	Linear Mode = iota
	// Hermite uses [Hermite4].
	Hermite
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	default:
		return "unknown"
	}
}

// Taps returns the number of neighbouring frames a kernel reads.
func (m Mode) Taps() int {
	if m == Hermite {
		return 4
	}
	return 2
}

// Linear2 interpolates from x0 to x1.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// LagrangeInterpolator interpolates a gathered neighbourhood by polynomial order.
type LagrangeInterpolator struct {
	order int
}

// NewLagrangeInterpolator creates an interpolator.
// order: 1 = linear, 3 = cubic (4-point Hermite).
func NewLagrangeInterpolator(order int) *LagrangeInterpolator {
	return &LagrangeInterpolator{order: order}
}

// Mode returns the kernel the interpolator uses.
func (l *LagrangeInterpolator) Mode() Mode {
	if l.order == 3 {
		return Hermite
	}
	return Linear
}

// Interpolate interpolates around frac in [0,1].
// Linear reads samples[0] and samples[1]; cubic reads four values and
// interpolates between samples[1] and samples[2]. Short inputs fall back to
// the next cheaper kernel.
func (l *LagrangeInterpolator) Interpolate(samples []float64, frac float64) float64 {
	switch {
	case len(samples) == 0:
		return 0
	case len(samples) == 1:
		return samples[0]
	case l.order == 3 && len(samples) >= 4:
		return Hermite4(frac, samples[0], samples[1], samples[2], samples[3])
	default:
		return Linear2(frac, samples[0], samples[1])
	}
}
