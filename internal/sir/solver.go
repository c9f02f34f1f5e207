package sir

import (
	"fmt"
	"math"
)

// Integration tolerances and step-controller limits.
const (
	rtol      = 1e-6
	atol      = 1e-6
	safety    = 0.9
	minShrink = 0.2
	maxGrowth = 10.0
)

// Dormand-Prince 5(4) tableau. The last row of dpA doubles as the fifth-order
// weights, so the seventh stage derivative is reusable as the next step's
// first stage (FSAL).
var (
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	dpE = [7]float64{71.0 / 57600, 0, -71.0 / 16695, 71.0 / 1920, -17253.0 / 339200, 22.0 / 525, -1.0 / 40}
)

// deriv evaluates the SIR right-hand side. The system is autonomous, so time
// never appears.
func (p Params) deriv(y [3]float64) [3]float64 {
	infection := p.Beta * y[0] * y[1] / float64(p.N)
	recovery := p.Gamma * y[1]
	return [3]float64{-infection, infection - recovery, recovery}
}

// Simulate integrates the SIR system from the initial state and reports the
// solution at every grid time. Steps are clipped so each sample is a directly
// computed solution value. The call is pure: identical inputs yield
// bit-identical trajectories, and concurrent use is safe.
func Simulate(p Params, init InitialState, times TimeGrid) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := init.Validate(p.N); err != nil {
		return nil, err
	}
	if err := times.Validate(); err != nil {
		return nil, err
	}

	tr := &Trajectory{
		Params: p,
		Times:  append([]float64(nil), times...),
		S:      make([]float64, len(times)),
		I:      make([]float64, len(times)),
		R:      make([]float64, len(times)),
	}

	y := [3]float64{init.S0, init.I0, init.R0}
	t := times[0]
	tr.set(0, y)
	if len(times) == 1 {
		return tr, nil
	}

	span := times[len(times)-1] - t
	if span == 0 {
		for i := 1; i < len(times); i++ {
			tr.set(i, y)
		}
		return tr, nil
	}
	hMin := 1e-12 * span

	f := p.deriv(y)
	h := initialStep(p, y, f, span)

	for idx := 1; idx < len(times); idx++ {
		target := times[idx]
		for t < target {
			hTry := h
			clipped := false
			if hTry >= target-t {
				hTry = target - t
				clipped = true
			}

			yNew, fNew, errNorm := p.step(y, f, hTry)
			if errNorm <= 1 {
				if clipped {
					t = target
				} else {
					t += hTry
				}
				var floored bool
				y, floored = floorTiny(yNew, float64(p.N))
				if floored {
					f = p.deriv(y)
				} else {
					f = fNew
				}
			}

			factor := safety * math.Pow(errNorm, -0.2)
			if factor > maxGrowth {
				factor = maxGrowth
			}
			if factor < minShrink {
				factor = minShrink
			}
			h = hTry * factor
			if h > span {
				h = span
			}
			if h < hMin {
				return nil, fmt.Errorf("%w: h=%g at t=%g", ErrStepUnderflow, h, t)
			}
		}
		tr.set(idx, y)
	}

	return tr, nil
}

// step advances one Dormand-Prince step of size h from y, with f the
// derivative at y. It returns the fifth-order solution, its derivative and
// the scaled norm of the embedded error estimate.
func (p Params) step(y, f [3]float64, h float64) (yNew, fNew [3]float64, errNorm float64) {
	var k [7][3]float64
	k[0] = f

	var ys [3]float64
	for s := 1; s < 7; s++ {
		for c := 0; c < 3; c++ {
			acc := 0.0
			for j := 0; j < s; j++ {
				acc += dpA[s][j] * k[j][c]
			}
			ys[c] = y[c] + h*acc
		}
		k[s] = p.deriv(ys)
	}
	yNew = ys
	fNew = k[6]

	sum := 0.0
	for c := 0; c < 3; c++ {
		e := 0.0
		for j := 0; j < 7; j++ {
			e += dpE[j] * k[j][c]
		}
		e *= h
		sc := atol + rtol*math.Max(math.Abs(y[c]), math.Abs(yNew[c]))
		r := e / sc
		sum += r * r
	}
	errNorm = math.Sqrt(sum / 3)
	return yNew, fNew, errNorm
}

// initialStep picks the first step size from the derivative scale refined by
// a single Euler probe, then caps it by the grid span.
func initialStep(p Params, y, f [3]float64, span float64) float64 {
	d0 := scaledNorm(y, y)
	d1 := scaledNorm(f, y)

	var h0 float64
	if d0 < 1e-5 || d1 < 1e-5 {
		h0 = 1e-6
	} else {
		h0 = 0.01 * d0 / d1
	}

	var y1 [3]float64
	for c := 0; c < 3; c++ {
		y1[c] = y[c] + h0*f[c]
	}
	f1 := p.deriv(y1)

	var df [3]float64
	for c := 0; c < 3; c++ {
		df[c] = f1[c] - f[c]
	}
	d2 := scaledNorm(df, y) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 0.2)
	}

	return math.Min(math.Min(100*h0, h1), span)
}

func scaledNorm(v, ref [3]float64) float64 {
	sum := 0.0
	for c := 0; c < 3; c++ {
		sc := atol + rtol*math.Abs(ref[c])
		r := v[c] / sc
		sum += r * r
	}
	return math.Sqrt(sum / 3)
}

// floorTiny zeroes compartments that stepped to rounding-level negatives so
// downstream metrics never see a spurious sign.
func floorTiny(y [3]float64, n float64) ([3]float64, bool) {
	window := 1e-9*n + 100*atol
	changed := false
	for c, v := range y {
		if v < 0 && v > -window {
			y[c] = 0
			changed = true
		}
	}
	return y, changed
}
