package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrTooShort = errors.New("analysis: not enough samples")
	ErrNoSignal = errors.New("analysis: no periodic signal")
)

// Track returns the sample times and positions of one body across frames.
func Track(frames []sim.Frame, body string) ([]float64, []r2.Vec) {
	var times []float64
	var track []r2.Vec
	for _, fr := range frames {
		for _, b := range fr.Bodies {
			if b.Name == body {
				times = append(times, fr.Time)
				track = append(track, b.Position)
				break
			}
		}
	}
	return times, track
}

// AngularPeriod estimates the time for one revolution about the origin from
// the total angle swept between consecutive samples. Samples must be close
// enough that no step sweeps more than half a turn.
func AngularPeriod(times []float64, track []r2.Vec) (float64, error) {
	if len(track) < 2 || len(times) != len(track) {
		return 0, ErrTooShort
	}

	swept := 0.0
	prev := math.Atan2(track[0].Y, track[0].X)
	for _, p := range track[1:] {
		a := math.Atan2(p.Y, p.X)
		d := a - prev
		if d > math.Pi {
			d -= 2 * math.Pi
		} else if d < -math.Pi {
			d += 2 * math.Pi
		}
		swept += d
		prev = a
	}

	if swept == 0 {
		return 0, ErrNoSignal
	}
	return 2 * math.Pi * (times[len(times)-1] - times[0]) / math.Abs(swept), nil
}

// DominantPeriod returns the period of the strongest non-zero frequency in
// samples taken every spacing seconds, with the mean removed first.
func DominantPeriod(samples []float64, spacing float64) (float64, error) {
	n := len(samples)
	if n < 4 {
		return 0, ErrTooShort
	}

	mean := stat.Mean(samples, nil)
	seq := make([]float64, n)
	for i, v := range samples {
		seq[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, seq)

	best, power := 0, 0.0
	for k := 1; k < len(coeff); k++ {
		if p := cmplx.Abs(coeff[k]); p > power {
			best, power = k, p
		}
	}
	if best == 0 || power < 1e-12*float64(n) {
		return 0, ErrNoSignal
	}
	return spacing / fft.Freq(best), nil
}
