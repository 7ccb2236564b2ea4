package stats

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/guidoenr/cellscape/internal/cells"
)

// Analyzer tracks the cell population over simulation ticks and extracts the
// activity envelope and the dominant flicker period.
type Analyzer struct {
	capacity float64

	envelope    float64
	lastActive  int
	activity    []float64
	historySize int

	buffer []float64
	window []float64
}

// Config controls Analyzer behavior.
type Config struct {
	// Capacity is the number of cell coordinates across all cubes.
	Capacity    int
	HistorySize int
}

// New creates an Analyzer. The history is rounded up to a power of two.
func New(cfg Config) *Analyzer {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 128
	}
	size := nextPow2(cfg.HistorySize)
	return &Analyzer{
		capacity:    float64(cfg.Capacity),
		activity:    make([]float64, 0, size),
		historySize: size,
	}
}

// Analyze records one simulation tick and returns the current summary.
// deltaTicks is the number of ticks since the previous call.
func (a *Analyzer) Analyze(pop cells.Population, deltaTicks float64) Summary {
	active := pop.Active()
	level := clamp(float64(active)/a.capacity, 0, 1)
	a.pushActivity(level)

	attack := math.Pow(0.6, math.Max(deltaTicks, 0))
	a.envelope = envelope(a.envelope, level, attack, 0.97)

	mean := 0.0
	if total := pop.Total(); total > 0 {
		mean = pop.NoiseSum / float64(total)
	}
	churn := active - a.lastActive
	a.lastActive = active

	return Summary{
		Active:        active,
		Appearing:     pop.Appearing,
		Settled:       pop.Settled,
		Fading:        pop.Fading,
		MeanNoise:     mean,
		Activity:      level,
		Envelope:      a.envelope,
		Churn:         churn,
		FlickerPeriod: a.flickerPeriod(),
	}
}

// flickerPeriod returns the period in ticks of the strongest oscillation of
// the activity history, or 0 until the history is full.
func (a *Analyzer) flickerPeriod() float64 {
	size := a.historySize
	if len(a.activity) < size {
		return 0
	}
	a.ensureWorkspace(size)

	mean := average(a.activity)
	for i, v := range a.activity {
		a.buffer[i] = (v - mean) * a.window[i]
	}
	spectrum := fft.FFTReal(a.buffer)

	best, bestMag := 0, 0.0
	for k := 1; k < size/2; k++ {
		if m := cmag(spectrum[k]); m > bestMag {
			best, bestMag = k, m
		}
	}
	if best == 0 || bestMag < 1e-9 {
		return 0
	}
	return float64(size) / float64(best)
}

func (a *Analyzer) pushActivity(value float64) {
	a.activity = append(a.activity, value)
	if len(a.activity) > a.historySize {
		copy(a.activity, a.activity[1:])
		a.activity = a.activity[:len(a.activity)-1]
	}
}

func hann(i, size float64) float64 {
	return 0.5 * (1.0 - math.Cos(2.0*math.Pi*i/size))
}

func (a *Analyzer) ensureWorkspace(size int) {
	if len(a.buffer) != size {
		a.buffer = make([]float64, size)
	}
	if len(a.window) != size {
		a.window = make([]float64, size)
		sizeF := float64(size)
		for i := range a.window {
			a.window[i] = hann(float64(i), sizeF)
		}
	}
}

func cmag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}

func envelope(current, input, attack, release float64) float64 {
	if input > current {
		return current*attack + input*(1-attack)
	}
	return current * release
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
