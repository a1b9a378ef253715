// Package timeline holds the scheduling and layout engine behind the day
// grid: pixel/minute conversion, overlap checks, the cascade layout and the
// pointer drag state machine. Nothing here touches storage or the terminal.
package timeline

import "math"

const (
	// MinutesPerDay is the length of one calendar day on the grid.
	MinutesPerDay = 24 * 60

	// DefaultPixelsPerMinute is the vertical zoom used when none is configured.
	DefaultPixelsPerMinute = 1.1

	// MinStep is substituted for a zero or negative quantization step.
	MinStep = 1
)

// Grid maps vertical positions to minutes of the day and back.
type Grid struct {
	PixelsPerMinute float64
}

// NewGrid returns a grid with the given scale, falling back to
// DefaultPixelsPerMinute for non-positive values.
func NewGrid(pixelsPerMinute float64) Grid {
	if pixelsPerMinute <= 0 || math.IsNaN(pixelsPerMinute) || math.IsInf(pixelsPerMinute, 0) {
		pixelsPerMinute = DefaultPixelsPerMinute
	}
	return Grid{PixelsPerMinute: pixelsPerMinute}
}

func (g Grid) scale() float64 {
	if g.PixelsPerMinute <= 0 {
		return DefaultPixelsPerMinute
	}
	return g.PixelsPerMinute
}

// ValidStep reports whether step can be used as a quantization step as is.
func ValidStep(step int) bool {
	return step >= MinStep
}

// Step returns the effective quantization step for step.
func Step(step int) int {
	if !ValidStep(step) {
		return MinStep
	}
	return step
}

// Quantize rounds m to the nearest multiple of step and clamps it to the day.
// Quantize(Quantize(m, s), s) == Quantize(m, s).
func Quantize(m, step int) int {
	return snap(float64(m), step)
}

// PixelToMinutes converts a vertical position to a snapped minute of the day.
// Every create, move and resize path converts pointer positions through here.
func (g Grid) PixelToMinutes(y float64, step int) int {
	if math.IsNaN(y) {
		return 0
	}
	return snap(y/g.scale(), step)
}

// MinutesToPixel converts a minute of the day to a vertical position.
func (g Grid) MinutesToPixel(m int) float64 {
	return float64(m) * g.scale()
}

func snap(minutes float64, step int) int {
	s := float64(Step(step))
	q := math.Round(minutes/s) * s
	switch {
	case q < 0:
		return 0
	case q > MinutesPerDay:
		return MinutesPerDay
	}
	return int(q)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
