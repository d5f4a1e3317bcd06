package analysis

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/vehicle"
)

// Quantity selects a per-corner series from the log.
type Quantity int

const (
	Displacement Quantity = iota
	Velocity
	Force
	Temperature
)

func (q Quantity) String() string {
	switch q {
	case Displacement:
		return "displacement"
	case Velocity:
		return "velocity"
	case Force:
		return "force"
	case Temperature:
		return "temperature"
	default:
		return "unknown"
	}
}

// Series extracts one corner quantity from every entry.
func Series(entries []datalog.Entry, c vehicle.Corner, q Quantity) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		corner := e.State.Corners[c]
		switch q {
		case Displacement:
			out[i] = corner.Displacement
		case Velocity:
			out[i] = corner.Velocity
		case Force:
			out[i] = corner.Force
		case Temperature:
			out[i] = corner.Temperature
		}
	}
	return out
}

type Point struct{ X, Y float64 }

// Portrait holds one corner's trajectory in the X/Y quantity plane.
type Portrait struct {
	Corner vehicle.Corner
	X, Y   Quantity
	Points []Point
}

func PhasePortrait(entries []datalog.Entry, c vehicle.Corner, x, y Quantity) *Portrait {
	xs := Series(entries, c, x)
	ys := Series(entries, c, y)
	p := &Portrait{Corner: c, X: x, Y: y, Points: make([]Point, len(xs))}
	for i := range xs {
		p.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return p
}

// PhasePortraitToASCII renders the portrait on a width×height character canvas with axes
// drawn where zero is visible.
func PhasePortraitToASCII(p *Portrait, width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	xs := make([]float64, len(p.Points))
	ys := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		xs[i], ys[i] = pt.X, pt.Y
	}
	minX, maxX := padded(floats.Min(xs), floats.Max(xs))
	minY, maxY := padded(floats.Min(ys), floats.Max(ys))
	rangeX, rangeY := maxX-minX, maxY-minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := range canvas {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := range canvas[row] {
			canvas[row][col] = '─'
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// padded widens [lo, hi] by 10% on each side and never returns an empty range.
func padded(lo, hi float64) (float64, float64) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - r*0.1, hi + r*0.1
}
