// Package influence implements a continuous scalar field accumulating
// decaying point sources. The autoplay agent writes threat and support
// pressure into it and reads gradients back out for placement scoring.
package influence

import (
	"math"
	"sort"

	"github.com/chayuto/kobayashi-maru-sub004/internal/core"
	"github.com/chayuto/kobayashi-maru-sub004/internal/grid"
)

// DecayType defines how a source's contribution falls off with distance
type DecayType uint8

const (
	DecayLinear      DecayType = iota // 1 - t
	DecayQuadratic                    // 1 - t^2, slower initial falloff
	DecayExponential                  // e^(-3t), faster falloff near the edge
	DecayConstant                     // Full strength across the radius
)

// exponentialK is tuned so the exponential curve undercuts linear decay
// near t = 1 while staying above it near the source.
const exponentialK = 3.0

// Source is an ephemeral point contribution. It is applied to the map
// and not stored afterward.
type Source struct {
	Position core.Vector2D
	Strength float64
	Radius   float64
	Decay    DecayType
}

// Extremum is a located field value, reported at the cell center
type Extremum struct {
	Position core.Vector2D
	Value    float64
}

// Map is an additive scalar field over a grid. Values accumulate across
// AddSource calls until Clear.
type Map struct {
	grid   *grid.Grid
	values []float64
}

// NewMap creates a zeroed influence map over g
func NewMap(g *grid.Grid) *Map {
	return &Map{
		grid:   g,
		values: make([]float64, g.Size()),
	}
}

// Grid returns the grid this map was built for
func (m *Map) Grid() *grid.Grid { return m.grid }

func falloff(t float64, decay DecayType) float64 {
	switch decay {
	case DecayQuadratic:
		return 1 - t*t
	case DecayExponential:
		return math.Exp(-exponentialK * t)
	case DecayConstant:
		return 1
	default:
		return 1 - t
	}
}

// AddSource adds strength*falloff(distance/radius) to every cell whose
// center lies within the source's radius. Contributions accumulate with
// whatever is already in the map. A non-positive radius contributes
// nothing, so falloff never divides by zero.
func (m *Map) AddSource(s Source) {
	if s.Radius <= 0 {
		return
	}

	cellSize := m.grid.CellSize()
	cols := m.grid.Cols()
	rows := m.grid.Rows()

	// Only sweep the bounding box of the radius
	minCol := int(math.Floor((s.Position.X - s.Radius) / cellSize))
	maxCol := int(math.Floor((s.Position.X + s.Radius) / cellSize))
	minRow := int(math.Floor((s.Position.Y - s.Radius) / cellSize))
	maxRow := int(math.Floor((s.Position.Y + s.Radius) / cellSize))
	if minCol < 0 {
		minCol = 0
	}
	if minRow < 0 {
		minRow = 0
	}
	if maxCol >= cols {
		maxCol = cols - 1
	}
	if maxRow >= rows {
		maxRow = rows - 1
	}

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			index := row*cols + col
			center := m.grid.CellCenter(index)
			distance := center.DistanceTo(s.Position)
			if distance > s.Radius {
				continue
			}
			t := core.Clamp(distance/s.Radius, 0, 1)
			m.values[index] += s.Strength * falloff(t, s.Decay)
		}
	}
}

// Value returns the accumulated influence of the cell containing (x, y)
func (m *Map) Value(x, y float64) float64 {
	return m.values[m.grid.CellIndex(x, y)]
}

// ValueAt returns the influence of a cell by index, or 0 off the grid
func (m *Map) ValueAt(index int) float64 {
	if index < 0 || index >= len(m.values) {
		return 0
	}
	return m.values[index]
}

// InterpolatedValue returns a bilinear interpolation across the four
// nearest cell centers, for smooth gradients in continuous scoring.
func (m *Map) InterpolatedValue(x, y float64) float64 {
	cellSize := m.grid.CellSize()
	cols := m.grid.Cols()
	rows := m.grid.Rows()

	// Shift into cell-center space: sample point relative to the grid
	// of cell centers at (col+0.5)*cellSize
	gx := x/cellSize - 0.5
	gy := y/cellSize - 0.5

	col0 := int(math.Floor(gx))
	row0 := int(math.Floor(gy))
	fx := gx - float64(col0)
	fy := gy - float64(row0)

	clampCol := func(c int) int {
		if c < 0 {
			return 0
		}
		if c >= cols {
			return cols - 1
		}
		return c
	}
	clampRow := func(r int) int {
		if r < 0 {
			return 0
		}
		if r >= rows {
			return rows - 1
		}
		return r
	}

	v00 := m.values[clampRow(row0)*cols+clampCol(col0)]
	v10 := m.values[clampRow(row0)*cols+clampCol(col0+1)]
	v01 := m.values[clampRow(row0+1)*cols+clampCol(col0)]
	v11 := m.values[clampRow(row0+1)*cols+clampCol(col0+1)]

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

// Peaks returns the local maxima of the field: cells whose value
// strictly exceeds all 4-connected neighbors and is above threshold,
// sorted descending by value.
func (m *Map) Peaks(threshold float64) []Extremum {
	cols := m.grid.Cols()
	rows := m.grid.Rows()

	var peaks []Extremum
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			index := row*cols + col
			value := m.values[index]
			if value <= threshold {
				continue
			}

			isPeak := true
			for _, off := range [4][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}} {
				nc := col + off[0]
				nr := row + off[1]
				if nc < 0 || nc >= cols || nr < 0 || nr >= rows {
					continue
				}
				if m.values[nr*cols+nc] >= value {
					isPeak = false
					break
				}
			}
			if isPeak {
				peaks = append(peaks, Extremum{
					Position: m.grid.CellCenter(index),
					Value:    value,
				})
			}
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].Value > peaks[j].Value
	})
	return peaks
}

// Maximum scans for the strongest cell and returns its center and value
func (m *Map) Maximum() Extremum {
	best := 0
	for i, v := range m.values {
		if v > m.values[best] {
			best = i
		}
	}
	return Extremum{Position: m.grid.CellCenter(best), Value: m.values[best]}
}

// Minimum scans for the weakest cell and returns its center and value
func (m *Map) Minimum() Extremum {
	best := 0
	for i, v := range m.values {
		if v < m.values[best] {
			best = i
		}
	}
	return Extremum{Position: m.grid.CellCenter(best), Value: m.values[best]}
}

// Clear zeroes the entire field without resizing it
func (m *Map) Clear() {
	for i := range m.values {
		m.values[i] = 0
	}
}

// Decay multiplies every cell by rate, dropping values below a small
// epsilon to zero so stale influence drains out of the field over time.
func (m *Map) Decay(rate float64) {
	if rate < 0 {
		rate = 0
	}
	for i := range m.values {
		m.values[i] *= rate
		if m.values[i] < 0.01 {
			m.values[i] = 0
		}
	}
}
