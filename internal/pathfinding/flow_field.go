package pathfinding

import (
	"github.com/chayuto/kobayashi-maru-sub004/internal/core"
	"github.com/chayuto/kobayashi-maru-sub004/internal/grid"
)

// FlowField stores a per-cell unit direction vector pointing toward
// decreasing integration value. It is a derived artifact: regenerate it
// whenever its integration field is recalculated.
type FlowField struct {
	grid       *grid.Grid
	directions []core.Vector2D
}

// NewFlowField creates a zeroed flow field over g
func NewFlowField(g *grid.Grid) *FlowField {
	return &FlowField{
		grid:       g,
		directions: make([]core.Vector2D, g.Size()),
	}
}

// Grid returns the grid this field was built for
func (f *FlowField) Grid() *grid.Grid { return f.grid }

// Generate derives a direction for every cell by discrete gradient
// descent: point toward the 4-neighbor with the strictly lowest
// integration value, normalized to unit length. Cells with no lower
// neighbor (the goal, or cells sealed behind walls) keep the zero
// vector.
func (f *FlowField) Generate(integration *IntegrationField) {
	if integration.Grid().Size() != f.grid.Size() {
		panic("pathfinding: integration field grid does not match flow field grid")
	}

	cols := f.grid.Cols()
	rows := f.grid.Rows()

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			index := row*cols + col
			best := integration.Value(index)
			dir := core.Vector2D{}

			for _, off := range [4][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}} {
				nc := col + off[0]
				nr := row + off[1]
				if nc < 0 || nc >= cols || nr < 0 || nr >= rows {
					continue
				}
				value := integration.Value(nr*cols + nc)
				if value < best {
					best = value
					dir = core.Vector2D{X: float64(off[0]), Y: float64(off[1])}
				}
			}

			f.directions[index] = dir.Normalized()
		}
	}
}

// DirectionAt returns the flow vector of a cell, or the zero vector for
// indices off the grid.
func (f *FlowField) DirectionAt(index int) core.Vector2D {
	if index < 0 || index >= len(f.directions) {
		return core.Vector2D{}
	}
	return f.directions[index]
}

// Direction returns the flow vector of the cell containing the world
// position (x, y). Out-of-range coordinates are clamped into the arena.
func (f *FlowField) Direction(x, y float64) core.Vector2D {
	return f.directions[f.grid.CellIndex(x, y)]
}
