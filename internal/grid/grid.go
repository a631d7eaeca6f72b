package grid

import (
	"math"

	"github.com/chayuto/kobayashi-maru-sub004/internal/core"
)

// Grid maps world coordinates onto a discrete cell lattice. It is
// immutable after construction and shared by reference among every
// field built on top of it. Cell index = row*cols + col.
type Grid struct {
	cellSize float64
	cols     int
	rows     int
	width    float64
	height   float64
}

// NewGrid creates a grid covering a width x height world area. Cell
// counts are derived by ceiling-dividing the world dimensions, so the
// last row/column may extend past the world edge.
func NewGrid(width, height, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
	}
}

// CellSize returns the edge length of one cell in world units
func (g *Grid) CellSize() float64 { return g.cellSize }

// Cols returns the number of columns
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

// Size returns the total number of cells (cols*rows)
func (g *Grid) Size() int { return g.cols * g.rows }

// Width returns the world width the grid was built for
func (g *Grid) Width() float64 { return g.width }

// Height returns the world height the grid was built for
func (g *Grid) Height() float64 { return g.height }

// CellIndex returns the flat index of the cell containing (x, y).
// Out-of-range coordinates are clamped into the world bounds, never
// rejected.
func (g *Grid) CellIndex(x, y float64) int {
	col := int(core.Clamp(x, 0, g.width-1e-9) / g.cellSize)
	row := int(core.Clamp(y, 0, g.height-1e-9) / g.cellSize)
	if col >= g.cols {
		col = g.cols - 1
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return row*g.cols + col
}

// CellCoords splits a flat index into (col, row)
func (g *Grid) CellCoords(index int) (col, row int) {
	return index % g.cols, index / g.cols
}

// CellCenter returns the geometric center of the indexed cell. An index
// outside [0, cols*rows) returns the zero vector.
func (g *Grid) CellCenter(index int) core.Vector2D {
	if index < 0 || index >= g.cols*g.rows {
		return core.Vector2D{}
	}
	col, row := g.CellCoords(index)
	return core.Vector2D{
		X: float64(col)*g.cellSize + g.cellSize/2,
		Y: float64(row)*g.cellSize + g.cellSize/2,
	}
}

// Contains reports whether the flat index addresses a cell on the grid
func (g *Grid) Contains(index int) bool {
	return index >= 0 && index < g.cols*g.rows
}

// Neighbor offsets in (dcol, drow) order: N, S, E, W
var neighborOffsets = [4][2]int{
	{0, -1}, {0, 1}, {1, 0}, {-1, 0},
}

// Neighbors appends the 4-connected neighbor indices of a cell to dst
// and returns the extended slice. Corner and edge cells yield fewer
// than four. An invalid index yields dst unchanged.
func (g *Grid) Neighbors(index int, dst []int) []int {
	if !g.Contains(index) {
		return dst
	}
	col, row := g.CellCoords(index)
	for _, off := range neighborOffsets {
		nc := col + off[0]
		nr := row + off[1]
		if nc < 0 || nc >= g.cols || nr < 0 || nr >= g.rows {
			continue
		}
		dst = append(dst, nr*g.cols+nc)
	}
	return dst
}
