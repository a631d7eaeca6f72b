package grid

// Impassable is the traversal-cost sentinel: a cell with this cost
// never enters integration-field relaxation.
const Impassable uint8 = 255

// CostField stores a per-cell traversal cost. Every cell defaults to 1
// (freely traversable); placement and obstacle logic raises costs, the
// integration field reads them.
type CostField struct {
	grid  *Grid
	cells []uint8
}

// NewCostField creates a cost field over g with all cells at cost 1
func NewCostField(g *Grid) *CostField {
	cells := make([]uint8, g.Size())
	for i := range cells {
		cells[i] = 1
	}
	return &CostField{grid: g, cells: cells}
}

// Grid returns the grid this field was built for
func (c *CostField) Grid() *Grid { return c.grid }

// Cost returns the traversal cost of a cell. Indices off the grid read
// as Impassable so nothing ever routes outside the arena.
func (c *CostField) Cost(index int) uint8 {
	if index < 0 || index >= len(c.cells) {
		return Impassable
	}
	return c.cells[index]
}

// SetCost stores an arbitrary cost byte for a cell. Out-of-range
// indices are ignored.
func (c *CostField) SetCost(index int, cost uint8) {
	if index < 0 || index >= len(c.cells) {
		return
	}
	c.cells[index] = cost
}

// SetCostAt sets the cost of the cell containing world position (x, y)
func (c *CostField) SetCostAt(x, y float64, cost uint8) {
	c.SetCost(c.grid.CellIndex(x, y), cost)
}

// Reset restores every cell to the default cost of 1
func (c *CostField) Reset() {
	for i := range c.cells {
		c.cells[i] = 1
	}
}
