package pathfinding

import (
	"testing"

	"github.com/chayuto/kobayashi-maru-sub004/internal/grid"
)

func TestFlowFieldDirections(t *testing.T) {
	g := grid.NewGrid(5, 5, 1)
	costs := grid.NewCostField(g)
	integration := NewIntegrationField(g)
	flow := NewFlowField(g)

	// Goal at the center cell (2,2) = index 12
	integration.Calculate(2.5, 2.5, costs)
	flow.Generate(integration)

	// The goal cell is a local minimum: zero vector
	dir := flow.DirectionAt(12)
	if dir.X != 0 || dir.Y != 0 {
		t.Fatalf("Goal cell should have zero vector, got (%v,%v)", dir.X, dir.Y)
	}

	// The cell directly east of the goal points west
	dir = flow.DirectionAt(13)
	if dir.X != -1 || dir.Y != 0 {
		t.Fatalf("Cell east of goal should point west (-1,0), got (%v,%v)", dir.X, dir.Y)
	}

	// The cell directly north of the goal points south
	dir = flow.DirectionAt(7)
	if dir.X != 0 || dir.Y != 1 {
		t.Fatalf("Cell north of goal should point south (0,1), got (%v,%v)", dir.X, dir.Y)
	}
}

func TestFlowFieldUnitLength(t *testing.T) {
	g := grid.NewGrid(10, 10, 1)
	costs := grid.NewCostField(g)
	costs.SetCost(44, 20)
	integration := NewIntegrationField(g)
	flow := NewFlowField(g)

	integration.Calculate(5, 5, costs)
	flow.Generate(integration)

	for i := 0; i < g.Size(); i++ {
		length := flow.DirectionAt(i).Length()
		if length != 0 && (length < 0.9999 || length > 1.0001) {
			t.Fatalf("Cell %d direction is not unit length: %v", i, length)
		}
	}
}

func TestFlowFieldSealedCellsHaveZeroVector(t *testing.T) {
	g := grid.NewGrid(3, 3, 1)
	costs := grid.NewCostField(g)
	costs.SetCost(1, grid.Impassable)
	costs.SetCost(4, grid.Impassable)
	costs.SetCost(7, grid.Impassable)
	integration := NewIntegrationField(g)
	flow := NewFlowField(g)

	integration.Calculate(0, 0, costs)
	flow.Generate(integration)

	// Sealed cells are all Unreachable, so no neighbor is strictly
	// lower and they keep the zero vector
	for _, idx := range []int{2, 5, 8} {
		dir := flow.DirectionAt(idx)
		if dir.X != 0 || dir.Y != 0 {
			t.Fatalf("Sealed cell %d should have zero vector, got (%v,%v)", idx, dir.X, dir.Y)
		}
	}
}

func TestFlowFieldWorldLookup(t *testing.T) {
	g := grid.NewGrid(100, 100, 10)
	costs := grid.NewCostField(g)
	integration := NewIntegrationField(g)
	flow := NewFlowField(g)

	integration.Calculate(50, 50, costs)
	flow.Generate(integration)

	// A point far east of center flows west
	dir := flow.Direction(95, 55)
	if dir.X != -1 || dir.Y != 0 {
		t.Fatalf("Point east of center should flow west, got (%v,%v)", dir.X, dir.Y)
	}

	// Out-of-range lookups clamp rather than fail
	clamped := flow.Direction(-500, 55)
	edge := flow.Direction(0, 55)
	if clamped != edge {
		t.Fatalf("Clamped lookup should match the edge cell")
	}
}

func TestFlowFieldDimensionMismatchPanics(t *testing.T) {
	g := grid.NewGrid(3, 3, 1)
	other := grid.NewGrid(5, 5, 1)
	flow := NewFlowField(g)

	defer func() {
		if recover() == nil {
			t.Fatalf("Mismatched integration field dimensions should panic")
		}
	}()
	flow.Generate(NewIntegrationField(other))
}
