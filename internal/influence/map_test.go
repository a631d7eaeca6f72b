package influence

import (
	"testing"

	"github.com/chayuto/kobayashi-maru-sub004/internal/core"
	"github.com/chayuto/kobayashi-maru-sub004/internal/grid"
)

func newTestMap() *Map {
	// 500x500 world at 10-unit cells: fine enough that sampling error
	// stays well inside the asserted bounds
	return NewMap(grid.NewGrid(500, 500, 10))
}

// sourceAt returns a source centered exactly on a cell center so decay
// assertions are not skewed by sub-cell offsets
func sourceAt(m *Map, x, y float64, strength, radius float64, decay DecayType) Source {
	center := m.Grid().CellCenter(m.Grid().CellIndex(x, y))
	return Source{Position: center, Strength: strength, Radius: radius, Decay: decay}
}

func TestLinearDecayProfile(t *testing.T) {
	m := newTestMap()
	s := sourceAt(m, 250, 250, 10, 100, DecayLinear)
	m.AddSource(s)

	center := m.Value(s.Position.X, s.Position.Y)
	if center <= 7 {
		t.Fatalf("Value at source center should exceed 7, got %v", center)
	}

	mid := m.Value(s.Position.X+50, s.Position.Y)
	if mid <= 3 || mid >= 7 {
		t.Fatalf("Value at 50%% radius should be in (3,7), got %v", mid)
	}

	beyond := m.Value(s.Position.X+150, s.Position.Y)
	if beyond != 0 {
		t.Fatalf("Value beyond radius should be exactly 0, got %v", beyond)
	}
}

func TestQuadraticFallsSlowerNearCenter(t *testing.T) {
	linear := newTestMap()
	quadratic := newTestMap()

	ls := sourceAt(linear, 250, 250, 10, 100, DecayLinear)
	qs := sourceAt(quadratic, 250, 250, 10, 100, DecayQuadratic)
	linear.AddSource(ls)
	quadratic.AddSource(qs)

	// Halfway out, the quadratic curve has lost less strength
	lv := linear.Value(ls.Position.X+50, ls.Position.Y)
	qv := quadratic.Value(qs.Position.X+50, qs.Position.Y)
	if qv <= lv {
		t.Fatalf("Quadratic (%v) should exceed linear (%v) at mid radius", qv, lv)
	}
}

func TestExponentialFallsFasterNearEdge(t *testing.T) {
	linear := newTestMap()
	exponential := newTestMap()

	ls := sourceAt(linear, 250, 250, 10, 100, DecayLinear)
	es := sourceAt(exponential, 250, 250, 10, 100, DecayExponential)
	linear.AddSource(ls)
	exponential.AddSource(es)

	lv := linear.Value(ls.Position.X+90, ls.Position.Y)
	ev := exponential.Value(es.Position.X+90, es.Position.Y)
	if ev >= lv {
		t.Fatalf("Exponential (%v) should undercut linear (%v) near the edge", ev, lv)
	}
}

func TestDecayMonotoneWithinRadius(t *testing.T) {
	for _, tc := range []struct {
		name  string
		decay DecayType
	}{
		{"linear", DecayLinear},
		{"quadratic", DecayQuadratic},
		{"exponential", DecayExponential},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMap()
			s := sourceAt(m, 250, 250, 10, 100, tc.decay)
			m.AddSource(s)

			prev := m.Value(s.Position.X, s.Position.Y)
			for d := 10.0; d <= 100; d += 10 {
				v := m.Value(s.Position.X+d, s.Position.Y)
				if v > prev {
					t.Fatalf("Value increased with distance at %v: %v > %v", d, v, prev)
				}
				prev = v
			}
		})
	}
}

func TestSourcesAccumulate(t *testing.T) {
	m := newTestMap()
	a := sourceAt(m, 250, 250, 10, 100, DecayLinear)
	b := sourceAt(m, 250, 250, 5, 100, DecayLinear)
	m.AddSource(a)
	m.AddSource(b)

	// Shared center carries both full strengths added, not replaced
	v := m.Value(a.Position.X, a.Position.Y)
	if v < 14 || v > 15 {
		t.Fatalf("Overlapping sources should sum to ~15, got %v", v)
	}
}

func TestZeroRadiusContributesNothing(t *testing.T) {
	m := newTestMap()
	m.AddSource(Source{Position: core.Vector2D{X: 250, Y: 250}, Strength: 10, Radius: 0})

	if v := m.Value(250, 250); v != 0 {
		t.Fatalf("Zero-radius source should contribute nothing, got %v", v)
	}
}

func TestPeaksOrderedAndThresholded(t *testing.T) {
	m := newTestMap()
	m.AddSource(sourceAt(m, 100, 100, 20, 50, DecayLinear))
	m.AddSource(sourceAt(m, 400, 400, 10, 50, DecayLinear))
	m.AddSource(sourceAt(m, 100, 400, 4, 50, DecayLinear))

	peaks := m.Peaks(0)
	if len(peaks) != 3 {
		t.Fatalf("Expected 3 peaks, got %d", len(peaks))
	}
	for i := 1; i < len(peaks); i++ {
		if peaks[i].Value > peaks[i-1].Value {
			t.Fatalf("Peaks not sorted descending: %v after %v", peaks[i].Value, peaks[i-1].Value)
		}
	}

	// A threshold filters out the weakest source
	peaks = m.Peaks(5)
	if len(peaks) != 2 {
		t.Fatalf("Threshold 5 should leave 2 peaks, got %d", len(peaks))
	}
}

func TestMaximumLocatesStrongestSource(t *testing.T) {
	m := newTestMap()
	strong := sourceAt(m, 100, 100, 20, 50, DecayLinear)
	m.AddSource(strong)
	m.AddSource(sourceAt(m, 400, 400, 10, 50, DecayLinear))

	max := m.Maximum()
	if max.Position.DistanceTo(strong.Position) > m.Grid().CellSize() {
		t.Fatalf("Maximum at (%v,%v) should be within one cell of the strongest source",
			max.Position.X, max.Position.Y)
	}
}

func TestMinimumIsZeroFarFromSources(t *testing.T) {
	m := newTestMap()
	m.AddSource(sourceAt(m, 100, 100, 20, 50, DecayLinear))

	min := m.Minimum()
	if min.Value != 0 {
		t.Fatalf("Minimum should be 0 far from any source, got %v", min.Value)
	}
	if min.Position.DistanceTo(core.Vector2D{X: 100, Y: 100}) <= 50 {
		t.Fatalf("Minimum should lie outside the source radius")
	}
}

func TestInterpolationMonotoneAlongRay(t *testing.T) {
	m := newTestMap()
	s := sourceAt(m, 250, 250, 10, 150, DecayLinear)
	m.AddSource(s)

	prev := m.InterpolatedValue(s.Position.X, s.Position.Y)
	for d := 15.0; d <= 120; d += 15 {
		v := m.InterpolatedValue(s.Position.X+d, s.Position.Y)
		if v >= prev {
			t.Fatalf("Interpolated value should strictly decrease along the ray: %v then %v at %v",
				prev, v, d)
		}
		prev = v
	}
}

func TestInterpolationMatchesCellCenters(t *testing.T) {
	m := newTestMap()
	s := sourceAt(m, 250, 250, 10, 100, DecayLinear)
	m.AddSource(s)

	// At an exact cell center the bilinear weights collapse onto one cell
	center := m.Grid().CellCenter(m.Grid().CellIndex(200, 250))
	direct := m.Value(center.X, center.Y)
	interp := m.InterpolatedValue(center.X, center.Y)
	if diff := interp - direct; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("Interpolation at a cell center should equal the direct value: %v vs %v",
			interp, direct)
	}
}

func TestClearZeroesField(t *testing.T) {
	m := newTestMap()
	m.AddSource(sourceAt(m, 250, 250, 10, 100, DecayLinear))
	m.Clear()

	for i := 0; i < m.Grid().Size(); i++ {
		if m.ValueAt(i) != 0 {
			t.Fatalf("Cell %d should be zero after Clear, got %v", i, m.ValueAt(i))
		}
	}
}

func TestTemporalDecayDrainsField(t *testing.T) {
	m := newTestMap()
	m.AddSource(sourceAt(m, 250, 250, 10, 100, DecayLinear))

	before := m.Value(250, 250)
	m.Decay(0.5)
	after := m.Value(250, 250)
	if after >= before {
		t.Fatalf("Decay should reduce values: %v -> %v", before, after)
	}

	// Repeated decay drains everything to exactly zero
	for i := 0; i < 16; i++ {
		m.Decay(0.5)
	}
	if v := m.Value(250, 250); v != 0 {
		t.Fatalf("Field should drain to zero, got %v", v)
	}
}
