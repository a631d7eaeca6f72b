package tactical

import (
	"github.com/google/uuid"

	"github.com/chayuto/kobayashi-maru-sub004/internal/core"
	"github.com/chayuto/kobayashi-maru-sub004/internal/influence"
)

// Vector2D utility functions

// NewVector2D creates a new 2D vector
func NewVector2D(x, y float64) core.Vector2D {
	return core.Vector2D{X: x, Y: y}
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b core.Vector2D) float64 {
	return a.DistanceTo(b)
}

// Normalize normalizes a vector to unit length
func Normalize(v core.Vector2D) core.Vector2D {
	return v.Normalized()
}

// Lerp linearly interpolates between two vectors
func Lerp(a, b core.Vector2D, t float64) core.Vector2D {
	return core.Vector2D{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// PointSegmentDistance returns the shortest distance from p to the
// segment a-b, falling back to point distance when the segment is
// degenerate.
func PointSegmentDistance(p, a, b core.Vector2D) float64 {
	return core.PointSegmentDistance(p, a, b)
}

// Snapshot constructors

// NewTurret builds a defending-faction turret snapshot
func NewTurret(x, y, damage, fireRate, rng float64) core.Turret {
	return core.Turret{
		Position: core.Vector2D{X: x, Y: y},
		Damage:   damage,
		FireRate: fireRate,
		Range:    rng,
		Faction:  core.FactionDefender,
	}
}

// NewThreat builds a hostile threat snapshot with a fresh entity ID
func NewThreat(x, y, vx, vy, threatLevel float64) core.ThreatVector {
	return core.ThreatVector{
		EntityID:      uuid.New(),
		Position:      core.Vector2D{X: x, Y: y},
		Velocity:      core.Vector2D{X: vx, Y: vy},
		ThreatLevel:   threatLevel,
		Faction:       core.FactionHostile,
		Behavior:      core.BehaviorDirect,
		HealthPercent: 1,
	}
}

// Influence source construction

// DecayType selects the distance falloff curve of an influence source
type DecayType = influence.DecayType

// Re-exported falloff variants
const (
	DecayLinear      = influence.DecayLinear
	DecayQuadratic   = influence.DecayQuadratic
	DecayExponential = influence.DecayExponential
	DecayConstant    = influence.DecayConstant
)

// NewInfluenceSource builds an ephemeral influence contribution
func NewInfluenceSource(x, y, strength, radius float64, decay DecayType) influence.Source {
	return influence.Source{
		Position: core.Vector2D{X: x, Y: y},
		Strength: strength,
		Radius:   radius,
		Decay:    decay,
	}
}
