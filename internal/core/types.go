package core

import (
	"math"

	"github.com/google/uuid"
)

// Vector2D represents a 2D coordinate/vector
type Vector2D struct {
	X, Y float64
}

// Add returns the component-wise sum of two vectors
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference of two vectors
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns the vector multiplied by a scalar
func (v Vector2D) Scale(s float64) Vector2D {
	return Vector2D{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(o Vector2D) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalized returns the vector scaled to unit length, or the zero
// vector if the input has zero length
func (v Vector2D) Normalized() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{X: v.X / length, Y: v.Y / length}
}

// DistanceTo returns the Euclidean distance between two points
func (v Vector2D) DistanceTo(o Vector2D) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// FactionID identifies which side an entity fights for
type FactionID uint8

const (
	FactionNeutral FactionID = iota
	FactionDefender
	FactionHostile
)

// BehaviorType classifies how a hostile approaches the Kobayashi Maru
type BehaviorType uint8

const (
	BehaviorUnknown BehaviorType = iota
	BehaviorDirect               // Beeline toward the KM
	BehaviorFlanker              // Approaches along the arena edge
	BehaviorOrbiter              // Circles before committing
)

// Turret is a read-only snapshot of a friendly turret entity, supplied
// by the caller on every analysis call and never retained
type Turret struct {
	Position Vector2D
	Damage   float64
	FireRate float64
	Range    float64
	Faction  FactionID
}

// DPS returns the turret's damage per second
func (t Turret) DPS() float64 {
	return t.Damage * t.FireRate
}

// ThreatVector is a read-only snapshot of a hostile entity, supplied by
// the caller on every analysis call and never retained
type ThreatVector struct {
	EntityID            uuid.UUID
	Position            Vector2D
	Velocity            Vector2D
	PredictedImpactTime float64
	ThreatLevel         float64
	Faction             FactionID
	Behavior            BehaviorType
	HealthPercent       float64
	IsElite             bool
	IsBoss              bool
}
