// Package defense models how well the current turret layout protects
// the Kobayashi Maru: sector-level coverage accounting and candidate
// point search for intercepting inbound hostiles.
package defense

import (
	"math"

	"github.com/chayuto/kobayashi-maru-sub004/internal/core"
	"github.com/chayuto/kobayashi-maru-sub004/internal/pathfinding"
)

// Position scoring weights. The ring falloff scale matches the original
// balance: full ring credit decays to zero 100 units off the optimal
// defense radius.
const (
	trafficWeight    = 40.0
	coverageWeight   = 20.0
	ringWeight       = 15.0
	interceptWeight  = 25.0
	ringFalloff      = 100.0
	maxScoredThreats = 10
	sectorSampleEdge = 5 // 5x5 sample points per sector
)

// CoverageConfig tunes the sector decomposition and scoring weights
type CoverageConfig struct {
	SectorCols          int
	SectorRows          int
	OptimalRadius       float64 // Preferred distance of defenses from the KM
	DefenseWeight       float64
	InterceptWeight     float64
	ThreatPathTolerance float64 // Max perpendicular distance to count a threat path
	DefendingFaction    core.FactionID
}

// DefaultCoverageConfig returns the reference tuning
func DefaultCoverageConfig() CoverageConfig {
	return CoverageConfig{
		SectorCols:          8,
		SectorRows:          8,
		OptimalRadius:       300,
		DefenseWeight:       1,
		InterceptWeight:     1,
		ThreatPathTolerance: 100,
		DefendingFaction:    core.FactionDefender,
	}
}

// Sector is one coarse spatial bucket of the arena, reset and
// re-accumulated on every Analyze call.
type Sector struct {
	Index       int
	X, Y        float64 // Top-left corner in world units
	Width       float64
	Height      float64
	TurretCount int
	TotalDPS    float64
	EnemyCount  int
	ThreatLevel float64
}

// Center returns the sector's geometric center
func (s *Sector) Center() core.Vector2D {
	return core.Vector2D{X: s.X + s.Width/2, Y: s.Y + s.Height/2}
}

// CoverageMap is the snapshot handed to the decision loop
type CoverageMap struct {
	Sectors       []Sector
	TotalCoverage float64 // Fraction of sectors with any DPS, in [0,1]
	WeakestSector int
}

// CoverageAnalyzer decomposes the arena into a coarse sector grid,
// independent of the pathfinding resolution, and aggregates turret DPS
// and enemy pressure per sector.
type CoverageAnalyzer struct {
	cfg     CoverageConfig
	width   float64
	height  float64
	center  core.Vector2D
	traffic *pathfinding.TrafficAnalyzer
	sectors []Sector
}

// NewCoverageAnalyzer creates an analyzer over a width x height arena.
// traffic supplies the density term for placement scoring; the arena
// center (the KM position) is taken from it.
func NewCoverageAnalyzer(width, height float64, cfg CoverageConfig, traffic *pathfinding.TrafficAnalyzer) *CoverageAnalyzer {
	if cfg.SectorCols < 1 {
		cfg.SectorCols = 1
	}
	if cfg.SectorRows < 1 {
		cfg.SectorRows = 1
	}

	sectors := make([]Sector, cfg.SectorCols*cfg.SectorRows)
	sw := width / float64(cfg.SectorCols)
	sh := height / float64(cfg.SectorRows)
	for i := range sectors {
		col := i % cfg.SectorCols
		row := i / cfg.SectorCols
		sectors[i] = Sector{
			Index:  i,
			X:      float64(col) * sw,
			Y:      float64(row) * sh,
			Width:  sw,
			Height: sh,
		}
	}

	return &CoverageAnalyzer{
		cfg:     cfg,
		width:   width,
		height:  height,
		center:  traffic.Center(),
		traffic: traffic,
		sectors: sectors,
	}
}

// SectorCount returns the number of sectors
func (c *CoverageAnalyzer) SectorCount() int { return len(c.sectors) }

// Sector returns a copy of the indexed sector, or nil for invalid
// indices.
func (c *CoverageAnalyzer) Sector(index int) *Sector {
	if index < 0 || index >= len(c.sectors) {
		return nil
	}
	s := c.sectors[index]
	return &s
}

func (c *CoverageAnalyzer) sectorIndexAt(p core.Vector2D) int {
	sw := c.width / float64(c.cfg.SectorCols)
	sh := c.height / float64(c.cfg.SectorRows)
	col := int(core.Clamp(p.X, 0, c.width-1e-9) / sw)
	row := int(core.Clamp(p.Y, 0, c.height-1e-9) / sh)
	if col >= c.cfg.SectorCols {
		col = c.cfg.SectorCols - 1
	}
	if row >= c.cfg.SectorRows {
		row = c.cfg.SectorRows - 1
	}
	return row*c.cfg.SectorCols + col
}

// Analyze rebuilds every sector from the supplied snapshots. Turrets of
// other factions are ignored. A turret adds its full DPS to its own
// sector and a half-weight, distance-scaled share to every other sector
// whose center lies inside its range, modeling overlapping cover.
func (c *CoverageAnalyzer) Analyze(turrets []core.Turret, threats []core.ThreatVector) *CoverageMap {
	for i := range c.sectors {
		c.sectors[i].TurretCount = 0
		c.sectors[i].TotalDPS = 0
		c.sectors[i].EnemyCount = 0
		c.sectors[i].ThreatLevel = 0
	}

	for _, turret := range turrets {
		if turret.Faction != c.cfg.DefendingFaction {
			continue
		}
		dps := turret.DPS()
		home := c.sectorIndexAt(turret.Position)
		c.sectors[home].TurretCount++
		c.sectors[home].TotalDPS += dps

		if turret.Range <= 0 {
			continue
		}
		for i := range c.sectors {
			if i == home {
				continue
			}
			distance := c.sectors[i].Center().DistanceTo(turret.Position)
			if distance <= turret.Range {
				c.sectors[i].TotalDPS += dps * (1 - distance/turret.Range) * 0.5
			}
		}
	}

	for _, threat := range threats {
		index := c.sectorIndexAt(threat.Position)
		c.sectors[index].EnemyCount++
		c.sectors[index].ThreatLevel += threat.ThreatLevel
	}

	covered := 0
	for i := range c.sectors {
		if c.sectors[i].TotalDPS > 0 {
			covered++
		}
	}

	snapshot := make([]Sector, len(c.sectors))
	copy(snapshot, c.sectors)

	return &CoverageMap{
		Sectors:       snapshot,
		TotalCoverage: float64(covered) / float64(len(c.sectors)),
		WeakestSector: c.FindWeakestSector(),
	}
}

// FindWeakestSector returns the index of the sector with the lowest
// TotalDPS as of the last Analyze. Ties resolve to the first index.
func (c *CoverageAnalyzer) FindWeakestSector() int {
	weakest := 0
	for i := range c.sectors {
		if c.sectors[i].TotalDPS < c.sectors[weakest].TotalDPS {
			weakest = i
		}
	}
	return weakest
}

// CoverageAt sums (1 - distance/range) over every defending turret
// whose range reaches (x, y): a continuous coverage metric independent
// of the sector grid.
func (c *CoverageAnalyzer) CoverageAt(x, y float64, turrets []core.Turret) float64 {
	point := core.Vector2D{X: x, Y: y}
	coverage := 0.0
	for _, turret := range turrets {
		if turret.Faction != c.cfg.DefendingFaction || turret.Range <= 0 {
			continue
		}
		distance := point.DistanceTo(turret.Position)
		if distance <= turret.Range {
			coverage += 1 - distance/turret.Range
		}
	}
	return coverage
}

// threatPathScore averages, over up to maxScoredThreats nearest threats,
// how directly the point sits on each threat's straight run at the KM.
func (c *CoverageAnalyzer) threatPathScore(point core.Vector2D, threats []core.ThreatVector, tolerance float64) float64 {
	if len(threats) == 0 || tolerance <= 0 {
		return 0
	}

	considered := nearestThreats(point, threats, maxScoredThreats)
	total := 0.0
	for _, threat := range considered {
		distToPath := core.PointSegmentDistance(point, threat.Position, c.center)
		if distToPath <= tolerance {
			total += (1 - distToPath/tolerance) * (threat.ThreatLevel / 100)
		}
	}
	return total / float64(len(considered))
}

// BestPositionInSector samples a 5x5 lattice of points inside the
// sector and scores each by traffic density, coverage redundancy, the
// defensive ring, and threat interception. Returns the winning point
// and score; ok is false for an invalid sector index. Ties keep the
// first point found.
func (c *CoverageAnalyzer) BestPositionInSector(sectorIndex int, turrets []core.Turret, threats []core.ThreatVector) (best core.Vector2D, bestScore float64, ok bool) {
	if sectorIndex < 0 || sectorIndex >= len(c.sectors) {
		return core.Vector2D{}, 0, false
	}
	sector := c.sectors[sectorIndex]

	stepX := sector.Width / float64(sectorSampleEdge+1)
	stepY := sector.Height / float64(sectorSampleEdge+1)

	bestScore = math.Inf(-1)
	for sy := 1; sy <= sectorSampleEdge; sy++ {
		for sx := 1; sx <= sectorSampleEdge; sx++ {
			point := core.Vector2D{
				X: sector.X + float64(sx)*stepX,
				Y: sector.Y + float64(sy)*stepY,
			}

			score := c.traffic.TrafficAt(point.X, point.Y) * trafficWeight
			score -= c.CoverageAt(point.X, point.Y, turrets) * coverageWeight

			distFromCenter := point.DistanceTo(c.center)
			ring := 1 - math.Abs(distFromCenter-c.cfg.OptimalRadius)/ringFalloff
			score += ring * ringWeight * c.cfg.DefenseWeight

			if len(threats) > 0 {
				score += c.threatPathScore(point, threats, c.cfg.ThreatPathTolerance) *
					interceptWeight * c.cfg.InterceptWeight
			}

			if score > bestScore {
				bestScore = score
				best = point
			}
		}
	}
	return best, bestScore, true
}

// nearestThreats returns up to limit threats closest to point, by
// selection over a copied slice so caller snapshots are never reordered.
func nearestThreats(point core.Vector2D, threats []core.ThreatVector, limit int) []core.ThreatVector {
	if len(threats) <= limit {
		return threats
	}
	sorted := make([]core.ThreatVector, len(threats))
	copy(sorted, threats)
	// Partial selection sort: only the first limit slots matter
	for i := 0; i < limit; i++ {
		nearest := i
		for j := i + 1; j < len(sorted); j++ {
			if point.DistanceTo(sorted[j].Position) < point.DistanceTo(sorted[nearest].Position) {
				nearest = j
			}
		}
		sorted[i], sorted[nearest] = sorted[nearest], sorted[i]
	}
	return sorted[:limit]
}
