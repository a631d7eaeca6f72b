package defense

import (
	"math"
	"sort"

	"github.com/chayuto/kobayashi-maru-sub004/internal/core"
	"github.com/chayuto/kobayashi-maru-sub004/internal/pathfinding"
)

// MinTurretSpacing is the hard minimum distance between a candidate
// point and any existing turret.
const MinTurretSpacing = 64.0

const (
	maxChokePoints      = 10
	candidateLimit      = 256
	candidateMinDensity = 0.02
	chokeMinDensity     = 0.05
)

// InterceptionConfig constrains the candidate search. Distances are
// measured from the Kobayashi Maru at the arena center.
type InterceptionConfig struct {
	TurretRange       float64
	MinDwellTime      float64 // Seconds a threat must linger inside TurretRange
	MinDistanceFromKM float64
	MaxDistanceFromKM float64
}

// InterceptionPoint is a scored candidate placement location
type InterceptionPoint struct {
	Position core.Vector2D
	Score    float64
}

// ChokePoint is a cell where converging flow concentrates traffic
type ChokePoint struct {
	Position core.Vector2D
	Density  float64
}

// PathInterceptor searches the traffic field for placement points that
// cut across the likely hostile approach lanes.
type PathInterceptor struct {
	traffic *pathfinding.TrafficAnalyzer
}

// NewPathInterceptor creates an interceptor over an analyzed traffic
// field.
func NewPathInterceptor(traffic *pathfinding.TrafficAnalyzer) *PathInterceptor {
	return &PathInterceptor{traffic: traffic}
}

// dwellTime estimates how long a threat moving in a straight line at
// its current speed stays inside radius of a point whose perpendicular
// distance to the threat's path is distToPath. A stationary threat
// dwells forever.
func dwellTime(threat core.ThreatVector, distToPath, radius float64) float64 {
	if distToPath > radius {
		return 0
	}
	speed := threat.Velocity.Length()
	if speed == 0 {
		return math.Inf(1)
	}
	chord := 2 * math.Sqrt(radius*radius-distToPath*distToPath)
	return chord / speed
}

// threatScore averages the interception value of the point against up
// to maxScoredThreats nearest threats. A threat only counts if the
// point can keep it inside TurretRange for at least MinDwellTime along
// its straight run at the KM.
func (p *PathInterceptor) threatScore(point core.Vector2D, cfg InterceptionConfig, threats []core.ThreatVector) float64 {
	if len(threats) == 0 || cfg.TurretRange <= 0 {
		return 0
	}

	center := p.traffic.Center()
	considered := nearestThreats(point, threats, maxScoredThreats)
	total := 0.0
	for _, threat := range considered {
		distToPath := core.PointSegmentDistance(point, threat.Position, center)
		if distToPath > cfg.TurretRange {
			continue
		}
		if dwellTime(threat, distToPath, cfg.TurretRange) < cfg.MinDwellTime {
			continue
		}
		total += (1 - distToPath/cfg.TurretRange) * (threat.ThreatLevel / 100)
	}
	return total / float64(len(considered))
}

// FindInterceptionPoints generates candidates from the high-traffic
// cells, filters them by the distance ring around the KM and by turret
// spacing, scores the survivors, and returns them sorted non-increasing
// by score.
func (p *PathInterceptor) FindInterceptionPoints(cfg InterceptionConfig, threats []core.ThreatVector, turretPositions []core.Vector2D) []InterceptionPoint {
	if !p.traffic.Analyzed() {
		p.traffic.Analyze()
	}

	center := p.traffic.Center()
	grid := p.traffic.Grid()

	var points []InterceptionPoint
	for _, index := range p.traffic.HighTrafficCells(candidateLimit, candidateMinDensity) {
		point := grid.CellCenter(index)

		distFromKM := point.DistanceTo(center)
		if distFromKM < cfg.MinDistanceFromKM || distFromKM > cfg.MaxDistanceFromKM {
			continue
		}

		tooClose := false
		for _, turret := range turretPositions {
			if point.DistanceTo(turret) < MinTurretSpacing {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		score := p.traffic.DensityAt(index)*trafficWeight +
			p.threatScore(point, cfg, threats)*interceptWeight
		points = append(points, InterceptionPoint{Position: point, Score: score})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Score > points[j].Score
	})
	return points
}

// FindChokePoints returns up to ten cells whose density stands out from
// their neighborhood, biased toward the KM where converging approach
// lanes concentrate flow. Sorted descending by density.
func (p *PathInterceptor) FindChokePoints(limit int) []ChokePoint {
	if !p.traffic.Analyzed() {
		p.traffic.Analyze()
	}
	if limit <= 0 || limit > maxChokePoints {
		limit = maxChokePoints
	}

	g := p.traffic.Grid()
	center := p.traffic.Center()
	maxDist := math.Sqrt(g.Width()*g.Width()+g.Height()*g.Height()) / 2
	cols := g.Cols()
	rows := g.Rows()

	type candidate struct {
		point   ChokePoint
		ranking float64
	}
	var candidates []candidate

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			index := row*cols + col
			density := p.traffic.DensityAt(index)
			if density < chokeMinDensity {
				continue
			}

			// Locally maximal relative to the neighborhood average:
			// a corridor cell stands above its off-corridor flanks
			// even when the next cell downstream is denser
			neighborSum := 0.0
			neighborCount := 0
			for _, off := range [4][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}} {
				nc := col + off[0]
				nr := row + off[1]
				if nc < 0 || nc >= cols || nr < 0 || nr >= rows {
					continue
				}
				neighborSum += p.traffic.DensityAt(nr*cols + nc)
				neighborCount++
			}
			if neighborCount == 0 || density <= neighborSum/float64(neighborCount) {
				continue
			}

			point := g.CellCenter(index)
			bias := 1 - point.DistanceTo(center)/maxDist
			if bias < 0 {
				bias = 0
			}
			candidates = append(candidates, candidate{
				point:   ChokePoint{Position: point, Density: density},
				ranking: density * bias,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ranking > candidates[j].ranking
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	points := make([]ChokePoint, len(candidates))
	for i, c := range candidates {
		points[i] = c.point
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Density > points[j].Density
	})
	return points
}
