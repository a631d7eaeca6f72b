// Package tactical is the public face of the Kobayashi Maru spatial
// awareness core. An Engine bundles the traffic analyzer, influence
// map, coverage analyzer, and path interceptor behind the narrow
// surface the autoplay decision loop consumes: scalar lookups, sector
// coverage snapshots, and ranked placement candidates.
package tactical

import (
	"log/slog"
	"time"

	"github.com/chayuto/kobayashi-maru-sub004/internal/core"
	"github.com/chayuto/kobayashi-maru-sub004/internal/defense"
	"github.com/chayuto/kobayashi-maru-sub004/internal/grid"
	"github.com/chayuto/kobayashi-maru-sub004/internal/influence"
	"github.com/chayuto/kobayashi-maru-sub004/internal/pathfinding"
)

// InterceptionConfig constrains the interception point search
type InterceptionConfig = defense.InterceptionConfig

// InterceptionPoint is a scored candidate placement location
type InterceptionPoint = defense.InterceptionPoint

// ChokePoint is a cell where converging flow concentrates traffic
type ChokePoint = defense.ChokePoint

// CoverageMap is the per-sector defense-strength snapshot
type CoverageMap = defense.CoverageMap

// Engine owns one instance of every analysis component over a shared
// arena. All fields are rebuilt on demand from caller-supplied
// snapshots; nothing is persisted between invocations.
type Engine struct {
	cfg *Config
	log *slog.Logger

	traffic     *pathfinding.TrafficAnalyzer
	influence   *influence.Map
	coverage    *defense.CoverageAnalyzer
	interceptor *defense.PathInterceptor
}

// NewEngine creates an engine from cfg. A nil cfg uses DefaultConfig,
// a nil logger uses slog.Default.
func NewEngine(cfg *Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.applyDefaults()
	}
	if logger == nil {
		logger = slog.Default()
	}

	traffic := pathfinding.NewTrafficAnalyzer(
		cfg.WorldWidth, cfg.WorldHeight, cfg.CellSize, cfg.HighTrafficThreshold)

	coverageCfg := defense.CoverageConfig{
		SectorCols:          cfg.SectorCols,
		SectorRows:          cfg.SectorRows,
		OptimalRadius:       cfg.OptimalDefenseRadius,
		DefenseWeight:       cfg.DefenseWeight,
		InterceptWeight:     cfg.InterceptWeight,
		ThreatPathTolerance: cfg.ThreatPathTolerance,
		DefendingFaction:    core.FactionDefender,
	}

	return &Engine{
		cfg:         cfg,
		log:         logger,
		traffic:     traffic,
		influence:   influence.NewMap(traffic.Grid()),
		coverage:    defense.NewCoverageAnalyzer(cfg.WorldWidth, cfg.WorldHeight, coverageCfg, traffic),
		interceptor: defense.NewPathInterceptor(traffic),
	}
}

// Config returns a copy of the engine's configuration
func (e *Engine) Config() Config { return *e.cfg }

// Center returns the Kobayashi Maru position at the arena center
func (e *Engine) Center() core.Vector2D { return e.traffic.Center() }

// Terrain and traffic

// SetTraversalCost raises or lowers the pathing cost of the cell at a
// world position. Use grid.Impassable (255) for hard obstacles. Traffic
// data is stale until the next RebuildTraffic.
func (e *Engine) SetTraversalCost(x, y float64, cost uint8) {
	e.traffic.SetCostAt(x, y, cost)
}

// MarkObstacle marks the cell at a world position impassable
func (e *Engine) MarkObstacle(x, y float64) {
	e.traffic.SetCostAt(x, y, grid.Impassable)
}

// ClearObstacles restores uniform traversal costs
func (e *Engine) ClearObstacles() {
	e.traffic.ResetCosts()
}

// RebuildTraffic regenerates the center-bound flow field and the
// traffic density derived from it.
func (e *Engine) RebuildTraffic() {
	start := time.Now()
	e.traffic.GenerateToCenter()
	e.traffic.Analyze()
	e.log.Debug("traffic field rebuilt",
		"cells", e.traffic.Grid().Size(),
		"elapsed", time.Since(start))
}

// TrafficAt returns the normalized traffic density in [0,1] at a world
// position.
func (e *Engine) TrafficAt(x, y float64) float64 {
	e.ensureTraffic()
	return e.traffic.TrafficAt(x, y)
}

// FlowDirection returns the center-bound flow vector at a world
// position.
func (e *Engine) FlowDirection(x, y float64) core.Vector2D {
	e.ensureTraffic()
	return e.traffic.Direction(x, y)
}

// HighTrafficCells returns up to limit cell indices at or above
// minDensity, densest first.
func (e *Engine) HighTrafficCells(limit int, minDensity float64) []int {
	e.ensureTraffic()
	return e.traffic.HighTrafficCells(limit, minDensity)
}

func (e *Engine) ensureTraffic() {
	if !e.traffic.Analyzed() {
		e.RebuildTraffic()
	}
}

// Influence

// AddInfluence applies a decaying point source to the influence map
func (e *Engine) AddInfluence(source influence.Source) {
	e.influence.AddSource(source)
}

// ClearInfluence zeroes the influence map
func (e *Engine) ClearInfluence() {
	e.influence.Clear()
}

// DecayInfluence multiplies the whole field by rate, draining stale
// pressure out of it.
func (e *Engine) DecayInfluence(rate float64) {
	e.influence.Decay(rate)
}

// InfluenceAt returns the accumulated influence of the cell containing
// a world position.
func (e *Engine) InfluenceAt(x, y float64) float64 {
	return e.influence.Value(x, y)
}

// InterpolatedInfluenceAt returns a bilinear interpolation of the
// influence field, for smooth continuous scoring.
func (e *Engine) InterpolatedInfluenceAt(x, y float64) float64 {
	return e.influence.InterpolatedValue(x, y)
}

// InfluencePeaks returns local maxima above threshold, strongest first
func (e *Engine) InfluencePeaks(threshold float64) []influence.Extremum {
	return e.influence.Peaks(threshold)
}

// InfluenceMaximum returns the strongest cell of the influence field
func (e *Engine) InfluenceMaximum() influence.Extremum {
	return e.influence.Maximum()
}

// InfluenceMinimum returns the weakest cell of the influence field
func (e *Engine) InfluenceMinimum() influence.Extremum {
	return e.influence.Minimum()
}

// Coverage and interception

// AnalyzeCoverage rebuilds the sector coverage model from the supplied
// turret and threat snapshots.
func (e *Engine) AnalyzeCoverage(turrets []core.Turret, threats []core.ThreatVector) *CoverageMap {
	e.ensureTraffic()
	start := time.Now()
	coverage := e.coverage.Analyze(turrets, threats)
	e.log.Debug("coverage analyzed",
		"turrets", len(turrets),
		"threats", len(threats),
		"total_coverage", coverage.TotalCoverage,
		"weakest_sector", coverage.WeakestSector,
		"elapsed", time.Since(start))
	return coverage
}

// CoverageAt returns the continuous turret coverage at a world
// position, independent of the sector grid.
func (e *Engine) CoverageAt(x, y float64, turrets []core.Turret) float64 {
	return e.coverage.CoverageAt(x, y, turrets)
}

// BestPositionInSector scores a 5x5 sample lattice inside the sector
// and returns the winning point. ok is false for invalid indices.
func (e *Engine) BestPositionInSector(sectorIndex int, turrets []core.Turret, threats []core.ThreatVector) (core.Vector2D, float64, bool) {
	e.ensureTraffic()
	return e.coverage.BestPositionInSector(sectorIndex, turrets, threats)
}

// FindInterceptionPoints returns candidate placement points that cut
// the hostile approach lanes, best first.
func (e *Engine) FindInterceptionPoints(cfg InterceptionConfig, threats []core.ThreatVector, turretPositions []core.Vector2D) []InterceptionPoint {
	e.ensureTraffic()
	points := e.interceptor.FindInterceptionPoints(cfg, threats, turretPositions)
	e.log.Debug("interception search",
		"threats", len(threats),
		"candidates", len(points))
	return points
}

// FindChokePoints returns up to ten traffic choke points near the KM,
// densest first.
func (e *Engine) FindChokePoints(limit int) []ChokePoint {
	e.ensureTraffic()
	return e.interceptor.FindChokePoints(limit)
}
