package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Garsondee/hex-cadence/internal/capture"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/game"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// ErrInvalidScenario is returned for scenarios that cannot be set up.
var ErrInvalidScenario = errors.New("invalid scenario")

// BuiltinScenarios lists the scenario names compiled into the binary.
var BuiltinScenarios = []string{"skirmish", "siege"}

// BuildingDoc places a building.
type BuildingDoc struct {
	Name              string          `yaml:"name"`
	Team              string          `yaml:"team"`
	Tile              hexgrid.TilePos `yaml:"tile"`
	Health            int             `yaml:"health"`
	Defense           int             `yaml:"defense"`
	Capturable        bool            `yaml:"capturable"`
	BeatsToCapture    int             `yaml:"beatsToCapture"`
	BossDamagePercent float64         `yaml:"bossDamagePercent"`
}

// UnitDoc places a unit. Behavior is one of idle, ally, enemy or boss.
// Target is the ally's banner, the enemy's fallback or the boss's
// destination.
type UnitDoc struct {
	Label     string           `yaml:"label"`
	Team      string           `yaml:"team"`
	Archetype string           `yaml:"archetype"`
	Level     int              `yaml:"level"`
	Tile      hexgrid.TilePos  `yaml:"tile"`
	Behavior  string           `yaml:"behavior"`
	Target    *hexgrid.TilePos `yaml:"target"`
}

// Scenario is a battlefield: map size, terrain, buildings and units.
type Scenario struct {
	Name      string            `yaml:"name"`
	Cols      int               `yaml:"cols"`
	Rows      int               `yaml:"rows"`
	Mountains []hexgrid.TilePos `yaml:"mountains"`
	Water     []hexgrid.TilePos `yaml:"water"`
	Buildings []BuildingDoc     `yaml:"buildings"`
	Units     []UnitDoc         `yaml:"units"`
}

// LoadScenario returns a built-in scenario by name, or parses ref as a YAML
// file path.
func LoadScenario(ref string) (*Scenario, error) {
	var sc Scenario
	if slices.Contains(BuiltinScenarios, ref) {
		if err := loadDefaultYAML(ref+".yaml", &sc); err != nil {
			return nil, fmt.Errorf("parsing built-in scenario %s: %w", ref, err)
		}
	} else if err := loadYAML(ref, &sc); err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", ref, err)
	}
	if sc.Name == "" {
		sc.Name = ref
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the map size, that every placement is on the map and that
// behaviours are known.
func (sc *Scenario) Validate() error {
	if sc.Cols <= 0 || sc.Rows <= 0 {
		return fmt.Errorf("%w: %s has size %dx%d", ErrInvalidScenario, sc.Name, sc.Cols, sc.Rows)
	}
	in := func(p hexgrid.TilePos) bool {
		return p.Col >= 0 && p.Col < sc.Cols && p.Row >= 0 && p.Row < sc.Rows
	}
	for _, p := range append(slices.Clone(sc.Mountains), sc.Water...) {
		if !in(p) {
			return fmt.Errorf("%w: terrain %s off the map", ErrInvalidScenario, p)
		}
	}
	for _, b := range sc.Buildings {
		if !in(b.Tile) {
			return fmt.Errorf("%w: building %q at %s off the map", ErrInvalidScenario, b.Name, b.Tile)
		}
	}
	for _, u := range sc.Units {
		if !in(u.Tile) {
			return fmt.Errorf("%w: unit %q at %s off the map", ErrInvalidScenario, u.Label, u.Tile)
		}
		switch u.Behavior {
		case "", "idle", "ally", "enemy":
		case "boss":
			if u.Target == nil {
				return fmt.Errorf("%w: boss %q has no target", ErrInvalidScenario, u.Label)
			}
		default:
			return fmt.Errorf("%w: unit %q has unknown behavior %q", ErrInvalidScenario, u.Label, u.Behavior)
		}
	}
	return nil
}

func (b BuildingDoc) spec() capture.Spec {
	return capture.Spec{
		Name:              b.Name,
		Team:              faction.Parse(b.Team),
		Tile:              b.Tile,
		Health:            b.Health,
		Defense:           b.Defense,
		Capturable:        b.Capturable,
		BeatsToCapture:    b.BeatsToCapture,
		BossDamagePercent: b.BossDamagePercent,
	}
}

// behavior builds the strategy bundle for a unit.
func (u UnitDoc) behavior(cfg game.SimConfig) game.Behavior {
	switch u.Behavior {
	case "ally":
		dest := u.Tile
		if u.Target != nil {
			dest = *u.Target
		}
		return game.Behavior{Targeting: game.FixedTarget{Tile: dest}, Capture: game.CaptureNearby{}}
	case "enemy":
		seek := game.SeekTarget{}
		if u.Target != nil {
			seek.Fallback, seek.HasFallback = *u.Target, true
		}
		return game.Behavior{Targeting: seek, Capture: game.CaptureNearby{}}
	case "boss":
		return game.NewBoss(cfg, *u.Target)
	default:
		return game.Behavior{}
	}
}

// SpawnSpecs resolves every unit against the archetypes.
func (sc *Scenario) SpawnSpecs(cfg game.SimConfig, as Archetypes) ([]game.SpawnSpec, error) {
	specs := make([]game.SpawnSpec, 0, len(sc.Units))
	for _, u := range sc.Units {
		name := u.Archetype
		if name == "" {
			name = "infantry"
		}
		level := max(1, u.Level)
		stats, err := as.Stats(name, level)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", u.Label, err)
		}
		specs = append(specs, game.SpawnSpec{
			Label:    u.Label,
			Team:     faction.Parse(u.Team),
			Level:    level,
			Stats:    stats,
			Tile:     u.Tile,
			Behavior: u.behavior(cfg),
		})
	}
	return specs, nil
}

// Terrain applies terrain and buildings to a fresh simulation.
func (sc *Scenario) Terrain(s *game.Sim) error {
	for _, p := range sc.Mountains {
		s.Grid.SetKind(p, hexgrid.TileMountain)
	}
	for _, p := range sc.Water {
		s.Grid.SetKind(p, hexgrid.TileWater)
	}
	for _, b := range sc.Buildings {
		if _, err := s.AddBuilding(b.spec()); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	return nil
}

// Populate spawns the scenario's units in listed order.
func (sc *Scenario) Populate(s *game.Sim, as Archetypes) error {
	specs, err := sc.SpawnSpecs(s.Config(), as)
	if err != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	for _, spec := range specs {
		s.Spawn(spec)
	}
	return nil
}

// Options expresses the scenario as headless harness options.
func (sc *Scenario) Options(cfg game.SimConfig, as Archetypes) ([]game.SimOption, error) {
	specs, err := sc.SpawnSpecs(cfg, as)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	opts := []game.SimOption{
		game.WithGridSize(sc.Cols, sc.Rows),
		game.WithConfig(cfg),
		game.WithTerrain(hexgrid.TileMountain, sc.Mountains...),
		game.WithTerrain(hexgrid.TileWater, sc.Water...),
	}
	for _, b := range sc.Buildings {
		opts = append(opts, game.WithBuilding(b.spec()))
	}
	for _, spec := range specs {
		opts = append(opts, game.WithActor(spec))
	}
	return opts, nil
}
