package config

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/hex-cadence/internal/combat"
)

//go:embed defaults/*.yaml
var defaultFiles embed.FS

// ErrUnknownArchetype is returned when a unit names an archetype that is not
// defined.
var ErrUnknownArchetype = errors.New("unknown archetype")

// Archetype is a unit template: a stat sheet with level curves, the unit
// type and the equipment it carries.
type Archetype struct {
	Type      string             `yaml:"type"`
	Sheet     combat.StatSheet   `yaml:",inline"`
	Equipment []combat.Equipment `yaml:"equipment"`
}

// Stats resolves the archetype at level.
func (a Archetype) Stats(level int) combat.Stats {
	sheet := a.Sheet
	sheet.Type = combat.ParseUnitType(a.Type)
	return combat.FinalStats(sheet, max(1, level), a.Equipment)
}

// Archetypes maps archetype names to templates.
type Archetypes map[string]Archetype

// Stats resolves a named archetype at level.
func (as Archetypes) Stats(name string, level int) (combat.Stats, error) {
	a, ok := as[name]
	if !ok {
		return combat.Stats{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
	return a.Stats(level), nil
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

func loadDefaultYAML(name string, out any) error {
	b, err := defaultFiles.ReadFile("defaults/" + name)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// DefaultArchetypes returns the compiled-in archetypes.
func DefaultArchetypes() (Archetypes, error) {
	as := Archetypes{}
	if err := loadDefaultYAML("archetypes.yaml", &as); err != nil {
		return nil, fmt.Errorf("parsing built-in archetypes: %w", err)
	}
	return as, nil
}

// LoadArchetypes returns the built-in archetypes overlaid with the ones
// defined in path. An empty path returns the built-ins.
func LoadArchetypes(path string) (Archetypes, error) {
	as, err := DefaultArchetypes()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return as, nil
	}
	var extra Archetypes
	if err := loadYAML(path, &extra); err != nil {
		return nil, fmt.Errorf("loading archetypes %s: %w", path, err)
	}
	for name, a := range extra {
		as[name] = a
	}
	return as, nil
}
