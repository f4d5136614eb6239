package board

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/rshade/carbonchallenge/internal/catalog"
	"github.com/rshade/carbonchallenge/internal/logging"
)

// Scenario is a set of option edits to replay onto a freshly seeded board.
//
// Example:
//
//	tiles:
//	  - id: 13
//	    options:
//	      freightRoadTransport:
//	        policy: factoryElectricFreightRequirement2050
//	      energyIndustry:
//	        target: 60
//	        target_year: 2045
type Scenario struct {
	Tiles []TileEdit `yaml:"tiles"`
}

// TileEdit lists the option edits for one tile.
type TileEdit struct {
	ID      int                               `yaml:"id"`
	Options map[catalog.OptionType]OptionEdit `yaml:"options"`
}

// OptionEdit is one option's edit. Policy is applied first; Target and
// TargetYear then switch the option to custom; Current needs magic mode.
type OptionEdit struct {
	Policy     catalog.PolicyKey `yaml:"policy,omitempty"`
	Target     *float64          `yaml:"target,omitempty"`
	TargetYear *int              `yaml:"target_year,omitempty"`
	Current    *float64          `yaml:"current,omitempty"`
}

//go:embed scenario.schema.json
var scenarioSchemaJSON string

var (
	scenarioSchemaOnce sync.Once
	scenarioSchema     *jsonschema.Schema
	scenarioSchemaErr  error
)

func compiledScenarioSchema() (*jsonschema.Schema, error) {
	scenarioSchemaOnce.Do(func() {
		scenarioSchema, scenarioSchemaErr = jsonschema.CompileString("scenario.schema.json", scenarioSchemaJSON)
	})
	return scenarioSchema, scenarioSchemaErr
}

// validateScenarioShape checks a raw document against the scenario schema.
// An empty document is valid.
func validateScenarioShape(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing scenario: %w", err)
	}
	if doc == nil {
		return nil
	}

	// The validator only understands JSON value types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	var value any
	if err = json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	schema, err := compiledScenarioSchema()
	if err != nil {
		return fmt.Errorf("compiling scenario schema: %w", err)
	}
	if err = schema.Validate(value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return nil
}

// LoadScenario parses a scenario document. The document is checked against
// the embedded JSON schema first, then decoded with unknown keys rejected.
func LoadScenario(r io.Reader) (*Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	if err = validateScenarioShape(data); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err = dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &Scenario{}, nil
		}
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &s, nil
}

// LoadScenarioFile reads a scenario from disk.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return LoadScenario(f)
}

// ApplyScenario replays every edit in s through the board's editing rules.
// It stops at the first rejected edit.
func (b *Board) ApplyScenario(ctx context.Context, s *Scenario) error {
	if s == nil {
		return nil
	}
	log := logging.FromContext(ctx)

	edits := 0
	for _, te := range s.Tiles {
		// Deterministic order so the first error reported is stable.
		keys := make([]catalog.OptionType, 0, len(te.Options))
		for k := range te.Options {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		for _, optionType := range keys {
			if err := b.applyEdit(ctx, te.ID, optionType, te.Options[optionType]); err != nil {
				return fmt.Errorf("tile %d option %s: %w", te.ID, optionType, err)
			}
			edits++
		}
	}

	log.Debug().Ctx(ctx).
		Str("component", "board").
		Str("operation", "apply_scenario").
		Int("tiles", len(s.Tiles)).
		Int("edits", edits).
		Msg("scenario applied")
	return nil
}

func (b *Board) applyEdit(ctx context.Context, tileID int, optionType catalog.OptionType, e OptionEdit) error {
	if e.Policy != "" {
		if err := b.ApplyPolicy(ctx, tileID, optionType, e.Policy); err != nil {
			return err
		}
	}
	if e.Target != nil {
		if err := b.SetTarget(tileID, optionType, *e.Target); err != nil {
			return err
		}
	}
	if e.TargetYear != nil {
		if err := b.SetTargetYear(tileID, optionType, *e.TargetYear); err != nil {
			return err
		}
	}
	if e.Current != nil {
		if err := b.SetCurrent(tileID, optionType, *e.Current); err != nil {
			return err
		}
	}
	return nil
}
