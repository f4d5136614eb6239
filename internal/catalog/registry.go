package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the semver constraint a catalog document must satisfy.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Percent bounds for weights and policy targets.
const (
	minPercent = 0.0
	maxPercent = 100.0
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// document mirrors the on-disk YAML layout.
type document struct {
	Version     string                                `yaml:"version"`
	HorizonYear int                                   `yaml:"horizon_year"`
	Tiles       map[TileType]map[OptionType]optionDoc `yaml:"tiles"`
}

type optionDoc struct {
	WeightPrcnt       *float64 `yaml:"weight_prcnt"`
	MaxCO2Sequestered *float64 `yaml:"max_co2_sequestered"`
	Policies          []Policy `yaml:"policies"`
}

// Registry is the immutable sector catalog. It is safe for concurrent use.
type Registry struct {
	version     *semver.Version
	horizonYear int
	options     map[TileType]map[OptionType]OptionTemplate
}

var (
	defaultOnce     sync.Once //nolint:gochecknoglobals // Built once from embedded data.
	defaultRegistry *Registry //nolint:gochecknoglobals // Built once from embedded data.
	errDefault      error     //nolint:gochecknoglobals // Built once from embedded data.
)

// Default returns the registry built from the embedded catalog.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, errDefault = Load(bytes.NewReader(defaultCatalogYAML))
	})
	return defaultRegistry, errDefault
}

// Load parses and validates a catalog document. Unknown YAML keys are rejected.
func Load(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog document is empty")
		}
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return build(doc)
}

func build(doc document) (*Registry, error) {
	version, err := checkVersion(doc.Version)
	if err != nil {
		return nil, err
	}
	if doc.HorizonYear <= 0 {
		return nil, fmt.Errorf("catalog horizon_year must be positive, got %d", doc.HorizonYear)
	}

	reg := &Registry{
		version:     version,
		horizonYear: doc.HorizonYear,
		options:     make(map[TileType]map[OptionType]OptionTemplate, len(doc.Tiles)),
	}

	for tileType, opts := range doc.Tiles {
		if !tileType.IsKnown() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTileType, tileType)
		}
		if tileType.IsScenery() && len(opts) > 0 {
			return nil, fmt.Errorf("%w: %q", ErrSceneryOptions, tileType)
		}

		templates := make(map[OptionType]OptionTemplate, len(opts))
		for optionType, od := range opts {
			tmpl, buildErr := buildOption(tileType, optionType, od, doc.HorizonYear)
			if buildErr != nil {
				return nil, buildErr
			}
			templates[optionType] = tmpl
		}
		reg.options[tileType] = templates
	}

	return reg, nil
}

func checkVersion(raw string) (*semver.Version, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: version is required", ErrUnsupportedVersion)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, raw, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return nil, fmt.Errorf("parsing version constraint: %w", err)
	}
	if !constraint.Check(v) {
		return nil, fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, SupportedVersions)
	}
	return v, nil
}

func buildOption(tileType TileType, optionType OptionType, od optionDoc, horizon int) (OptionTemplate, error) {
	where := fmt.Sprintf("%s/%s", tileType, optionType)

	switch {
	case od.WeightPrcnt == nil && od.MaxCO2Sequestered == nil:
		return OptionTemplate{}, fmt.Errorf("%w: %s has neither weight_prcnt nor max_co2_sequestered",
			ErrInvalidWeight, where)
	case od.WeightPrcnt != nil && od.MaxCO2Sequestered != nil:
		return OptionTemplate{}, fmt.Errorf("%w: %s has both weight_prcnt and max_co2_sequestered",
			ErrInvalidWeight, where)
	case od.WeightPrcnt != nil && !inPercentRange(*od.WeightPrcnt):
		return OptionTemplate{}, fmt.Errorf("%w: %s weight_prcnt %v outside [0, 100]",
			ErrInvalidWeight, where, *od.WeightPrcnt)
	case od.MaxCO2Sequestered != nil &&
		(*od.MaxCO2Sequestered < 0 || math.IsInf(*od.MaxCO2Sequestered, 0) || math.IsNaN(*od.MaxCO2Sequestered)):
		return OptionTemplate{}, fmt.Errorf("%w: %s max_co2_sequestered %v must be a non-negative number",
			ErrInvalidWeight, where, *od.MaxCO2Sequestered)
	}

	policies := make([]Policy, 0, len(od.Policies)+2) //nolint:mnd // none + custom
	policies = append(policies, nonePolicy(horizon))

	seen := map[PolicyKey]bool{PolicyNone: true, PolicyCustom: true}
	for _, p := range od.Policies {
		if err := validatePolicy(where, p); err != nil {
			return OptionTemplate{}, err
		}
		if seen[p.Key] {
			return OptionTemplate{}, fmt.Errorf("%w: %s/%s", ErrDuplicatePolicy, where, p.Key)
		}
		seen[p.Key] = true
		policies = append(policies, p)
	}
	policies = append(policies, customPolicy())

	return OptionTemplate{
		TileType:          tileType,
		OptionType:        optionType,
		WeightPrcnt:       clonePtr(od.WeightPrcnt),
		MaxCO2Sequestered: clonePtr(od.MaxCO2Sequestered),
		Policies:          ClonePolicies(policies),
	}, nil
}

// validatePolicy checks catalog-authored policies. Missing target or
// targetYear is left for the preview calculator to report, since that is where
// the custom sentinel semantics are defined.
func validatePolicy(where string, p Policy) error {
	if p.Key == "" {
		return fmt.Errorf("%w: %s has a policy without a key", ErrInvalidPolicy, where)
	}
	if p.Key.IsSentinel() {
		return fmt.Errorf("%w: %s declares reserved policy %q", ErrInvalidPolicy, where, p.Key)
	}
	if p.Target != nil && !inPercentRange(*p.Target) {
		return fmt.Errorf("%w: %s/%s target %v outside [0, 100]", ErrInvalidPolicy, where, p.Key, *p.Target)
	}
	if p.IsMagic && p.TargetYear != nil {
		return fmt.Errorf("%w: %s/%s is magic and cannot set target_year", ErrInvalidPolicy, where, p.Key)
	}
	return nil
}

func nonePolicy(horizon int) Policy {
	target := 0.0
	return Policy{Key: PolicyNone, Target: &target, TargetYear: &horizon}
}

func customPolicy() Policy {
	return Policy{Key: PolicyCustom}
}

func inPercentRange(v float64) bool {
	return v >= minPercent && v <= maxPercent
}

// Version returns the catalog schema version.
func (r *Registry) Version() string {
	return r.version.String()
}

// HorizonYear returns the far-future year the catalog's none policy targets.
func (r *Registry) HorizonYear() int {
	return r.horizonYear
}

// TileTypes returns the tile types that carry options, in display order.
func (r *Registry) TileTypes() []TileType {
	out := make([]TileType, 0, len(r.options))
	for _, t := range AllTileTypes() {
		if len(r.options[t]) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Options returns copies of every option template of a tile type, sorted by
// option type. Scenery and unknown tile types return nil.
func (r *Registry) Options(tileType TileType) []OptionTemplate {
	opts := r.options[tileType]
	if len(opts) == 0 {
		return nil
	}

	out := make([]OptionTemplate, 0, len(opts))
	for _, tmpl := range opts {
		out = append(out, tmpl.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OptionType < out[j].OptionType })
	return out
}

// Option returns a copy of a single option template.
func (r *Registry) Option(tileType TileType, optionType OptionType) (OptionTemplate, bool) {
	tmpl, ok := r.options[tileType][optionType]
	if !ok {
		return OptionTemplate{}, false
	}
	return tmpl.clone(), true
}

// OptionCount returns the total number of options across all tile types.
func (r *Registry) OptionCount() int {
	n := 0
	for _, opts := range r.options {
		n += len(opts)
	}
	return n
}
