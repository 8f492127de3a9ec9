// Package layout turns width-relative ratio tables into pixel geometry for
// one deck export image.
package layout

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Profile is a ratio table. Every value is a fraction of the image width;
// deck exports scale with width, so height is never a sizing base.
type Profile struct {
	Name string `yaml:"name"`

	LabelX      float64 `yaml:"label_x"`
	LabelY      float64 `yaml:"label_y"`
	LabelWidth  float64 `yaml:"label_width"`
	LabelHeight float64 `yaml:"label_height"`

	LabelToGrid float64 `yaml:"label_to_grid"`
	SectionGap  float64 `yaml:"section_gap"`

	LeftMargin     float64 `yaml:"left_margin"`
	CardWidth      float64 `yaml:"card_width"`
	CardGap        float64 `yaml:"card_gap"`
	FirstRowOffset float64 `yaml:"first_row_offset"`
	SliceMargin    float64 `yaml:"slice_margin"`

	// Retry window: shifted left/up and enlarged after a first OCR miss.
	RetryShiftX float64 `yaml:"retry_shift_x"`
	RetryShiftY float64 `yaml:"retry_shift_y"`
	RetryGrowX  float64 `yaml:"retry_grow_x"`
	RetryGrowY  float64 `yaml:"retry_grow_y"`
}

const (
	Compact   = "compact"
	WideLabel = "wide-label"
	Default   = Compact
)

// Both tables are tuned against real exports; do not merge them.
var builtin = map[string]Profile{
	Compact: {
		Name:           Compact,
		LabelX:         0.030,
		LabelY:         0.085,
		LabelWidth:     0.300,
		LabelHeight:    0.045,
		LabelToGrid:    0.040,
		SectionGap:     0.030,
		LeftMargin:     0.023,
		CardWidth:      0.0885,
		CardGap:        0.0075,
		FirstRowOffset: 0.002,
		SliceMargin:    0.004,
		RetryShiftX:    0.010,
		RetryShiftY:    0.010,
		RetryGrowX:     0.30,
		RetryGrowY:     0.50,
	},
	WideLabel: {
		Name:           WideLabel,
		LabelX:         0.020,
		LabelY:         0.090,
		LabelWidth:     0.400,
		LabelHeight:    0.050,
		LabelToGrid:    0.045,
		SectionGap:     0.035,
		LeftMargin:     0.025,
		CardWidth:      0.0880,
		CardGap:        0.0078,
		FirstRowOffset: 0.003,
		SliceMargin:    0.005,
		RetryShiftX:    0.012,
		RetryShiftY:    0.012,
		RetryGrowX:     0.25,
		RetryGrowY:     0.60,
	},
}

// Lookup returns a built-in profile by name.
func Lookup(name string) (Profile, error) {
	if name == "" {
		name = Default
	}
	p, ok := builtin[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown layout profile %q", name)
	}
	return p, nil
}

// Names lists the built-in profile names.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for n := range builtin {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Validate checks that the ratios describe a drawable layout.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if p.CardWidth <= 0 || p.LabelWidth <= 0 || p.LabelHeight <= 0 {
		return fmt.Errorf("profile %s: card and label sizes must be positive", p.Name)
	}
	if row := p.LeftMargin + 10*p.CardWidth + 9*p.CardGap; row > 1 {
		return fmt.Errorf("profile %s: a row of cards spans %.3f of the width", p.Name, row)
	}
	return nil
}

// Registry resolves profile names against the built-ins plus any loaded files.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry returns a registry holding copies of the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: map[string]Profile{}}
	for n, p := range builtin {
		r.profiles[n] = p
	}
	return r
}

// Get resolves name, with "" meaning the default profile.
func (r *Registry) Get(name string) (Profile, error) {
	if name == "" {
		name = Default
	}
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown layout profile %q", name)
	}
	return p, nil
}

type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles parses a YAML file of extra profiles into the registry.
// A file profile with a built-in name shadows it in this registry only.
func (r *Registry) LoadProfiles(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading profiles %s: %w", path, err)
	}
	return r.parse(data)
}

func (r *Registry) parse(data []byte) error {
	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parsing profiles: %w", err)
	}
	for _, p := range pf.Profiles {
		if err := p.Validate(); err != nil {
			return err
		}
		r.profiles[p.Name] = p
	}
	return nil
}
