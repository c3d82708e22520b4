package preset

import (
	"errors"
	"fmt"
	"maps"

	"github.com/Carmen-Shannon/oxy-blob/common"
	"github.com/Carmen-Shannon/oxy-blob/engine/uniform"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrEmptyCatalog is returned when a catalog would hold no presets.
	ErrEmptyCatalog = errors.New("preset catalog is empty")
	// ErrInvalidPreset is returned for presets without a name or with a duplicate name.
	ErrInvalidPreset = errors.New("invalid preset")
)

// Preset is one named visual state of the blob.
type Preset struct {
	// Name is shown on the preset's label.
	Name string
	// Background is the scene clear color while the preset is current.
	Background colorful.Color
	// Texture names the gradient image used as the blob's color map, without extension.
	Texture string
	// Parameters are written into the uniform state when the preset becomes current.
	Parameters map[string]float64
}

// ApplyTo writes the preset's parameters into s.
func (p Preset) ApplyTo(s uniform.State) {
	s.ApplyPreset(p.Parameters)
}

// catalog is the implementation of the Catalog interface.
type catalog struct {
	presets []Preset
	index   map[string]int
}

// Catalog is the ordered, read-only list of presets. Indices are stable for the catalog's lifetime.
type Catalog interface {
	// Len returns the number of presets.
	Len() int

	// At returns the preset at index i. Callers must keep i in [0, Len()).
	// The returned preset's parameter map is a copy.
	//
	// Parameters:
	//   - i: preset index
	//
	// Returns:
	//   - Preset: the preset
	At(i int) Preset

	// Index returns the position of the named preset.
	//
	// Parameters:
	//   - name: the preset name
	//
	// Returns:
	//   - int: the index, or -1
	//   - bool: true if found
	Index(name string) (int, bool)

	// Names returns preset names in catalog order.
	Names() []string
}

var _ Catalog = &catalog{}

// NewCatalog validates and freezes the given presets into a Catalog.
//
// Parameters:
//   - presets: presets in display order
//
// Returns:
//   - Catalog: the read-only catalog
//   - error: ErrEmptyCatalog or ErrInvalidPreset on bad input
func NewCatalog(presets ...Preset) (Catalog, error) {
	if len(presets) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &catalog{
		presets: make([]Preset, 0, len(presets)),
		index:   make(map[string]int, len(presets)),
	}
	for i, p := range presets {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: preset %d has no name", ErrInvalidPreset, i)
		}
		if _, dup := c.index[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidPreset, p.Name)
		}
		p.Parameters = maps.Clone(p.Parameters)
		if p.Parameters == nil {
			p.Parameters = map[string]float64{}
		}
		c.index[p.Name] = i
		c.presets = append(c.presets, p)
	}
	return c, nil
}

func (c *catalog) Len() int {
	return len(c.presets)
}

func (c *catalog) At(i int) Preset {
	p := c.presets[i]
	p.Parameters = maps.Clone(p.Parameters)
	return p
}

func (c *catalog) Index(name string) (int, bool) {
	i, ok := c.index[name]
	if !ok {
		return -1, false
	}
	return i, true
}

func (c *catalog) Names() []string {
	out := make([]string, len(c.presets))
	for i, p := range c.presets {
		out[i] = p.Name
	}
	return out
}

// Default returns the built-in catalog of three presets.
func Default() Catalog {
	c, err := NewCatalog(
		Preset{
			Name:       "Color Fusion",
			Background: common.MustParseColor("#9D73F7"),
			Texture:    "cosmic-fusion",
			Parameters: map[string]float64{
				uniform.PositionFrequency:          1,
				uniform.PositionStrength:           0.3,
				uniform.SmallWavePositionFrequency: 0.5,
				uniform.SmallWavePositionStrength:  0.7,
				uniform.Roughness:                  1,
				uniform.Metalness:                  0,
				uniform.EnvMapIntensity:            0.5,
				uniform.Clearcoat:                  0,
				uniform.ClearcoatRoughness:         0,
				uniform.Transmission:               0,
			},
		},
		Preset{
			Name:       "Purple Mirror",
			Background: common.MustParseColor("#5300B1"),
			Texture:    "purple-Rain",
			Parameters: map[string]float64{
				uniform.PositionFrequency:          0.584,
				uniform.PositionStrength:           0.276,
				uniform.SmallWavePositionFrequency: 0.899,
				uniform.SmallWavePositionStrength:  1.266,
				uniform.Roughness:                  0,
				uniform.Metalness:                  1,
				uniform.EnvMapIntensity:            2,
				uniform.Clearcoat:                  0,
				uniform.ClearcoatRoughness:         0,
				uniform.Transmission:               0,
			},
		},
		Preset{
			Name:       "Alien Goo",
			Background: common.MustParseColor("#45ACD8"),
			Texture:    "lucky-Day",
			Parameters: map[string]float64{
				uniform.PositionFrequency:          1.022,
				uniform.PositionStrength:           0.99,
				uniform.SmallWavePositionFrequency: 0.378,
				uniform.SmallWavePositionStrength:  0.341,
				uniform.Roughness:                  0.292,
				uniform.Metalness:                  0.73,
				uniform.EnvMapIntensity:            0.86,
				uniform.Clearcoat:                  1,
				uniform.ClearcoatRoughness:         0,
				uniform.Transmission:               0,
			},
		},
	)
	if err != nil {
		panic(fmt.Sprintf("preset: default catalog: %v", err))
	}
	return c
}
