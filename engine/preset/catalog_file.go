package preset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

// catalogFile is the on-disk JSON form of a catalog:
//
//	{"presets": [{"name": "Color Fusion", "background": "#9D73F7", "texture": "cosmic-fusion",
//	              "parameters": {"uPositionFrequency": 1}}]}
type catalogFile struct {
	Presets []presetFile `json:"presets"`
}

type presetFile struct {
	Name       string             `json:"name"`
	Background colorful.HexColor  `json:"background"`
	Texture    string             `json:"texture,omitempty"`
	Parameters map[string]float64 `json:"parameters"`
}

// Load decodes a JSON catalog.
//
// Parameters:
//   - r: reader positioned at the JSON document
//
// Returns:
//   - Catalog: the decoded catalog
//   - error: decoding or validation error
func Load(r io.Reader) (Catalog, error) {
	var f catalogFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode preset catalog: %w", err)
	}
	presets := make([]Preset, 0, len(f.Presets))
	for _, p := range f.Presets {
		presets = append(presets, Preset{
			Name:       p.Name,
			Background: colorful.Color(p.Background),
			Texture:    p.Texture,
			Parameters: p.Parameters,
		})
	}
	return NewCatalog(presets...)
}

// LoadFile reads a JSON catalog from disk.
//
// Parameters:
//   - path: path to the catalog file
//
// Returns:
//   - Catalog: the decoded catalog
//   - error: error if the file cannot be opened or decoded
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save encodes a catalog as indented JSON.
//
// Parameters:
//   - w: destination writer
//   - c: the catalog to encode
//
// Returns:
//   - error: encoding error
func Save(w io.Writer, c Catalog) error {
	f := catalogFile{Presets: make([]presetFile, 0, c.Len())}
	for i := range c.Len() {
		p := c.At(i)
		f.Presets = append(f.Presets, presetFile{
			Name:       p.Name,
			Background: colorful.HexColor(p.Background.Clamped()),
			Texture:    p.Texture,
			Parameters: p.Parameters,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode preset catalog: %w", err)
	}
	return nil
}
