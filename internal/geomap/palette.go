package geomap

import (
	_ "embed"
	"fmt"
	"os"
	"sales-geomap/internal/models"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed palette.yaml
var defaultPalette []byte

// ClassStyle is how one classification is drawn and labelled.
type ClassStyle struct {
	Color           string `yaml:"color"`
	BadgeBackground string `yaml:"badge_background"`
	BadgeText       string `yaml:"badge_text"`
	Label           string `yaml:"label"`
}

// LayerStyle sizes one of the two concentric circles of a marker.
type LayerStyle struct {
	Radius      int     `yaml:"radius" json:"radius"`
	Weight      int     `yaml:"weight" json:"weight"`
	FillOpacity float64 `yaml:"fill_opacity" json:"fill_opacity"`
	BorderColor string  `yaml:"border_color" json:"border_color,omitempty"`
}

type Palette struct {
	Above ClassStyle `yaml:"above"`
	Below ClassStyle `yaml:"below"`
	Halo  LayerStyle `yaml:"halo"`
	Core  LayerStyle `yaml:"core"`
}

// DefaultPalette returns the built-in palette.
func DefaultPalette() *Palette {
	p, err := ParsePalette(nil)
	if err != nil {
		panic(fmt.Sprintf("geomap: built-in palette: %v", err))
	}
	return p
}

// ParsePalette overlays data on top of the built-in palette, so a file only
// needs the keys it changes.
func ParsePalette(data []byte) (*Palette, error) {
	var p Palette
	if err := yaml.Unmarshal(defaultPalette, &p); err != nil {
		return nil, fmt.Errorf("parsing default palette: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parsing palette: %w", err)
		}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPalette reads a palette file; an empty path means the built-in one.
func LoadPalette(path string) (*Palette, error) {
	if path == "" {
		return ParsePalette(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette: %w", err)
	}
	return ParsePalette(data)
}

func (p *Palette) validate() error {
	var errs []string
	classes := []struct {
		name  string
		style ClassStyle
	}{
		{"above", p.Above},
		{"below", p.Below},
	}
	for _, c := range classes {
		if c.style.Color == "" {
			errs = append(errs, c.name+".color is required")
		}
		if c.style.Label == "" {
			errs = append(errs, c.name+".label is required")
		}
	}
	if p.Halo.Radius <= 0 || p.Core.Radius <= 0 {
		errs = append(errs, "halo.radius and core.radius must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid palette: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Style returns the style of a classification.
func (p *Palette) Style(c models.Classification) ClassStyle {
	if c == models.AboveAverage {
		return p.Above
	}
	return p.Below
}

// Labels maps each classification to its display label.
func (p *Palette) Labels() map[models.Classification]string {
	return map[models.Classification]string{
		models.AboveAverage: p.Above.Label,
		models.BelowAverage: p.Below.Label,
	}
}
