// Package geomap turns a sales report into a self-contained Leaflet map page.
package geomap

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"sales-geomap/internal/calculator"
	"sales-geomap/internal/models"
	"strings"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var content embed.FS

const (
	maxZoom            = 15
	earthCircumference = 40075016.686 // meters
)

type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	Subdomains  string `json:"subdomains"`
}

var tileLayers = map[string]TileLayer{
	"cartodb positron": {
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		Subdomains:  "abcd",
	},
	"cartodb dark_matter": {
		URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		Subdomains:  "abcd",
	},
	"openstreetmap": {
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		Subdomains:  "abc",
	},
}

// LookupTiles resolves a tile provider by name, case-insensitively. A raw
// URL template containing {z} is accepted as is.
func LookupTiles(name string) (TileLayer, error) {
	if t, ok := tileLayers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	if strings.Contains(name, "{z}") {
		return TileLayer{URL: name, Subdomains: "abc"}, nil
	}
	return TileLayer{}, fmt.Errorf("unknown tile layer %q", name)
}

type Options struct {
	ZoomStart      int
	Tiles          string
	CurrencySymbol string
	Palette        *Palette
}

// Renderer is safe for concurrent use.
type Renderer struct {
	tmpl    *template.Template
	tiles   TileLayer
	opts    Options
	palette *Palette
}

func NewRenderer(opts Options) (*Renderer, error) {
	tiles, err := LookupTiles(opts.Tiles)
	if err != nil {
		return nil, err
	}
	palette := opts.Palette
	if palette == nil {
		palette = DefaultPalette()
	}

	tmpl, err := template.New("map.html").ParseFS(content, "templates/map.html")
	if err != nil {
		return nil, fmt.Errorf("parsing map template: %w", err)
	}

	return &Renderer{tmpl: tmpl, tiles: tiles, opts: opts, palette: palette}, nil
}

func (r *Renderer) Palette() *Palette { return r.palette }

// FormatMoney renders an amount with thousands separators and two decimals.
func (r *Renderer) FormatMoney(v float64) string {
	return r.opts.CurrencySymbol + humanize.FormatFloat("#,###.##", v)
}

type markerView struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Color   string  `json:"color"`
	Class   string  `json:"class"`
	Popup   string  `json:"popup"`
	Tooltip string  `json:"tooltip"`
}

type mapView struct {
	Center  [2]float64    `json:"center"`
	Zoom    int           `json:"zoom"`
	MaxZoom int           `json:"max_zoom"`
	Bounds  [2][2]float64 `json:"bounds"`
	Tiles   TileLayer     `json:"tiles"`
	Halo    LayerStyle    `json:"halo"`
	Core    LayerStyle    `json:"core"`
	Markers []markerView  `json:"markers"`
	Average string        `json:"average"`
	Total   int           `json:"total"`
}

type popupData struct {
	Name     string
	ID       string
	Location string
	Sales    string
	Style    ClassStyle
}

// InitialZoom estimates the zoom level at which the box fills the view. A
// single point falls back to the configured start zoom.
func InitialZoom(b models.Bounds, fallback int) int {
	d := calculator.Diagonal(b)
	if d <= 0 {
		return fallback
	}
	z := int(math.Floor(math.Log2(earthCircumference / d)))
	return min(max(z, 1), maxZoom)
}

func (r *Renderer) view(report *models.Report) (*mapView, error) {
	sw, ne := report.Bounds.SouthWest(), report.Bounds.NorthEast()
	v := &mapView{
		Center:  [2]float64{report.Center.Lat, report.Center.Lon},
		Zoom:    InitialZoom(report.Bounds, r.opts.ZoomStart),
		MaxZoom: maxZoom,
		Bounds:  [2][2]float64{{sw.Lat, sw.Lon}, {ne.Lat, ne.Lon}},
		Tiles:   r.tiles,
		Halo:    r.palette.Halo,
		Core:    r.palette.Core,
		Markers: make([]markerView, 0, len(report.Markers)),
		Average: r.FormatMoney(report.AverageSales),
		Total:   len(report.Markers),
	}

	var buf bytes.Buffer
	for _, m := range report.Markers {
		style := r.palette.Style(m.Class)
		data := popupData{
			Name:     m.Customer.Name,
			ID:       m.Customer.ID,
			Location: m.Customer.Location,
			Sales:    r.FormatMoney(m.Customer.Sales),
			Style:    style,
		}

		buf.Reset()
		if err := r.tmpl.ExecuteTemplate(&buf, "popup", data); err != nil {
			return nil, fmt.Errorf("rendering popup for row %d: %w", m.Customer.RowIndex, err)
		}
		popup := buf.String()

		buf.Reset()
		if err := r.tmpl.ExecuteTemplate(&buf, "tooltip", data); err != nil {
			return nil, fmt.Errorf("rendering tooltip for row %d: %w", m.Customer.RowIndex, err)
		}

		v.Markers = append(v.Markers, markerView{
			Lat:     m.Customer.Loc.Lat,
			Lon:     m.Customer.Loc.Lon,
			Color:   style.Color,
			Class:   string(m.Class),
			Popup:   popup,
			Tooltip: buf.String(),
		})
	}
	return v, nil
}

// Render produces the full HTML document for the report.
func (r *Renderer) Render(report *models.Report) (string, error) {
	v, err := r.view(report)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "map.html", v); err != nil {
		return "", fmt.Errorf("rendering map: %w", err)
	}
	return buf.String(), nil
}
