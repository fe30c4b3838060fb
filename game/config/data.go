package config

import (
	"strings"
	"time"
)

const (
	// EnvPrefix is prepended to environment overrides, e.g. WANDRIAN_POLICY
	EnvPrefix = "WANDRIAN"

	DefaultLoopPeriod = 250 * time.Millisecond
	MinLoopPeriod     = 10 * time.Millisecond
	DefaultPolicy     = "first-wins"
	MaxWorldSize      = 256
)

// DefaultLegend maps layout characters to square types when a file brings
// no legend of its own. Entries from the file's legend take precedence.
var DefaultLegend = map[string]string{
	".": "floor",
	" ": "floor",
	"#": "wall",
	"~": "water",
	"*": "goal",
}

// Params carries type-specific settings through to catalog factories
type Params map[string]any

// SquareData places one square of the given type
type SquareData struct {
	X      int    `mapstructure:"x" json:"x"`
	Y      int    `mapstructure:"y" json:"y"`
	Type   string `mapstructure:"type" json:"type"`
	Params Params `mapstructure:"params" json:"params,omitempty"`
}

// EntityData places one entity of the given type
type EntityData struct {
	X      int    `mapstructure:"x" json:"x"`
	Y      int    `mapstructure:"y" json:"y"`
	Type   string `mapstructure:"type" json:"type"`
	Params Params `mapstructure:"params" json:"params,omitempty"`
}

// GameData is the decoded content of a genesis file
type GameData struct {
	Name        string        `mapstructure:"name" json:"name"`
	Description string        `mapstructure:"description" json:"description,omitempty"`
	Width       int           `mapstructure:"width" json:"width"`
	Height      int           `mapstructure:"height" json:"height"`
	LoopPeriod  time.Duration `mapstructure:"loop_period" json:"loop_period"`
	Policy      string        `mapstructure:"policy" json:"policy"`
	MaxRounds   int           `mapstructure:"max_resolution_rounds" json:"max_resolution_rounds"`
	Seed        int64         `mapstructure:"seed" json:"seed"`

	Layout []string          `mapstructure:"layout" json:"layout,omitempty"`
	Legend map[string]string `mapstructure:"legend" json:"legend,omitempty"`

	Squares  []SquareData `mapstructure:"squares" json:"squares,omitempty"`
	Entities []EntityData `mapstructure:"entities" json:"entities,omitempty"`
	Player   *EntityData  `mapstructure:"player" json:"player,omitempty"`
}

// Info summarises a genesis file for listings
type Info struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Entities    int    `json:"entities"`
	HasPlayer   bool   `json:"has_player"`
}

// LegendType returns the square type a layout character stands for
func (d *GameData) LegendType(ch rune) (string, bool) {
	for _, key := range []string{string(ch), strings.ToLower(string(ch))} {
		if t, ok := d.Legend[key]; ok {
			return t, true
		}
		if t, ok := DefaultLegend[key]; ok {
			return t, true
		}
	}
	return "", false
}

// SquareList expands the layout into square placements, followed by the
// explicit squares. Later entries override earlier ones at the same position.
// Characters missing from the legend are skipped; Validate reports them.
func (d *GameData) SquareList() []SquareData {
	var out []SquareData
	for y, row := range d.Layout {
		for x, ch := range []rune(row) {
			t, ok := d.LegendType(ch)
			if !ok {
				continue
			}
			out = append(out, SquareData{X: x, Y: y, Type: t})
		}
	}
	return append(out, d.Squares...)
}

func (d *GameData) info(id, filename string) *Info {
	return &Info{
		ID:          id,
		Filename:    filename,
		Name:        d.Name,
		Description: d.Description,
		Width:       d.Width,
		Height:      d.Height,
		Entities:    len(d.Entities),
		HasPlayer:   d.Player != nil,
	}
}
