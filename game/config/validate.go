package config

import (
	"fmt"
	"unicode/utf8"
)

// Validate checks the structure of genesis data. Type names are left to the
// catalog, and overlapping entities are left to the world, which reports and
// skips them at admission time.
func Validate(d *GameData) error {
	if d.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if d.Width < 1 || d.Width > MaxWorldSize {
		return fmt.Errorf("config validation: width must be between 1 and %d, got %d", MaxWorldSize, d.Width)
	}
	if d.Height < 1 || d.Height > MaxWorldSize {
		return fmt.Errorf("config validation: height must be between 1 and %d, got %d", MaxWorldSize, d.Height)
	}

	if d.LoopPeriod != 0 && d.LoopPeriod < MinLoopPeriod {
		return fmt.Errorf("config validation: loop_period must be at least %s, got %s", MinLoopPeriod, d.LoopPeriod)
	}
	if d.MaxRounds < 0 {
		return fmt.Errorf("config validation: max_resolution_rounds must not be negative, got %d", d.MaxRounds)
	}

	for key := range d.Legend {
		if utf8.RuneCountInString(key) != 1 {
			return fmt.Errorf("config validation: legend key %q must be a single character", key)
		}
	}

	if len(d.Layout) > 0 {
		if len(d.Layout) != d.Height {
			return fmt.Errorf("config validation: layout must have %d rows to match height, got %d", d.Height, len(d.Layout))
		}
		for i, row := range d.Layout {
			if n := utf8.RuneCountInString(row); n != d.Width {
				return fmt.Errorf("config validation: row %d must have %d characters to match width, got %d", i+1, d.Width, n)
			}
			for j, ch := range []rune(row) {
				if _, ok := d.LegendType(ch); !ok {
					return fmt.Errorf("config validation: character '%c' at row %d, col %d is not in the legend", ch, i+1, j+1)
				}
			}
		}
	}

	for i, sq := range d.Squares {
		if err := d.checkPlacement("squares", i, sq.X, sq.Y, sq.Type); err != nil {
			return err
		}
	}
	for i, e := range d.Entities {
		if err := d.checkPlacement("entities", i, e.X, e.Y, e.Type); err != nil {
			return err
		}
	}
	if d.Player != nil {
		if err := d.checkPlacement("player", 0, d.Player.X, d.Player.Y, d.Player.Type); err != nil {
			return err
		}
	}

	return nil
}

func (d *GameData) checkPlacement(field string, i, x, y int, typ string) error {
	if typ == "" {
		return fmt.Errorf("config validation: %s[%d] has no type", field, i)
	}
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return fmt.Errorf("config validation: %s[%d] at (%d,%d) is outside the %dx%d grid", field, i, x, y, d.Width, d.Height)
	}
	return nil
}
