package catalog

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
)

func paramString(p config.Params, key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("param %s: %w", key, err)
	}
	return s, nil
}

func paramFloat(p config.Params, key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("param %s: %w", key, err)
	}
	return f, nil
}

func paramInt(p config.Params, key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("param %s: %w", key, err)
	}
	return n, nil
}

// appearance applies the optional glyph and color params every type accepts
func appearance(p config.Params, a engine.Appearance) engine.Appearance {
	if g, _ := paramString(p, "glyph", ""); g != "" {
		a.Glyph = []rune(g)[0]
	}
	if c, _ := paramString(p, "color", ""); c != "" {
		a.Color = c
	}
	return a
}
