package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Attribute names accepted from the hosting surface.
const (
	AttrGrid       = "grid"
	AttrMouse      = "mouse"
	AttrStrength   = "strength"
	AttrRelaxation = "relaxation"
)

// ParseAttributes splits a "key=value,key=value" list into a map.
// Empty input yields an empty map.
func ParseAttributes(s string) (map[string]string, error) {
	attrs := make(map[string]string)
	s = strings.TrimSpace(s)
	if s == "" {
		return attrs, nil
	}
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: attribute %q is not key=value", ErrInvalidConfiguration, pair)
		}
		attrs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return attrs, nil
}

// ApplyOverrides applies host-surface attributes on top of the loaded config.
// Each attribute is independently optional. Unknown keys are rejected so typos
// surface at setup time instead of silently keeping defaults.
func (c *Config) ApplyOverrides(attrs map[string]string) error {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := attrs[key]
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfiguration, key, raw)
		}
		switch key {
		case AttrGrid:
			if v <= 0 {
				return fmt.Errorf("%w: grid must be positive, got %v", ErrInvalidConfiguration, v)
			}
			// Clamp before converting so huge sizes coerce instead of overflowing
			c.Field.GridSize = int(math.Min(math.Max(v, MinGridSize), MaxGridSize))
		case AttrMouse:
			c.Field.MouseInfluence = v
		case AttrStrength:
			c.Field.Strength = v
		case AttrRelaxation:
			c.Field.Relaxation = v
		default:
			return fmt.Errorf("%w: unknown attribute %q", ErrInvalidConfiguration, key)
		}
	}
	return c.Normalize()
}
