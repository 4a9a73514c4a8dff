// SPDX-License-Identifier: MIT
package motion

import (
	"fmt"
	"strings"
)

// Style selects one of the procedural motion patterns.
type Style int

const (
	ScalePulse Style = iota
	Wave
	Roll
	Mouth

	numStyles
)

// Channel names the transform a style keys.
type Channel string

const (
	ChannelLocation Channel = "location"
	ChannelScale    Channel = "scale"
)

var styleNames = [numStyles]string{
	ScalePulse: "scale_pulse",
	Wave:       "wave",
	Roll:       "roll",
	Mouth:      "mouth",
}

var styleDescriptions = [numStyles]string{
	ScalePulse: "uniform scale pulse, phase taken from the element index",
	Wave:       "diagonal travelling wave across rows and columns",
	Roll:       "lockstep lateral sway with an energy-driven lift",
	Mouth:      "index-staggered lateral morph with a rippling lift",
}

// Styles returns every style in declaration order.
func Styles() []Style {
	out := make([]Style, numStyles)
	for i := range out {
		out[i] = Style(i)
	}
	return out
}

func (s Style) Valid() bool {
	return s >= 0 && s < numStyles
}

func (s Style) String() string {
	if !s.Valid() {
		return fmt.Sprintf("style(%d)", int(s))
	}
	return styleNames[s]
}

// Description is a one-line summary for listings.
func (s Style) Description() string {
	if !s.Valid() {
		return ""
	}
	return styleDescriptions[s]
}

// Channel reports whether the style keys scale or location.
func (s Style) Channel() Channel {
	if s == ScalePulse {
		return ChannelScale
	}
	return ChannelLocation
}

// ParseStyle accepts the config names case-insensitively, with dashes or
// underscores.
func ParseStyle(name string) (Style, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range styleNames {
		if key == n {
			return Style(i), nil
		}
	}
	if key == "scale" || key == "pulse" {
		return ScalePulse, nil
	}
	return Wave, fmt.Errorf("%w: unknown style '%s'", ErrInvalidConfig, name)
}

func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown style %d", ErrInvalidConfig, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
