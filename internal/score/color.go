package score

import (
	"fmt"

	"github.com/google/uuid"
)

// HighlightColor is one of the built-in highlight shades.
type HighlightColor string

const (
	NoHighlight HighlightColor = ""

	GreenDark   HighlightColor = "greenDark"   // Sentence resolution
	BlueLight   HighlightColor = "blueLight"   // Palms up
	BlueDark    HighlightColor = "blueDark"    // Palms down
	OrangeLight HighlightColor = "orangeLight" // Comparison (light)
	OrangeDark  HighlightColor = "orangeDark"  // Comparison (dark)
	Yellow      HighlightColor = "yellow"      // Aside
)

// RGB is a color with channels in the range 0..1.
type RGB struct {
	Red   float64 `yaml:"red" json:"red"`
	Green float64 `yaml:"green" json:"green"`
	Blue  float64 `yaml:"blue" json:"blue"`
}

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.Red), channel(c.Green), channel(c.Blue))
}

// ParseHex reads a #rrggbb color.
func ParseHex(s string) (RGB, error) {
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("color %q must look like #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("color %q must look like #rrggbb", s)
	}
	return RGB{Red: float64(r) / 255, Green: float64(g) / 255, Blue: float64(b) / 255}, nil
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

type colorInfo struct {
	name string
	rgb  RGB
	dark bool
}

var builtinColors = map[HighlightColor]colorInfo{
	GreenDark:   {"Sentence Resolution", RGB{0.0, 0.5, 0.2}, true},
	BlueLight:   {"Palms Up", RGB{0.6, 0.8, 1.0}, false},
	BlueDark:    {"Palms Down", RGB{0.0, 0.3, 0.7}, true},
	OrangeLight: {"Comparison (Light)", RGB{1.0, 0.7, 0.3}, false},
	OrangeDark:  {"Comparison (Dark)", RGB{0.8, 0.4, 0.0}, true},
	Yellow:      {"Aside", RGB{1.0, 0.9, 0.3}, false},
}

// AllHighlightColors returns the built-in colors in palette order.
func AllHighlightColors() []HighlightColor {
	return []HighlightColor{GreenDark, BlueLight, BlueDark, OrangeLight, OrangeDark, Yellow}
}

// HighlightByIndex maps the 1-based palette position to a color.
func HighlightByIndex(n int) (HighlightColor, bool) {
	all := AllHighlightColors()
	if n < 1 || n > len(all) {
		return NoHighlight, false
	}
	return all[n-1], true
}

// ParseHighlightColor validates a color name. The empty string is NoHighlight.
func ParseHighlightColor(s string) (HighlightColor, error) {
	c := HighlightColor(s)
	if c == NoHighlight || c.Valid() {
		return c, nil
	}
	return NoHighlight, fmt.Errorf("unknown highlight color %q", s)
}

// Valid reports whether c is a built-in color.
func (c HighlightColor) Valid() bool {
	_, ok := builtinColors[c]
	return ok
}

// DisplayName is the human label for the color.
func (c HighlightColor) DisplayName() string {
	if info, ok := builtinColors[c]; ok {
		return info.name
	}
	return ""
}

// RGB returns the color's channels.
func (c HighlightColor) RGB() RGB {
	return builtinColors[c].rgb
}

// Hex returns the color as #rrggbb, or "" for NoHighlight.
func (c HighlightColor) Hex() string {
	if !c.Valid() {
		return ""
	}
	return c.RGB().Hex()
}

// Dark reports whether text drawn over the color should be light.
func (c HighlightColor) Dark() bool {
	return builtinColors[c].dark
}

// MarshalText implements encoding.TextMarshaler.
func (c HighlightColor) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown names.
func (c *HighlightColor) UnmarshalText(text []byte) error {
	parsed, err := ParseHighlightColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CustomColor is a user-defined palette color. Words cannot carry one.
type CustomColor struct {
	ID          uuid.UUID `yaml:"id" json:"id"`
	Color       RGB       `yaml:"color" json:"color"`
	DisplayName string    `yaml:"displayName" json:"displayName"`
}

// NewCustomColor creates a custom color with a fresh identity.
func NewCustomColor(red, green, blue float64, name string) CustomColor {
	return CustomColor{ID: uuid.New(), Color: RGB{Red: red, Green: green, Blue: blue}, DisplayName: name}
}
