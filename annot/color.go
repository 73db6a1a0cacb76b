// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package annot

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/js-arias/blind"
	"github.com/js-arias/lbitree/auspice"
)

// DefaultTitle is the default title
// of the annotation coloring.
const DefaultTitle = "Local Branching Index (LBI)"

// A Gradienter is a color scale
// for values between 0 and 1.
type Gradienter interface {
	Gradient(v float64) color.Color
}

// Incandescent is the incandescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_incandescent>.
type Incandescent struct{}

func (i Incandescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Incandescent, clamp(v))
}

// Iridescent is the iridescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_iridescent>.
type Iridescent struct{}

func (i Iridescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Iridescent, clamp(v))
}

// RainbowPurpleToRed is the rainbow color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>
// starting at purple and ending at red.
type RainbowPurpleToRed struct{}

func (r RainbowPurpleToRed) Gradient(v float64) color.Color {
	return blind.Sequential(blind.RainbowPurpleToRed, clamp(v))
}

// BlindGradient is the default gradient
// of the package blind.
type BlindGradient struct{}

func (b BlindGradient) Gradient(v float64) color.Color {
	return blind.Gradient(clamp(v))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Schemes are the valid color schemes,
// besides "default".
var Schemes = map[string]Gradienter{
	"gradient":     BlindGradient{},
	"incandescent": Incandescent{},
	"iridescent":   Iridescent{},
	"rainbow":      RainbowPurpleToRed{},
}

// SchemeNames returns the names of the valid color schemes.
func SchemeNames() []string {
	names := []string{"default"}
	for nm := range Schemes {
		names = append(names, nm)
	}
	slices.Sort(names[1:])
	return names
}

// scaleStops is the number of stops
// in a color scale made from a gradient.
const scaleStops = 5

// defaultColors is the blue-yellow-red scale
// used for the LBI in Nextstrain.
var defaultColors = []color.RGBA{
	{R: 0x45, G: 0x75, B: 0xb4, A: 0xff},
	{R: 0xfe, G: 0xe9, B: 0x0d, A: 0xff},
	{R: 0xd7, G: 0x30, B: 0x27, A: 0xff},
}

// DefaultGradient is the default color scheme,
// a linear interpolation of blue, yellow and red.
type DefaultGradient struct{}

func (d DefaultGradient) Gradient(v float64) color.Color {
	v = clamp(v) * float64(len(defaultColors)-1)
	i := int(v)
	if i >= len(defaultColors)-1 {
		return defaultColors[len(defaultColors)-1]
	}
	f := v - float64(i)
	a, b := defaultColors[i], defaultColors[i+1]
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// Scheme returns the gradient of a color scheme.
func Scheme(name string) (Gradienter, error) {
	if name == "" || name == "default" {
		return DefaultGradient{}, nil
	}
	g, ok := Schemes[name]
	if !ok {
		return nil, fmt.Errorf("annot: unknown color scheme %q", name)
	}
	return g, nil
}

// Coloring returns the coloring entry
// of an annotation,
// using the indicated color scheme.
func Coloring(attr, title, scheme string) (auspice.Coloring, error) {
	if title == "" {
		title = attr
	}
	c := auspice.Coloring{
		Key:   attr,
		Title: title,
		Type:  "continuous",
	}

	if scheme == "" || scheme == "default" {
		for i, dc := range defaultColors {
			c.Scale = append(c.Scale, auspice.Stop{
				Value: float64(i) / float64(len(defaultColors)-1),
				Color: hex(dc),
			})
		}
		return c, nil
	}

	g, err := Scheme(scheme)
	if err != nil {
		return auspice.Coloring{}, err
	}
	for i := 0; i < scaleStops; i++ {
		v := float64(i) / float64(scaleStops-1)
		c.Scale = append(c.Scale, auspice.Stop{
			Value: v,
			Color: hex(g.Gradient(v)),
		})
	}
	return c, nil
}

// hex returns a color in hex notation.
func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
