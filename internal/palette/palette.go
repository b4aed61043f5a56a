// Package palette maps 8-bit colour indices to RGB for host displays.
//
// The frame buffer is indexed; only hosts that present it on a true-colour
// device ever look at RGB values.
package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Named indices used by the window system.
const (
	Black         uint8 = 0x00
	Red           uint8 = 0x04
	White         uint8 = 0x0f
	Border        uint8 = 0x14
	WindowDarker  uint8 = 0x19
	Window        uint8 = 0x1a
	TitleActive   uint8 = 0x2b
	TitleInactive uint8 = 0x19
	TextActive    uint8 = 0x00
	ButtonPressed uint8 = 0x00
	Wallpaper     uint8 = 0x7c
)

// Palette is a 256 entry colour table.
type Palette [256]colorful.Color

var ega = [16][3]uint8{
	{0x00, 0x00, 0x00}, {0x00, 0x00, 0xaa}, {0x00, 0xaa, 0x00}, {0x00, 0xaa, 0xaa},
	{0xaa, 0x00, 0x00}, {0xaa, 0x00, 0xaa}, {0xaa, 0x55, 0x00}, {0xaa, 0xaa, 0xaa},
	{0x55, 0x55, 0x55}, {0x55, 0x55, 0xff}, {0x55, 0xff, 0x55}, {0x55, 0xff, 0xff},
	{0xff, 0x55, 0x55}, {0xff, 0x55, 0xff}, {0xff, 0xff, 0x55}, {0xff, 0xff, 0xff},
}

// Six-bit DAC levels of the default grey ramp.
var greys = [16]uint8{0, 5, 8, 11, 14, 17, 20, 24, 28, 32, 36, 40, 45, 50, 56, 63}

// VGA builds the default mode 13h palette: 16 EGA colours, a grey ramp, then
// three intensity blocks of 24 hues at three saturation levels each, padded
// with black.
func VGA() *Palette {
	var p Palette
	for i, c := range ega {
		p[i] = colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
	}
	for i, g := range greys {
		v := float64(g) / 63
		p[16+i] = colorful.Color{R: v, G: v, B: v}
	}

	values := [3]float64{1, 28.0 / 63, 16.0 / 63}
	saturations := [3]float64{1, 0.5, 0.28}
	idx := 32
	for _, v := range values {
		for _, s := range saturations {
			for h := 0; h < 24; h++ {
				hue := float64((240 + h*15) % 360)
				p[idx] = colorful.Hsv(hue, s, v)
				idx++
			}
		}
	}
	for ; idx < len(p); idx++ {
		p[idx] = colorful.Color{}
	}
	return &p
}

// RGB returns the 8-bit channels for index i.
func (p *Palette) RGB(i uint8) (r, g, b uint8) {
	return p[i].Clamped().RGB255()
}

// Hex returns index i as "#rrggbb".
func (p *Palette) Hex(i uint8) string {
	return p[i].Clamped().Hex()
}

// Nearest returns the index whose colour is perceptually closest to c.
func (p *Palette) Nearest(c colorful.Color) uint8 {
	best := 0
	bestDist := -1.0
	for i := range p {
		d := p[i].DistanceLab(c)
		if bestDist < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return uint8(best)
}

// Parse resolves a colour setting to an index. Accepted forms are a
// decimal or 0x-prefixed index, or "#rrggbb" which is mapped to the nearest
// palette entry.
func (p *Palette) Parse(value string) (uint8, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		c, err := colorful.Hex(value)
		if err != nil {
			return 0, fmt.Errorf("invalid colour %q: %w", value, err)
		}
		return p.Nearest(c), nil
	}
	n, err := strconv.ParseUint(value, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid colour index %q: %w", value, err)
	}
	return uint8(n), nil
}
