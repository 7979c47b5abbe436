package plot

import (
	"fmt"
	"image/color"
	"math"
)

var (
	colorBlack  = color.RGBA{0x00, 0x00, 0x00, 0xff}
	colorWhite  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorGrid   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorPanel  = color.RGBA{0xea, 0xea, 0xf2, 0xff}
	colorText   = color.RGBA{0x26, 0x26, 0x26, 0xff}
	colorFaint  = color.RGBA{0x75, 0x75, 0x75, 0xff}
	colorBorder = color.RGBA{0xc9, 0xc9, 0xd4, 0xff}
)

// featureColors maps pharmacophore feature types to their conventional
// plot colors.
var featureColors = map[string]color.RGBA{
	"HBA": {0xb2, 0x22, 0x22, 0xff},
	"HBD": {0x00, 0x80, 0x00, 0xff},
	"H":   {0xff, 0xd7, 0x00, 0xff},
	"AR":  {0x00, 0x00, 0xcd, 0xff},
	"PI":  {0x00, 0x00, 0xff, 0xff},
	"NI":  {0xff, 0x00, 0x00, 0xff},
}

// FeatureColor returns the plot color for a feature type, black for
// types without an assigned color.
func FeatureColor(featureType string) color.RGBA {
	if c, ok := featureColors[featureType]; ok {
		return c
	}
	return colorBlack
}

// seriesPalette is the default color cycle for multi-series plots.
var seriesPalette = []color.RGBA{
	{0x1f, 0x77, 0xb4, 0xff},
	{0xff, 0x7f, 0x0e, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
	{0x94, 0x67, 0xbd, 0xff},
	{0x8c, 0x56, 0x4b, 0xff},
	{0xe3, 0x77, 0xc2, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff},
	{0xbc, 0xbd, 0x22, 0xff},
	{0x17, 0xbe, 0xcf, 0xff},
}

// seriesColor returns the i-th color of the default cycle.
func seriesColor(i int) color.RGBA {
	return seriesPalette[i%len(seriesPalette)]
}

// bluesRamp anchors the sequential blue colormap used by heatmaps, from
// near-white at the low end to dark navy at the high end.
var bluesRamp = []color.RGBA{
	{0xf7, 0xfb, 0xff, 0xff},
	{0xde, 0xeb, 0xf7, 0xff},
	{0xc6, 0xdb, 0xef, 0xff},
	{0x9e, 0xca, 0xe1, 0xff},
	{0x6b, 0xae, 0xd6, 0xff},
	{0x42, 0x92, 0xc6, 0xff},
	{0x21, 0x71, 0xb5, 0xff},
	{0x08, 0x51, 0x9c, 0xff},
	{0x08, 0x30, 0x6b, 0xff},
}

// rampColor linearly interpolates the blue ramp at t in [0, 1].
func rampColor(t float64) color.RGBA {
	if math.IsNaN(t) || t <= 0 {
		return bluesRamp[0]
	}
	if t >= 1 {
		return bluesRamp[len(bluesRamp)-1]
	}
	pos := t * float64(len(bluesRamp)-1)
	i := int(pos)
	f := pos - float64(i)
	a, b := bluesRamp[i], bluesRamp[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + f*(float64(y)-float64(x))))
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 0xff}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
