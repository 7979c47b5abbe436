package plot

import (
	"image/color"
	"io"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	tickLen  = 4
	rangeEps = 1e-9
)

// --- PNG rendering ---------------------------------------------------------

func (f *Figure) renderPNG(path string) error {
	return f.draw().SavePNG(path)
}

// WritePNG encodes the figure as a PNG to w.
func (f *Figure) WritePNG(w io.Writer) error {
	return f.draw().EncodePNG(w)
}

func (f *Figure) draw() *gg.Context {
	dc := gg.NewContext(f.Width, f.Height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorWhite)
	dc.Clear()
	if f.Title != "" {
		dc.SetColor(colorText)
		dc.DrawStringAnchored(f.Title, float64(f.Width)/2, 18, 0.5, 0.5)
	}
	for _, a := range f.axes {
		a.finalize()
		drawAxesPNG(dc, a)
	}
	return dc
}

func drawAxesPNG(dc *gg.Context, a *Axes) {
	if a.hidden {
		drawLegendPNG(dc, a)
		return
	}

	dc.SetColor(colorPanel)
	dc.DrawRectangle(a.area.X, a.area.Y, a.area.W, a.area.H)
	dc.Fill()

	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)
	for _, t := range a.xticks {
		if !a.inXRange(t.Value) {
			continue
		}
		x := a.xPix(t.Value)
		dc.DrawLine(x, a.area.Y, x, a.area.Y+a.area.H)
		dc.Stroke()
	}
	for _, t := range a.yticks {
		if !a.inYRange(t.Value) {
			continue
		}
		y := a.yPix(t.Value)
		dc.DrawLine(a.area.X, y, a.area.X+a.area.W, y)
		dc.Stroke()
	}

	dc.DrawRectangle(a.area.X, a.area.Y, a.area.W, a.area.H)
	dc.Clip()
	for _, el := range a.elements {
		drawElementPNG(dc, a, el)
	}
	dc.ResetClip()
	for _, el := range a.elements {
		if g, ok := el.(*heatGrid); ok {
			drawColorbarPNG(dc, a, g)
		}
	}

	drawFurniturePNG(dc, a)
	drawLegendPNG(dc, a)
}

func drawElementPNG(dc *gg.Context, a *Axes, el element) {
	switch el := el.(type) {
	case *dotSeries:
		dc.SetColor(el.color)
		for i := range el.x {
			if i >= len(el.y) || math.IsNaN(el.x[i]) || math.IsNaN(el.y[i]) {
				continue
			}
			dc.DrawCircle(a.xPix(el.x[i]), a.yPix(el.y[i]), el.radius)
		}
		dc.Fill()
	case *lineSeries:
		dc.SetColor(el.color)
		dc.SetLineWidth(el.width)
		pen := false
		for i := range el.x {
			if i >= len(el.y) || math.IsNaN(el.x[i]) || math.IsNaN(el.y[i]) {
				pen = false
				continue
			}
			px, py := a.xPix(el.x[i]), a.yPix(el.y[i])
			if pen {
				dc.LineTo(px, py)
			} else {
				dc.MoveTo(px, py)
				pen = true
			}
		}
		dc.Stroke()
	case *barSeries:
		if len(el.edges) < 2 {
			return
		}
		dc.SetColor(color.NRGBA{el.color.R, el.color.G, el.color.B, uint8(el.alpha * 255)})
		for k, h := range el.heights {
			if h <= 0 || k+1 >= len(el.edges) {
				continue
			}
			var x0, x1, y0, y1 float64
			if el.horizontal {
				x0, x1 = a.xPix(0), a.xPix(h)
				y0, y1 = a.yPix(el.edges[k]), a.yPix(el.edges[k+1])
			} else {
				x0, x1 = a.xPix(el.edges[k]), a.xPix(el.edges[k+1])
				y0, y1 = a.yPix(0), a.yPix(h)
			}
			dc.DrawRectangle(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0))
		}
		dc.Fill()
	case *heatGrid:
		drawHeatGridPNG(dc, a, el)
	}
}

func drawHeatGridPNG(dc *gg.Context, a *Axes, g *heatGrid) {
	if len(g.rows) == 0 || len(g.cols) == 0 {
		return
	}
	cw := a.area.W / float64(len(g.cols))
	ch := a.area.H / float64(len(g.rows))
	span := g.vmax - g.vmin
	for i, row := range g.cells {
		for j, v := range row {
			t := 0.0
			if span > 0 {
				t = (v - g.vmin) / span
			}
			dc.SetColor(rampColor(t))
			dc.DrawRectangle(a.area.X+float64(j)*cw, a.area.Y+float64(i)*ch, cw, ch)
			dc.Fill()
		}
	}
}

func drawColorbarPNG(dc *gg.Context, a *Axes, g *heatGrid) {
	barX := a.area.X + a.area.W + 30
	barW := 16.0
	steps := 128
	stripH := a.area.H / float64(steps)
	for s := 0; s < steps; s++ {
		t := (float64(s) + 0.5) / float64(steps)
		dc.SetColor(rampColor(t))
		dc.DrawRectangle(barX, a.area.Y+a.area.H-float64(s+1)*stripH, barW, stripH+0.5)
		dc.Fill()
	}
	dc.SetColor(colorBorder)
	dc.SetLineWidth(1)
	dc.DrawRectangle(barX, a.area.Y, barW, a.area.H)
	dc.Stroke()

	span := g.vmax - g.vmin
	if span <= 0 {
		span = 1
	}
	dc.SetColor(colorText)
	for _, t := range niceTicks(g.vmin, g.vmax, 6) {
		if t.Value < g.vmin-rangeEps || t.Value > g.vmax+rangeEps {
			continue
		}
		y := a.area.Y + a.area.H*(1-(t.Value-g.vmin)/span)
		dc.DrawStringAnchored(t.Label, barX+barW+6, y, 0, 0.5)
	}
	if g.barLabel != "" {
		x := barX + barW + 52
		y := a.area.Y + a.area.H/2
		dc.Push()
		dc.RotateAbout(-math.Pi/2, x, y)
		dc.DrawStringAnchored(g.barLabel, x, y, 0.5, 0.5)
		dc.Pop()
	}
}

func drawFurniturePNG(dc *gg.Context, a *Axes) {
	bottom := a.area.Y + a.area.H

	dc.SetColor(colorFaint)
	dc.SetLineWidth(1)
	for _, t := range a.xticks {
		if !a.inXRange(t.Value) {
			continue
		}
		x := a.xPix(t.Value)
		dc.DrawLine(x, bottom, x, bottom+tickLen)
		dc.Stroke()
	}
	for _, t := range a.yticks {
		if !a.inYRange(t.Value) {
			continue
		}
		y := a.yPix(t.Value)
		dc.DrawLine(a.area.X-tickLen, y, a.area.X, y)
		dc.Stroke()
	}

	dc.SetColor(colorText)
	for _, t := range a.xticks {
		if t.Label == "" || !a.inXRange(t.Value) {
			continue
		}
		x := a.xPix(t.Value)
		if a.xTicksAcross {
			dc.Push()
			dc.RotateAbout(-math.Pi/2, x, bottom+8)
			dc.DrawStringAnchored(t.Label, x, bottom+8, 1, 0.5)
			dc.Pop()
		} else {
			dc.DrawStringAnchored(t.Label, x, bottom+14, 0.5, 0.5)
		}
	}
	for _, t := range a.yticks {
		if t.Label == "" || !a.inYRange(t.Value) {
			continue
		}
		dc.DrawStringAnchored(t.Label, a.area.X-tickLen-4, a.yPix(t.Value), 1, 0.5)
	}

	if a.Title != "" {
		dc.DrawStringAnchored(a.Title, a.area.X+a.area.W/2, a.area.Y-14, 0.5, 0.5)
	}
	if a.XLabel != "" {
		dc.DrawStringAnchored(a.XLabel, a.area.X+a.area.W/2, bottom+42, 0.5, 0.5)
	}
	if a.YLabel != "" {
		x := a.area.X - 55
		y := a.area.Y + a.area.H/2
		dc.Push()
		dc.RotateAbout(-math.Pi/2, x, y)
		dc.DrawStringAnchored(a.YLabel, x, y, 0.5, 0.5)
		dc.Pop()
	}
}

func drawLegendPNG(dc *gg.Context, a *Axes) {
	if len(a.legend) == 0 {
		return
	}
	const (
		rowH   = 16.0
		swatch = 10.0
		pad    = 8.0
	)
	width := 0.0
	for _, e := range a.legend {
		if w := float64(len(truncate(e.Label, 40))) * 7; w > width {
			width = w
		}
	}
	boxW := pad + swatch + 6 + width + pad
	boxH := pad + float64(len(a.legend))*rowH + pad
	x0 := a.area.X + a.area.W - boxW - 10
	y0 := a.area.Y + 10
	if a.hidden {
		x0 = a.area.X + 10
	}

	dc.SetColor(colorWhite)
	dc.DrawRectangle(x0, y0, boxW, boxH)
	dc.Fill()
	dc.SetColor(colorBorder)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x0, y0, boxW, boxH)
	dc.Stroke()
	for i, e := range a.legend {
		y := y0 + pad + float64(i)*rowH + rowH/2
		dc.SetColor(e.Color)
		dc.DrawRectangle(x0+pad, y-swatch/2, swatch, swatch)
		dc.Fill()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(truncate(e.Label, 40), x0+pad+swatch+6, y, 0, 0.5)
	}
}

func (a *Axes) inXRange(v float64) bool {
	return v >= a.xmin-rangeEps && v <= a.xmax+rangeEps
}

func (a *Axes) inYRange(v float64) bool {
	return v >= a.ymin-rangeEps && v <= a.ymax+rangeEps
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
