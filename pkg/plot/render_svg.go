package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"
)

// --- SVG rendering ---------------------------------------------------------

func (f *Figure) renderSVG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create figure file: %w", err)
	}
	defer file.Close()
	return f.WriteSVG(file)
}

// WriteSVG writes the figure as an SVG document to w.
func (f *Figure) WriteSVG(w io.Writer) error {
	canvas := svg.New(w)
	canvas.Start(f.Width, f.Height)
	canvas.Rect(0, 0, f.Width, f.Height, "fill:"+css(colorWhite))
	if f.Title != "" {
		canvas.Text(f.Width/2, 22, f.Title, textStyle(colorText, "middle"))
	}
	for i, a := range f.axes {
		a.finalize()
		drawAxesSVG(canvas, a, i)
	}
	canvas.End()
	return nil
}

func textStyle(c color.RGBA, anchor string) string {
	return fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;text-anchor:%s;dominant-baseline:middle",
		css(c), anchor)
}

func drawAxesSVG(canvas *svg.SVG, a *Axes, idx int) {
	if a.hidden {
		drawLegendSVG(canvas, a)
		return
	}
	x0, y0 := pxi(a.area.X), pxi(a.area.Y)
	w, h := pxi(a.area.W), pxi(a.area.H)

	canvas.Rect(x0, y0, w, h, "fill:"+css(colorPanel))
	gridStyle := fmt.Sprintf("stroke:%s;stroke-width:1", css(colorGrid))
	for _, t := range a.xticks {
		if !a.inXRange(t.Value) {
			continue
		}
		x := pxi(a.xPix(t.Value))
		canvas.Line(x, y0, x, y0+h, gridStyle)
	}
	for _, t := range a.yticks {
		if !a.inYRange(t.Value) {
			continue
		}
		y := pxi(a.yPix(t.Value))
		canvas.Line(x0, y, x0+w, y, gridStyle)
	}

	clipID := fmt.Sprintf("plot%d", idx)
	canvas.ClipPath(`id="` + clipID + `"`)
	canvas.Rect(x0, y0, w, h)
	canvas.ClipEnd()
	canvas.Group(fmt.Sprintf(`clip-path="url(#%s)"`, clipID))
	for _, el := range a.elements {
		drawElementSVG(canvas, a, el)
	}
	canvas.Gend()
	for _, el := range a.elements {
		if g, ok := el.(*heatGrid); ok {
			drawColorbarSVG(canvas, a, g, idx)
		}
	}

	drawFurnitureSVG(canvas, a)
	drawLegendSVG(canvas, a)
}

func drawElementSVG(canvas *svg.SVG, a *Axes, el element) {
	switch el := el.(type) {
	case *dotSeries:
		style := "fill:" + css(el.color)
		for i := range el.x {
			if i >= len(el.y) || math.IsNaN(el.x[i]) || math.IsNaN(el.y[i]) {
				continue
			}
			canvas.Circle(pxi(a.xPix(el.x[i])), pxi(a.yPix(el.y[i])), int(el.radius), style)
		}
	case *lineSeries:
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", css(el.color), el.width)
		var xs, ys []int
		flush := func() {
			if len(xs) > 1 {
				canvas.Polyline(xs, ys, style)
			}
			xs, ys = nil, nil
		}
		for i := range el.x {
			if i >= len(el.y) || math.IsNaN(el.x[i]) || math.IsNaN(el.y[i]) {
				flush()
				continue
			}
			xs = append(xs, pxi(a.xPix(el.x[i])))
			ys = append(ys, pxi(a.yPix(el.y[i])))
		}
		flush()
	case *barSeries:
		if len(el.edges) < 2 {
			return
		}
		style := fmt.Sprintf("fill:%s;fill-opacity:%.2f", css(el.color), el.alpha)
		for k, hv := range el.heights {
			if hv <= 0 || k+1 >= len(el.edges) {
				continue
			}
			var bx0, bx1, by0, by1 float64
			if el.horizontal {
				bx0, bx1 = a.xPix(0), a.xPix(hv)
				by0, by1 = a.yPix(el.edges[k]), a.yPix(el.edges[k+1])
			} else {
				bx0, bx1 = a.xPix(el.edges[k]), a.xPix(el.edges[k+1])
				by0, by1 = a.yPix(0), a.yPix(hv)
			}
			canvas.Rect(pxi(math.Min(bx0, bx1)), pxi(math.Min(by0, by1)),
				pxi(math.Abs(bx1-bx0)), pxi(math.Abs(by1-by0)), style)
		}
	case *heatGrid:
		drawHeatGridSVG(canvas, a, el)
	}
}

func drawHeatGridSVG(canvas *svg.SVG, a *Axes, g *heatGrid) {
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
			x := a.area.X + float64(j)*cw
			y := a.area.Y + float64(i)*ch
			canvas.Rect(pxi(x), pxi(y), pxi(x+cw)-pxi(x), pxi(y+ch)-pxi(y), "fill:"+css(rampColor(t)))
		}
	}
}

func drawColorbarSVG(canvas *svg.SVG, a *Axes, g *heatGrid, idx int) {
	barX := pxi(a.area.X + a.area.W + 30)
	barY := pxi(a.area.Y)
	barW := 16
	barH := pxi(a.area.H)

	rampID := fmt.Sprintf("ramp%d", idx)
	stops := make([]svg.Offcolor, len(bluesRamp))
	for i, c := range bluesRamp {
		stops[i] = svg.Offcolor{
			Offset:  uint8(math.Round(float64(i) / float64(len(bluesRamp)-1) * 100)),
			Color:   css(c),
			Opacity: 1,
		}
	}
	canvas.Def()
	canvas.LinearGradient(rampID, 0, 100, 0, 0, stops)
	canvas.DefEnd()
	canvas.Rect(barX, barY, barW, barH, fmt.Sprintf("fill:url(#%s);stroke:%s;stroke-width:1", rampID, css(colorBorder)))

	span := g.vmax - g.vmin
	if span <= 0 {
		span = 1
	}
	for _, t := range niceTicks(g.vmin, g.vmax, 6) {
		if t.Value < g.vmin-rangeEps || t.Value > g.vmax+rangeEps {
			continue
		}
		y := barY + pxi(float64(barH)*(1-(t.Value-g.vmin)/span))
		canvas.Text(barX+barW+6, y, t.Label, textStyle(colorText, "start"))
	}
	if g.barLabel != "" {
		x := barX + barW + 52
		y := barY + barH/2
		canvas.Gtransform(fmt.Sprintf("rotate(-90 %d %d)", x, y))
		canvas.Text(x, y, g.barLabel, textStyle(colorText, "middle"))
		canvas.Gend()
	}
}

func drawFurnitureSVG(canvas *svg.SVG, a *Axes) {
	x0, y0 := pxi(a.area.X), pxi(a.area.Y)
	w, h := pxi(a.area.W), pxi(a.area.H)
	bottom := y0 + h
	tickStyle := fmt.Sprintf("stroke:%s;stroke-width:1", css(colorFaint))

	for _, t := range a.xticks {
		if !a.inXRange(t.Value) {
			continue
		}
		x := pxi(a.xPix(t.Value))
		canvas.Line(x, bottom, x, bottom+tickLen, tickStyle)
		if t.Label == "" {
			continue
		}
		if a.xTicksAcross {
			canvas.Gtransform(fmt.Sprintf("rotate(-90 %d %d)", x, bottom+8))
			canvas.Text(x, bottom+8, t.Label, textStyle(colorText, "end"))
			canvas.Gend()
		} else {
			canvas.Text(x, bottom+14, t.Label, textStyle(colorText, "middle"))
		}
	}
	for _, t := range a.yticks {
		if !a.inYRange(t.Value) {
			continue
		}
		y := pxi(a.yPix(t.Value))
		canvas.Line(x0-tickLen, y, x0, y, tickStyle)
		if t.Label != "" {
			canvas.Text(x0-tickLen-4, y, t.Label, textStyle(colorText, "end"))
		}
	}

	if a.Title != "" {
		canvas.Text(x0+w/2, y0-14, a.Title, textStyle(colorText, "middle"))
	}
	if a.XLabel != "" {
		canvas.Text(x0+w/2, bottom+42, a.XLabel, textStyle(colorText, "middle"))
	}
	if a.YLabel != "" {
		x := x0 - 55
		y := y0 + h/2
		canvas.Gtransform(fmt.Sprintf("rotate(-90 %d %d)", x, y))
		canvas.Text(x, y, a.YLabel, textStyle(colorText, "middle"))
		canvas.Gend()
	}
}

func drawLegendSVG(canvas *svg.SVG, a *Axes) {
	if len(a.legend) == 0 {
		return
	}
	const (
		rowH   = 16
		swatch = 10
		pad    = 8
	)
	width := 0
	for _, e := range a.legend {
		if w := len(truncate(e.Label, 40)) * 7; w > width {
			width = w
		}
	}
	boxW := pad + swatch + 6 + width + pad
	boxH := pad + len(a.legend)*rowH + pad
	x0 := pxi(a.area.X+a.area.W) - boxW - 10
	y0 := pxi(a.area.Y) + 10
	if a.hidden {
		x0 = pxi(a.area.X) + 10
	}

	canvas.Rect(x0, y0, boxW, boxH, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorWhite), css(colorBorder)))
	for i, e := range a.legend {
		y := y0 + pad + i*rowH + rowH/2
		canvas.Rect(x0+pad, y-swatch/2, swatch, swatch, "fill:"+css(e.Color))
		canvas.Text(x0+pad+swatch+6, y, truncate(e.Label, 40), textStyle(colorText, "start"))
	}
}

func pxi(v float64) int {
	return int(math.Round(v))
}
