// Package render draws wind roses as PNG images with the go-chart raster
// renderer. Each rose type is laid out as a grid of facet panels sharing one
// radial scale and one speed-band legend.
package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

const (
	legendHeight = 90
	titleHeight  = 36
	panelMargin  = 24
	wedgeSteps   = 8
)

// bandColors run from light to dark as speed increases.
var bandColors = []drawing.Color{
	drawing.ColorFromHex("ffffcc"),
	drawing.ColorFromHex("ffeda0"),
	drawing.ColorFromHex("fed976"),
	drawing.ColorFromHex("feb24c"),
	drawing.ColorFromHex("fd8d3c"),
	drawing.ColorFromHex("fc4e2a"),
	drawing.ColorFromHex("e31a1c"),
	drawing.ColorFromHex("bd0026"),
	drawing.ColorFromHex("800026"),
	drawing.ColorFromHex("4d0019"),
}

var (
	gridColor = drawing.ColorFromHex("bbbbbb")
	textColor = drawing.ColorFromHex("333333")
)

// Renderer writes one PNG per request into Dir.
type Renderer struct {
	Dir         string
	Prefix      string
	Transparent bool
	Logger      *slog.Logger
}

// NewRenderer creates the output directory if needed.
func NewRenderer(dir, prefix string, transparent bool, logger *slog.Logger) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Renderer{Dir: dir, Prefix: prefix, Transparent: transparent, Logger: logger}, nil
}

// Render draws req and returns the written path.
func (r *Renderer) Render(ctx context.Context, req domain.RenderRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := req.FileName()
	if r.Prefix != "" {
		name = r.Prefix + "_" + name
	}
	path := filepath.Join(r.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create rose image: %w", err)
	}
	if err := draw(f, req); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close rose image: %w", err)
	}

	if r.Transparent && req.Rose.Name() == domain.RoseDefault.Name() {
		if _, err := writeTransparentCopy(path); err != nil {
			return "", err
		}
	}

	r.logger().Debug("rose rendered", "path", path, "rose", req.Rose.Name(), "label", req.Label, "rows", len(req.Table))
	return path, nil
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// canvas wraps the go-chart renderer with the few primitives a rose needs.
type canvas struct {
	chart.Renderer
}

func (c canvas) rect(x0, y0, x1, y1 int, fill drawing.Color) {
	c.SetFillColor(fill)
	c.SetStrokeColor(fill)
	c.SetStrokeWidth(0)
	c.MoveTo(x0, y0)
	c.LineTo(x1, y0)
	c.LineTo(x1, y1)
	c.LineTo(x0, y1)
	c.Close()
	c.FillStroke()
}

func (c canvas) text(s string, x, y int, size float64, centered bool) {
	c.SetFontColor(textColor)
	c.SetFontSize(size)
	if centered {
		x -= c.MeasureText(s).Width() / 2
	}
	c.Text(s, x, y)
}

// wedge fills the annular sector between r0 and r1 pixels spanning
// [from, to] compass degrees around (cx, cy).
func (c canvas) wedge(cx, cy int, r0, r1, from, to float64, fill drawing.Color) {
	c.SetFillColor(fill)
	c.SetStrokeColor(drawing.ColorFromHex("666666"))
	c.SetStrokeWidth(0.5)

	x, y := polar(cx, cy, r1, from)
	c.MoveTo(x, y)
	for i := 1; i <= wedgeSteps; i++ {
		x, y = polar(cx, cy, r1, from+(to-from)*float64(i)/wedgeSteps)
		c.LineTo(x, y)
	}
	for i := wedgeSteps; i >= 0; i-- {
		x, y = polar(cx, cy, r0, from+(to-from)*float64(i)/wedgeSteps)
		c.LineTo(x, y)
	}
	c.Close()
	c.FillStroke()
}

// polar maps a compass bearing (0 = north, clockwise) onto image coordinates.
func polar(cx, cy int, r, bearing float64) (int, int) {
	a := rad(bearing)
	return cx + int(math.Round(r*math.Sin(a))), cy - int(math.Round(r*math.Cos(a)))
}

func draw(w io.Writer, req domain.RenderRequest) error {
	rr, err := chart.PNG(req.Rose.Width, req.Rose.Height)
	if err != nil {
		return fmt.Errorf("create png renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	rr.SetFont(font)
	c := canvas{rr}

	c.rect(0, 0, req.Rose.Width, req.Rose.Height, drawing.ColorWhite)

	panels := splitPanels(req.Table, req.Rose, req.Style)
	hists := make([]domain.RoseHistogram, len(panels))
	for i, p := range panels {
		hists[i] = domain.BinRose(p.Table, req.Style.Categories, req.Style.RayAngle)
	}
	scale := radialScale(hists, req.Style)

	cols, rows := req.Rose.Layout.Cols, req.Rose.Layout.Rows
	pw := req.Rose.Width / cols
	ph := (req.Rose.Height - legendHeight) / rows
	for i, p := range panels {
		if i >= cols*rows {
			break
		}
		x0 := (i % cols) * pw
		y0 := (i / cols) * ph
		drawPanel(c, x0, y0, pw, ph, p.Title, hists[i], scale, req.Style)
	}
	drawLegend(c, req, hists)

	if err := rr.Save(w); err != nil {
		return fmt.Errorf("encode rose image: %w", err)
	}
	return nil
}

// radialScale is the outer ring in percent: the style's cap, or the largest
// sector total rounded up to the grid spacing.
func radialScale(hists []domain.RoseHistogram, style domain.Style) float64 {
	if style.MaxFreq != nil {
		return float64(*style.MaxFreq)
	}
	peak := 0.0
	for _, h := range hists {
		for b := range h.Bins {
			total := 0.0
			for band := range h.Bins[b].Counts {
				total += h.Frequency(b, band)
			}
			peak = math.Max(peak, total)
		}
	}
	grid := float64(style.GridSpacing)
	return math.Max(grid, math.Ceil(peak/grid)*grid)
}

func drawPanel(c canvas, x0, y0, w, h int, title string, hist domain.RoseHistogram, scale float64, style domain.Style) {
	if title != "" {
		c.text(title, x0+w/2, y0+titleHeight-10, 14, true)
	}
	cx := x0 + w/2
	cy := y0 + titleHeight + (h-titleHeight)/2
	radius := float64(min(w, h-titleHeight))/2 - panelMargin
	if radius <= 0 {
		return
	}
	perPct := radius / scale

	c.SetStrokeColor(gridColor)
	c.SetFillColor(drawing.ColorTransparent)
	c.SetStrokeWidth(1)
	for ring := float64(style.GridSpacing); ring <= scale; ring += float64(style.GridSpacing) {
		c.Circle(ring*perPct, cx, cy)
		c.Stroke()
		c.text(fmt.Sprintf("%g%%", ring), cx+int(ring*perPct)+2, cy-2, 9, false)
	}
	for _, bearing := range []float64{0, 90, 180, 270} {
		x, y := polar(cx, cy, radius, bearing)
		c.SetStrokeColor(gridColor)
		c.MoveTo(cx, cy)
		c.LineTo(x, y)
		c.Stroke()
	}
	c.text("N", cx, cy-int(radius)-6, 12, true)

	half := style.RayAngle / 2 * 0.9
	for b, bin := range hist.Bins {
		inner := 0.0
		for band := range bin.Counts {
			freq := hist.Frequency(b, band)
			if freq == 0 {
				continue
			}
			outer := math.Min(inner+freq, scale)
			c.wedge(cx, cy, inner*perPct, outer*perPct, bin.Center-half, bin.Center+half, bandColors[band%len(bandColors)])
			inner = outer
		}
	}
}

func drawLegend(c canvas, req domain.RenderRequest, hists []domain.RoseHistogram) {
	cats := req.Style.Categories
	y := req.Rose.Height - legendHeight + 20
	box := 18
	step := max(req.Rose.Width/(len(cats)+1), 60)
	for i, lo := range cats {
		label := fmt.Sprintf(">= %g", lo)
		if i+1 < len(cats) {
			label = fmt.Sprintf("%g - %g", lo, cats[i+1])
		}
		x := 20 + i*step
		c.rect(x, y, x+box, y+box, bandColors[i%len(bandColors)])
		c.text(label, x+box+4, y+box-4, 10, false)
	}

	calms, total := 0, 0
	for _, h := range hists {
		calms += h.Calms
		total += h.Total
	}
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(calms) / float64(total)
	}
	caption := fmt.Sprintf("%s %s  wind speed (m/s)  calms = %.1f%%", req.Station, req.Label, pct)
	c.text(caption, req.Rose.Width/2, req.Rose.Height-20, 12, true)
}
