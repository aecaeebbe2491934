// Package render draws one choropleth world map per issue with gonum/plot and
// rasterizes it for saving.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/listenupapp/repostmap/internal/domain"
	domainerrors "github.com/listenupapp/repostmap/internal/errors"
	"github.com/listenupapp/repostmap/internal/scale"
)

// Figure layout.
const (
	TitlePrefix = "Distribution of Reposts on:\n"
	LegendLabel = "Number of Retweets"

	titleSize     = 18
	labelSize     = 12
	tickSize      = 10
	edgeWidth     = 0.5 // points
	legendWidth   = 1.6  // inches, gap and tick labels included
	legendGap     = 0.2  // inches between the map and the bar
	legendBar     = 0.3  // inches
	legendTick    = 4    // points
	legendPad     = 3    // points
	legendShrink  = 0.6
	legendColors  = 256
	cropPadInches = 0.1
)

//nolint:gochecknoglobals // Fixed figure colors
var (
	edgeColor    = color.Gray{Y: 153}
	inkColor     = color.Black
	neutralColor = color.White
	background   = color.White
)

// Options controls figure size and resolution.
type Options struct {
	DPI         int
	WidthIn     float64
	HeightIn    float64
	NeutralZero bool
}

// Renderer builds map figures. It holds no per-issue state; every Render
// call draws onto a fresh canvas.
type Renderer struct {
	opts Options
	ramp palette.ColorMap
}

// New returns a Renderer using the YlGnBu ramp.
func New(opts Options) (*Renderer, error) {
	if opts.DPI <= 0 || opts.WidthIn <= 0 || opts.HeightIn <= 0 {
		return nil, domainerrors.InvalidInputf("invalid figure options: %d dpi, %gx%g in", opts.DPI, opts.WidthIn, opts.HeightIn)
	}
	if opts.WidthIn <= legendWidth {
		return nil, domainerrors.InvalidInputf("figure width %g in leaves no room for the map", opts.WidthIn)
	}
	if err := registerFonts(); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "register fonts")
	}
	ramp, err := scale.YlGnBu()
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "build color ramp")
	}
	return &Renderer{opts: opts, ramp: ramp}, nil
}

// Title returns the figure title for an issue.
func Title(issue string) string {
	return TitlePrefix + issue
}

// Render draws the map for agg over boundaries and returns the tightly
// cropped raster. agg.Rows must be aligned with boundaries.
func (r *Renderer) Render(agg domain.Aggregate, boundaries []domain.Boundary) (img image.Image, err error) {
	if len(agg.Rows) != len(boundaries) {
		return nil, domainerrors.Wrapf(domainerrors.ErrInternal, domainerrors.CodeRender,
			"%d aggregate rows for %d boundaries", len(agg.Rows), len(boundaries))
	}
	// gonum/plot panics on malformed plotters; one bad issue must not end the run.
	defer func() {
		if p := recover(); p != nil {
			err = domainerrors.Wrapf(fmt.Errorf("%v", p), domainerrors.CodeRender, "draw map for %q", agg.Issue)
		}
	}()

	mapper := scale.NewMapper(agg.Counts(), r.ramp)
	ticks := scale.Ticks(agg.Max)

	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(r.opts.WidthIn)*vg.Inch, vg.Length(r.opts.HeightIn)*vg.Inch),
		vgimg.UseDPI(r.opts.DPI),
		vgimg.UseBackgroundColor(background),
	)
	dc := draw.New(canvas)
	mapArea := draw.Crop(dc, 0, -legendWidth*vg.Inch, 0, 0)

	mapPlot, err := r.mapPlot(agg, boundaries, mapper)
	if err != nil {
		return nil, err
	}
	fitAspect(mapPlot, mapArea, domain.BoundsOf(boundaries))
	mapPlot.Draw(mapArea)

	legend := legendPlot(mapper, ticks)
	bar := legendArea(dc, mapPlot.DataCanvas(mapArea))
	legend.Draw(bar)
	legendAxis(bar, ticks, legend.Y.Min, legend.Y.Max)

	pad := int(cropPadInches*float64(r.opts.DPI) + 0.5)
	return TightCrop(canvas.Image(), background, pad), nil
}

// RenderJPEG renders the map and writes it as JPEG with the configured DPI.
func (r *Renderer) RenderJPEG(w io.Writer, agg domain.Aggregate, boundaries []domain.Boundary) error {
	img, err := r.Render(agg, boundaries)
	if err != nil {
		return err
	}
	if err := EncodeJPEG(w, img, r.opts.DPI); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeRender, "encode map for %q", agg.Issue)
	}
	return nil
}

// FillColor returns the polygon fill for a country count.
func (r *Renderer) FillColor(mapper *scale.Mapper, count int) (color.Color, error) {
	if count == 0 && r.opts.NeutralZero {
		return neutralColor, nil
	}
	return mapper.Color(count)
}

func (r *Renderer) mapPlot(agg domain.Aggregate, boundaries []domain.Boundary, mapper *scale.Mapper) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title(agg.Issue)
	p.Title.TextStyle.Font = goFont(titleSize, xfont.WeightBold)
	p.Title.Padding = vg.Points(8)
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0

	for i, b := range boundaries {
		fill, err := r.FillColor(mapper, agg.Rows[i].Count)
		if err != nil {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeRender, "color %q", b.Name)
		}
		for _, poly := range b.Polygons {
			shape, err := polygon(poly)
			if err != nil {
				return nil, domainerrors.Wrapf(err, domainerrors.CodeRender, "outline %q", b.Name)
			}
			if shape == nil {
				continue
			}
			shape.Color = fill
			shape.LineStyle.Color = edgeColor
			shape.LineStyle.Width = vg.Points(edgeWidth)
			p.Add(shape)
		}
	}
	return p, nil
}

// polygon converts a polygon into a gonum plotter. Rings with fewer than
// three points are dropped; nil is returned when nothing remains.
func polygon(poly domain.Polygon) (*plotter.Polygon, error) {
	rings := make([]plotter.XYer, 0, len(poly))
	for _, ring := range poly {
		if len(ring) < 3 {
			continue
		}
		xys := make(plotter.XYs, len(ring))
		for i, pt := range ring {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		rings = append(rings, xys)
	}
	if len(rings) == 0 {
		return nil, nil
	}
	return plotter.NewPolygon(rings...)
}

// fitAspect sets the axis ranges to bounds widened along one axis so one
// degree of longitude and latitude take the same length on the canvas.
func fitAspect(p *plot.Plot, area draw.Canvas, bounds domain.Bounds) {
	if bounds.IsEmpty() || bounds.Width() <= 0 || bounds.Height() <= 0 {
		bounds = domain.Bounds{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}
	}
	p.X.Min, p.X.Max = bounds.MinX, bounds.MaxX
	p.Y.Min, p.Y.Max = bounds.MinY, bounds.MaxY

	data := p.DataCanvas(area)
	dw := float64(data.Max.X - data.Min.X)
	dh := float64(data.Max.Y - data.Min.Y)
	if dw <= 0 || dh <= 0 {
		return
	}

	bw, bh := bounds.Width(), bounds.Height()
	if bw/bh > dw/dh {
		extra := (bw*dh/dw - bh) / 2
		p.Y.Min, p.Y.Max = bounds.MinY-extra, bounds.MaxY+extra
		return
	}
	extra := (bh*dw/dh - bw) / 2
	p.X.Min, p.X.Max = bounds.MinX-extra, bounds.MaxX+extra
}

// legendArea places the color bar in the strip right of the map, a gap away
// from it, vertically centered on the map's data area and shrunk to a
// fraction of its height. Tick labels and the title go right of the bar.
func legendArea(dc draw.Canvas, mapData draw.Canvas) draw.Canvas {
	height := mapData.Max.Y - mapData.Min.Y
	bar := height * legendShrink
	bottom := mapData.Min.Y + (height-bar)/2

	area := dc
	area.Min.X = dc.Max.X - legendWidth*vg.Inch + legendGap*vg.Inch
	area.Max.X = area.Min.X + legendBar*vg.Inch
	area.Min.Y = bottom
	area.Max.Y = bottom + bar
	return area
}

// legendPlot fills the bar with the legend colormap. Its axes are hidden so
// the data area is exactly the bar; legendAxis labels it.
func legendPlot(mapper *scale.Mapper, ticks []scale.Tick) *plot.Plot {
	cmap := mapper.Legend(ticks)

	p := plot.New()
	p.Add(&plotter.ColorBar{ColorMap: cmap, Vertical: true, Colors: legendColors})
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0
	p.Y.Min, p.Y.Max = cmap.Min(), cmap.Max()
	return p
}

// legendAxis draws tick marks, literal count labels and the legend title on
// the right side of bar, whose vertical extent spans [lo, hi].
func legendAxis(bar draw.Canvas, ticks []scale.Tick, lo, hi float64) {
	if hi <= lo {
		return
	}
	line := draw.LineStyle{Color: inkColor, Width: vg.Points(edgeWidth)}
	label := text.Style{
		Color:   inkColor,
		Font:    goFont(tickSize, xfont.WeightNormal),
		XAlign:  draw.XLeft,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}

	x := bar.Max.X
	height := bar.Max.Y - bar.Min.Y
	var widest vg.Length
	for _, t := range ticks {
		y := bar.Min.Y + vg.Length((t.Position-lo)/(hi-lo))*height
		bar.StrokeLine2(line, x, y, x+vg.Points(legendTick), y)
		bar.FillText(label, vg.Point{X: x + vg.Points(legendTick+legendPad), Y: y}, t.Label)
		widest = max(widest, label.Width(t.Label))
	}

	title := text.Style{
		Color:    inkColor,
		Font:     goFont(labelSize, xfont.WeightNormal),
		Rotation: math.Pi / 2,
		XAlign:   draw.XCenter,
		YAlign:   draw.YBottom,
		Handler:  plot.DefaultTextHandler,
	}
	x += vg.Points(legendTick+2*legendPad) + widest
	x += title.Height(LegendLabel) - title.FontExtents().Descent
	bar.FillText(title, vg.Point{X: x, Y: bar.Center().Y}, LegendLabel)
}
