package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background color.Color
}

// WithScale sets the pixel density (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithBackground sets the canvas color (default white).
func WithBackground(c color.Color) PNGOption {
	return func(r *pngRenderer) { r.background = c }
}

// RenderPNG rasterizes f. Geometry matches [RenderSVG]; text uses the 7x13
// bitmap face and category labels are drawn horizontally.
func RenderPNG(f chart.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, background: color.White}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %v", r.scale)
	}

	w := int(math.Ceil(f.TotalWidth() * r.scale))
	h := int(math.Ceil(f.TotalHeight() * r.scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty canvas %dx%d", w, h)
	}

	c := newCanvas(w, h, r.scale, f.Margin)
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	for _, b := range f.Bars {
		c.rect(b.X, b.Y, b.Width, b.Height, fillColor(b.Fill))
	}

	axis := color.RGBA{A: 0xff}
	c.rect(0, f.Height, f.Width, 1/r.scale, axis)
	for _, tk := range f.CategoryAxis.Ticks {
		col := fade(axis, tk.Opacity)
		c.rect(tk.Pos, f.Height, 1/r.scale, tickSize, col)
		c.text(tk.Label, tk.Pos, f.Height+tickSize+13, anchorMiddle, col)
	}
	c.rect(0, 0, 1/r.scale, f.Height, axis)
	for _, tk := range f.ValueAxis.Ticks {
		col := fade(axis, tk.Opacity)
		c.rect(-tickSize, tk.Pos, tickSize, 1/r.scale, col)
		c.text(tk.Label, -tickSize-3, tk.Pos+4, anchorEnd, col)
	}
	for _, l := range f.Labels {
		c.text(l.Text, l.X, l.Y, anchorOf(l.Anchor), axis)
	}

	if tip := f.Tooltip; tip.Visible() {
		tw := float64(font.MeasureString(basicfont.Face7x13, tip.Text).Ceil()) / r.scale
		c.rect(tip.X, tip.Y, tw+8, 20, fade(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, tip.Opacity))
		c.text(tip.Text, tip.X+4, tip.Y+14, anchorStart, fade(axis, tip.Opacity))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

type anchor int

const (
	anchorStart anchor = iota
	anchorMiddle
	anchorEnd
)

func anchorOf(s string) anchor {
	switch s {
	case "middle":
		return anchorMiddle
	case "end":
		return anchorEnd
	}
	return anchorStart
}

// canvas maps plot coordinates onto image pixels.
type canvas struct {
	img    *image.RGBA
	ras    *vector.Rasterizer
	scale  float64
	origin [2]float64
}

func newCanvas(w, h int, scale float64, m chart.Margin) *canvas {
	return &canvas{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		ras:    vector.NewRasterizer(w, h),
		scale:  scale,
		origin: [2]float64{m.Left, m.Top},
	}
}

func (c *canvas) px(x, y float64) (float32, float32) {
	return float32((x + c.origin[0]) * c.scale), float32((y + c.origin[1]) * c.scale)
}

// rect fills an axis-aligned rectangle with anti-aliased edges.
func (c *canvas) rect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	b := c.img.Bounds()
	x0, y0 := c.px(x, y)
	x1, y1 := c.px(x+w, y+h)
	c.ras.Reset(b.Dx(), b.Dy())
	c.ras.MoveTo(x0, y0)
	c.ras.LineTo(x1, y0)
	c.ras.LineTo(x1, y1)
	c.ras.LineTo(x0, y1)
	c.ras.ClosePath()
	c.ras.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// text draws s with its baseline at (x, y).
func (c *canvas) text(s string, x, y float64, a anchor, col color.Color) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(col), Face: face}
	px, py := c.px(x, y)
	width := d.MeasureString(s).Ceil()
	ix := int(px)
	switch a {
	case anchorMiddle:
		ix -= width / 2
	case anchorEnd:
		ix -= width
	}
	d.Dot = fixed.Point26_6{X: fixed.I(ix), Y: fixed.I(int(py))}
	d.DrawString(s)
}
