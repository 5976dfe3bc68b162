package mindmap

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	lightBlue = color.RGBA{R: 173, G: 216, B: 230, A: 255}
	edgeGray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// RenderOptions sizes the canvas.
type RenderOptions struct {
	Width      int
	Height     int
	NodeRadius float32
	Margin     int
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Width <= 0 {
		o.Width = 1400
	}
	if o.Height <= 0 {
		o.Height = 1000
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = 25
	}
	if o.Margin <= 0 {
		o.Margin = 90
	}
	return o
}

// Render draws g at the given layout positions.
func Render(g *Graph, layout []Point, opts RenderOptions) (*image.RGBA, error) {
	if len(layout) != len(g.Nodes) {
		return nil, errors.New("mindmap: layout does not match graph")
	}
	opts = opts.withDefaults()
	w, h := opts.Width, opts.Height

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	pix := make([]vec, len(layout))
	m := float64(opts.Margin)
	for i, p := range layout {
		pix[i] = vec{
			x: float32(m + (p.X+1)/2*(float64(w)-2*m)),
			y: float32(m + (1-p.Y)/2*(float64(h)-2*m)),
		}
	}

	r := vector.NewRasterizer(w, h)
	for _, e := range g.Edges {
		r.Reset(w, h)
		line(r, pix[e.From], pix[e.To], 1)
		r.Draw(dst, dst.Bounds(), image.NewUniform(edgeGray), image.Point{})
	}
	for _, p := range pix {
		r.Reset(w, h)
		circle(r, p, opts.NodeRadius)
		r.Draw(dst, dst.Bounds(), image.NewUniform(lightBlue), image.Point{})
	}
	for i, label := range g.Nodes {
		boldText(dst, label, int(pix[i].x), int(pix[i].y)+4)
	}
	boldText(dst, "Mind Map for: "+g.Topic, w/2, 40)
	return dst, nil
}

// RenderPNG draws g and encodes it as PNG.
func RenderPNG(w io.Writer, g *Graph, layout []Point, opts RenderOptions) error {
	img, err := Render(g, layout, opts)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, imaging.PNG)
}

type vec struct{ x, y float32 }

func line(r *vector.Rasterizer, a, b vec, width float32) {
	dx, dy := b.x-a.x, b.y-a.y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width, dx/length*width
	r.MoveTo(a.x+nx, a.y+ny)
	r.LineTo(b.x+nx, b.y+ny)
	r.LineTo(b.x-nx, b.y-ny)
	r.LineTo(a.x-nx, a.y-ny)
	r.ClosePath()
}

func circle(r *vector.Rasterizer, c vec, radius float32) {
	const segments = 48
	r.MoveTo(c.x+radius, c.y)
	for i := 1; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		r.LineTo(c.x+radius*float32(math.Cos(a)), c.y+radius*float32(math.Sin(a)))
	}
	r.ClosePath()
}

// boldText draws s centred on x with a one pixel overstrike.
func boldText(dst draw.Image, s string, x, y int) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13}
	x -= d.MeasureString(s).Round() / 2
	for _, off := range []int{0, 1} {
		d.Dot = fixed.P(x+off, y)
		d.DrawString(s)
	}
}
