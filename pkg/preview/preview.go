// Package preview renders the transfer function panel to an image so the
// result can be inspected without a GL context: the colormap strip along the
// bottom, the opacity polyline above it, and a marker per control point.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"

	"volshade/pkg/panel"
	"volshade/pkg/transfer"
)

// Options controls the rendered layout.
type Options struct {
	// Width and Height are the image dimensions in pixels.
	Width  int
	Height int

	// StripHeight is the number of rows at the bottom showing the lookup
	// table colors. The plot occupies the rows above it.
	StripHeight int

	// Background fills the plot area before anything else is drawn.
	Background color.RGBA

	// Backdrop, when non-empty, is a grayscale row (such as the histogram
	// CDF row) stretched across the plot area behind the polyline.
	Backdrop []byte

	// MarkerRadius is the half-size of the square drawn per control point.
	MarkerRadius int

	// LineColor is the polyline color.
	LineColor color.RGBA
}

// DefaultOptions returns the layout used by the command line tool.
func DefaultOptions() Options {
	return Options{
		Width:        512,
		Height:       128,
		StripHeight:  24,
		Background:   color.RGBA{R: 32, G: 32, B: 32, A: 255},
		MarkerRadius: 3,
		LineColor:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Render draws the transfer function and its plot geometry into a new
// image. The geometry is expected to come from panel.BuildPlotGeometry over
// the same function and window.
func Render(tf *transfer.TransferFunction, geom panel.PlotGeometry, opts Options) (*image.RGBA, error) {
	if opts.Width < 2 || opts.Height < 2 {
		return nil, fmt.Errorf("preview: image size %dx%d is too small", opts.Width, opts.Height)
	}
	if opts.StripHeight < 0 || opts.StripHeight >= opts.Height {
		return nil, fmt.Errorf("preview: strip height %d does not fit into height %d", opts.StripHeight, opts.Height)
	}
	if opts.MarkerRadius < 0 {
		return nil, fmt.Errorf("preview: marker radius must be non-negative, got %d", opts.MarkerRadius)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	plotHeight := opts.Height - opts.StripHeight

	// Plot background, with the optional grayscale backdrop per column.
	for x := 0; x < opts.Width; x++ {
		column := opts.Background
		if len(opts.Backdrop) > 0 {
			g := opts.Backdrop[x*len(opts.Backdrop)/opts.Width]
			column = color.RGBA{R: g, G: g, B: g, A: 255}
		}
		for y := 0; y < plotHeight; y++ {
			img.SetRGBA(x, y, column)
		}
	}

	// Colormap strip: one lookup table sample per column, composited over
	// the background so transparent entries read as background.
	for x := 0; x < opts.Width; x++ {
		sample := tf.Lookup().Sample(float64(x) / float64(opts.Width-1))
		c := blend(opts.Background, sample)
		for y := plotHeight; y < opts.Height; y++ {
			img.SetRGBA(x, y, c)
		}
	}

	for i := 0; i+1 < len(geom.Line); i++ {
		drawSegment(img, geom.Line[i], geom.Line[i+1], opts.Width, plotHeight, opts.LineColor)
	}
	for _, s := range geom.Sprites {
		drawMarker(img, s, opts.Width, plotHeight, opts.MarkerRadius)
	}

	return img, nil
}

// Save writes the rendered preview as a JPEG image.
func Save(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// toPixel maps a normalized plot vertex onto pixel coordinates. y is
// flipped: opacity 1 is the top row of the plot area.
func toPixel(v panel.Vertex, width, plotHeight int) (float64, float64) {
	px := float64(v.X) * float64(width-1)
	py := (1 - float64(v.Y)) * float64(plotHeight-1)
	return px, py
}

func drawSegment(img *image.RGBA, a, b panel.Vertex, width, plotHeight int, c color.RGBA) {
	x0, y0 := toPixel(a, width, plotHeight)
	x1, y1 := toPixel(b, width, plotHeight)

	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(x0 + t*(x1-x0)))
		y := int(math.Round(y0 + t*(y1-y0)))
		img.SetRGBA(x, y, c)
	}
}

func drawMarker(img *image.RGBA, s panel.PointSprite, width, plotHeight, radius int) {
	cx, cy := toPixel(s.Pos, width, plotHeight)
	c := s.Color
	c.A = 255

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			x := int(math.Round(cx)) + dx
			y := int(math.Round(cy)) + dy
			if y < 0 || y >= plotHeight {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}

// blend composites src over dst treating src's alpha as coverage.
func blend(dst, src color.RGBA) color.RGBA {
	a := uint32(src.A)
	inv := 255 - a
	return color.RGBA{
		R: uint8((uint32(src.R)*a + uint32(dst.R)*inv) / 255),
		G: uint8((uint32(src.G)*a + uint32(dst.G)*inv) / 255),
		B: uint8((uint32(src.B)*a + uint32(dst.B)*inv) / 255),
		A: 255,
	}
}
