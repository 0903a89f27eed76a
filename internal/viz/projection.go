package viz

import (
	"math"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	fitMargin = 0.9
	// maxZoom bounds zooming in either direction relative to the initial
	// scale.
	maxZoom = 4096
)

// Projection maps world meters to canvas sub-pixels with the origin at the
// canvas centre and +y pointing up.
type Projection struct {
	Scale  float64 // sub-pixels per meter
	CX, CY int
	base   float64
	// ratio of canvas sub-pixels to configured screen pixels
	pixel float64
}

// NewProjection sizes a projection for a canvas of w x h sub-pixels. With a
// configured PixelsPerAU the scale is taken relative to the configured
// screen width; otherwise the outermost body is fitted to the canvas.
func NewProjection(d config.DisplayConfig, w, h int, bodies []dynamo.Snapshot) Projection {
	p := Projection{CX: w / 2, CY: h / 2, pixel: 1}
	if d.Width > 0 {
		p.pixel = float64(w) / float64(d.Width)
	}

	if d.PixelsPerAU > 0 {
		p.Scale = d.PixelsPerAU * p.pixel / physics.AU
		p.base = p.Scale
		return p
	}

	extent := 0.0
	for _, b := range bodies {
		extent = math.Max(extent, r2.Norm(b.Position))
	}
	if extent == 0 {
		extent = physics.AU
	}
	p.Scale = fitMargin * float64(min(w, h)) / 2 / extent
	p.base = p.Scale
	return p
}

func (p Projection) Project(v r2.Vec) (int, int) {
	x := v.X*p.Scale + float64(p.CX)
	y := float64(p.CY) - v.Y*p.Scale
	return int(math.Round(x)), int(math.Round(y))
}

// Radius converts a body's display radius in screen pixels to sub-pixels.
// Every body is at least one dot.
func (p Projection) Radius(r float64) int {
	return max(0, int(math.Round(r*p.pixel))-1)
}

// Zoom scales the projection by f, staying within maxZoom of the scale the
// projection started with.
func (p Projection) Zoom(f float64) Projection {
	if p.base == 0 {
		p.base = p.Scale
	}
	p.Scale = math.Min(math.Max(p.Scale*f, p.base/maxZoom), p.base*maxZoom)
	return p
}
