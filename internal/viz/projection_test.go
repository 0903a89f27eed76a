package viz

import (
	"testing"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestProjection_ConfiguredScale(t *testing.T) {
	d := config.DisplayConfig{Width: 1600, Height: 1000, PixelsPerAU: 150}
	p := NewProjection(d, 160, 96, nil)

	tests := []struct {
		name   string
		pos    r2.Vec
		wx, wy int
	}{
		{"origin", r2.Vec{}, 80, 48},
		{"one AU east", r2.Vec{X: physics.AU}, 95, 48},
		{"one AU north", r2.Vec{Y: physics.AU}, 80, 33},
		{"two AU west", r2.Vec{X: -2 * physics.AU}, 50, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := p.Project(tt.pos)
			if x != tt.wx || y != tt.wy {
				t.Errorf("got (%d,%d), want (%d,%d)", x, y, tt.wx, tt.wy)
			}
		})
	}

	if r := p.Radius(20); r != 1 {
		t.Errorf("sun radius = %d, want 1", r)
	}
	if r := p.Radius(7); r != 0 {
		t.Errorf("earth radius = %d, want 0", r)
	}
}

func TestProjection_Fit(t *testing.T) {
	d := config.DisplayConfig{Width: 1600}
	bodies := []dynamo.Snapshot{
		{Position: r2.Vec{}},
		{Position: r2.Vec{X: 2 * physics.AU}},
	}
	p := NewProjection(d, 160, 96, bodies)

	x, y := p.Project(bodies[1].Position)
	if x != 123 || y != 48 {
		t.Errorf("outermost body at (%d,%d), want (123,48)", x, y)
	}
}

func TestProjection_Zoom(t *testing.T) {
	p := Projection{Scale: 10 / physics.AU, CX: 50, CY: 50}
	x, _ := p.Zoom(2).Project(r2.Vec{X: physics.AU})
	if x != 70 {
		t.Errorf("zoomed x = %d, want 70", x)
	}
	if p.Scale != 10/physics.AU {
		t.Error("zoom modified the receiver")
	}
}

func TestProjection_ZoomBounded(t *testing.T) {
	d := config.DisplayConfig{Width: 1600, PixelsPerAU: 150}
	p := NewProjection(d, 160, 96, nil)
	base := p.Scale

	in := p
	for i := 0; i < 200; i++ {
		in = in.Zoom(zoomFactor)
	}
	if in.Scale != base*maxZoom {
		t.Errorf("zoomed in to %g, want %g", in.Scale, base*maxZoom)
	}

	out := in
	for i := 0; i < 400; i++ {
		out = out.Zoom(1 / zoomFactor)
	}
	if out.Scale != base/maxZoom {
		t.Errorf("zoomed out to %g, want %g", out.Scale, base/maxZoom)
	}
}
