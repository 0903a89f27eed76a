package export

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestTrajectoriesToSVG(t *testing.T) {
	tracks := []Trajectory{
		{Name: "Sun", Color: "#ffff00", Points: []r2.Vec{{}}},
		{Name: "Earth", Color: "#6495ED", Points: []r2.Vec{{X: 1}, {Y: 1}, {X: -1}}},
		{Name: "A<B", Color: "not-a-colour", Points: []r2.Vec{{X: 0.5}, {X: 0.4, Y: 0.3}}},
	}

	svg := TrajectoriesToSVG(tracks, 400, 300)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 paths, got %d", got)
	}
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("expected 3 markers, got %d", got)
	}
	if !strings.Contains(svg, `stroke="#6495ed"`) {
		t.Error("body colour not normalised")
	}
	if !strings.Contains(svg, defaultStroke) {
		t.Error("invalid colour should fall back")
	}
	if !strings.Contains(svg, "A&lt;B") {
		t.Error("label not escaped")
	}
}

func TestTrajectoriesToSVG_CentredAndFlipped(t *testing.T) {
	tracks := []Trajectory{{Name: "p", Points: []r2.Vec{{X: -1}, {X: 1}, {Y: 1}}}}
	svg := TrajectoriesToSVG(tracks, 240, 240)

	// span 2.4 over 240 px: 100 px per unit around centre (0, 0.5)
	if !strings.Contains(svg, "M20.0,170.0 L220.0,170.0 L120.0,70.0") {
		t.Errorf("unexpected path in %s", svg)
	}
}

func TestTrajectoriesToSVG_Empty(t *testing.T) {
	if TrajectoriesToSVG(nil, 100, 100) != "" {
		t.Error("expected empty output without points")
	}
}
