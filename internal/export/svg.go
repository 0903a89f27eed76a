package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

const defaultStroke = "#cccccc"

// Trajectory is the recorded path of one body.
type Trajectory struct {
	Name   string
	Color  string
	Points []r2.Vec
}

// TrajectoriesToSVG draws every trajectory on one dark canvas with a shared,
// aspect-preserving scale. The last point of each path is marked and labelled.
func TrajectoriesToSVG(tracks []Trajectory, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, tr := range tracks {
		for _, p := range tr.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// Add padding
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	scale := math.Min(float64(width), float64(height)) / span
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	project := func(p r2.Vec) (float64, float64) {
		return float64(width)/2 + (p.X-midX)*scale, float64(height)/2 - (p.Y-midY)*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, tr := range tracks {
		if len(tr.Points) == 0 {
			continue
		}
		stroke := strokeColor(tr.Color)

		if len(tr.Points) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1" d="M`, stroke))
			for i, p := range tr.Points {
				x, y := project(p)
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := project(tr.Points[len(tr.Points)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="10">%s</text>
`, x, y, stroke, x+5, y-5, stroke, escape(tr.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func strokeColor(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return defaultStroke
	}
	return c.Hex()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return escaper.Replace(s)
}
