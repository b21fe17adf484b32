// Package export renders stored trajectories to simple SVG documents.
package export

import (
	"fmt"
	"strings"
)

// PolylineSVG draws a single x/y series as a padded polyline on a dark
// background. Both slices must have the same length.
func PolylineSVG(xs, ys []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range xs {
		px := (xs[i] - minX) / rangeX * float64(width)
		py := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// GroundTrackSVG plots the world XY path of a run.
func GroundTrackSVG(xs, ys []float64, width, height int) string {
	return PolylineSVG(xs, ys, width, height, "#00ff00")
}

// AltitudeSVG plots altitude against time.
func AltitudeSVG(times, zs []float64, width, height int) string {
	return PolylineSVG(times, zs, width, height, "#00bfff")
}

func bounds(vs []float64) (min, max float64) {
	min, max = vs[0], vs[0]
	for _, v := range vs {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
