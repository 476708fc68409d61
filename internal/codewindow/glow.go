package codewindow

import (
	"fmt"
	"strconv"
)

// Point is a position in a panel's local coordinate space.
type Point struct {
	X float64
	Y float64
}

// Rect is a panel's top-left corner in client coordinates.
type Rect struct {
	Left float64
	Top  float64
}

// Glow is the pointer-tracking overlay state of a single panel. It starts
// idle with its centre at the origin and switches to tracking on the first
// pointer move.
type Glow struct {
	Radius int    // gradient radius in pixels
	Color  string // inner colour of the gradient
	Fade   int    // percentage at which the gradient becomes transparent

	center   Point
	tracking bool
}

// NewGlow returns a Glow with the default radius, colour and fade.
func NewGlow() *Glow {
	return &Glow{
		Radius: 600,
		Color:  "rgba(88,166,255,0.15)",
		Fade:   40,
	}
}

// Track stores the pointer position relative to the panel's top-left corner.
// A nil panel is skipped and reported as false. Positions outside the panel
// are kept as they are.
func (g *Glow) Track(panel *Rect, clientX, clientY float64) bool {
	if panel == nil {
		return false
	}

	g.center = Point{X: clientX - panel.Left, Y: clientY - panel.Top}
	g.tracking = true
	return true
}

// Center returns the gradient centre and whether any pointer data was seen.
func (g *Glow) Center() (Point, bool) {
	return g.center, g.tracking
}

// Reset returns the glow to its idle state.
func (g *Glow) Reset() {
	g.center = Point{}
	g.tracking = false
}

// Gradient returns the CSS background for the current centre.
func (g *Glow) Gradient() string {
	return fmt.Sprintf("radial-gradient(%dpx circle at %spx %spx, %s, transparent %d%%)",
		g.Radius, formatPixels(g.center.X), formatPixels(g.center.Y), g.Color, g.Fade)
}

func formatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
