// Package calib fits the linear map from raw sensor readings to a
// reference instrument's values.
package calib

import (
	"errors"

	"github.com/chewxy/math32"
)

var (
	ErrTooFewPoints = errors.New("calib: need at least two points")
	ErrDegenerate   = errors.New("calib: readings do not vary")
)

// Point pairs a sensor reading with the reference value measured at the
// same time.
type Point struct {
	Reading   uint16
	Reference float32
}

// Line maps a reading to physical units.
type Line struct {
	Slope  float32
	Offset float32
}

// Apply converts a raw reading.
func (l Line) Apply(reading uint16) float32 {
	return l.Slope*float32(reading) + l.Offset
}

// Fit computes the least-squares line through points. It returns the line
// and the RMS residual in reference units.
func Fit(points []Point) (Line, float32, error) {
	if len(points) < 2 {
		return Line{}, 0, ErrTooFewPoints
	}

	n := float32(len(points))
	var meanX, meanY float32
	for _, p := range points {
		meanX += float32(p.Reading)
		meanY += p.Reference
	}
	meanX /= n
	meanY /= n

	var sxx, sxy float32
	for _, p := range points {
		dx := float32(p.Reading) - meanX
		sxx += dx * dx
		sxy += dx * (p.Reference - meanY)
	}
	if sxx == 0 {
		return Line{}, 0, ErrDegenerate
	}

	line := Line{Slope: sxy / sxx}
	line.Offset = meanY - line.Slope*meanX

	var ss float32
	for _, p := range points {
		r := p.Reference - line.Apply(p.Reading)
		ss += r * r
	}
	return line, math32.Sqrt(ss / n), nil
}

// Collector averages several readings per reference step, the way a
// calibration sweep holds each input voltage for a number of samples.
type Collector struct {
	points []Point

	sum   float32
	count int
	ref   float32
}

// Begin starts a new step at the given reference value. Samples of an
// unfinished step are discarded.
func (c *Collector) Begin(reference float32) {
	c.ref = reference
	c.sum = 0
	c.count = 0
}

// Add records one reading for the current step.
func (c *Collector) Add(reading uint16) {
	c.sum += float32(reading)
	c.count++
}

// End closes the step, storing the rounded mean reading. Steps without
// samples are dropped.
func (c *Collector) End() {
	if c.count == 0 {
		return
	}
	mean := math32.Floor(c.sum/float32(c.count) + 0.5)
	c.points = append(c.points, Point{Reading: uint16(mean), Reference: c.ref})
	c.count = 0
}

// Points returns the collected steps.
func (c *Collector) Points() []Point {
	return append([]Point(nil), c.points...)
}
