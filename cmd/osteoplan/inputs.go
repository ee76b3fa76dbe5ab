package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/curve"
	"github.com/osteoplan/osteoplan/pkg/landmark"
)

// loadLandmarks reads a JSON object of label -> [x, y, z] world
// coordinates into a landmark set.
func loadLandmarks(filename string) (*landmark.Set, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var raw map[string][3]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("landmarks %s: %w", filename, err)
	}
	points := make(map[string]r3.Vec, len(raw))
	for label, p := range raw {
		points[label] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
	}
	return landmark.NewSet(points)
}

// loadCurve reads a JSON array of [x, y, z] points into a polyline.
func loadCurve(filename string) (curve.Polyline, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var raw [][3]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("curve %s: %w", filename, err)
	}
	p := make(curve.Polyline, len(raw))
	for i, v := range raw {
		p[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
