// Package landmark resolves named anatomical points and geometrically
// derives the ones that are not directly placed. Labels are matched
// after normalization (trimmed, lower-cased, separators stripped) so
// that "Condylion R", "condylion_r", and "CondylionR" are the same
// landmark.
package landmark

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
)

// Repository is the host-supplied source of named points. The pipeline
// never performs scene discovery itself; it asks the repository.
type Repository interface {
	// Get returns the point for the exact normalized label.
	Get(label string) (r3.Vec, bool)
	// Labels returns all normalized labels in a stable order.
	Labels() []string
}

// Set is an in-memory Repository keyed by normalized label.
type Set struct {
	points map[string]r3.Vec
}

// NewSet builds a Set from raw label/point pairs. Labels that collide
// after normalization are rejected so a run can never silently prefer
// one placement of a landmark over another.
func NewSet(points map[string]r3.Vec) (*Set, error) {
	s := &Set{points: make(map[string]r3.Vec, len(points))}
	for label, p := range points {
		key := Normalize(label)
		if key == "" {
			return nil, fmt.Errorf("landmark: empty label after normalization (%q): %w",
				label, geom.ErrDegenerateInput)
		}
		if _, dup := s.points[key]; dup {
			return nil, fmt.Errorf("landmark: duplicate label %q after normalization: %w",
				label, geom.ErrDegenerateInput)
		}
		s.points[key] = p
	}
	return s, nil
}

// Normalize maps a raw label to its lookup key: trimmed, lower-cased,
// with space, underscore, and hyphen separators removed.
func Normalize(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, label)
}

// Get implements Repository.
func (s *Set) Get(label string) (r3.Vec, bool) {
	p, ok := s.points[Normalize(label)]
	return p, ok
}

// Labels implements Repository; the order is sorted for determinism.
func (s *Set) Labels() []string {
	out := make([]string, 0, len(s.points))
	for l := range s.points {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Find returns the first of the given synonyms present in repo,
// checking them in argument order. Missing landmarks are always a hard
// failure; the pipeline never substitutes defaults for anatomy.
func Find(repo Repository, synonyms ...string) (r3.Vec, error) {
	for _, label := range synonyms {
		if p, ok := repo.Get(label); ok {
			return p, nil
		}
	}
	return r3.Vec{}, fmt.Errorf("landmark: none of %v present: %w", synonyms, geom.ErrNotFound)
}
