package landmark

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/geom"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Condylion R", "condylionr"},
		{"condylion_r", "condylionr"},
		{"CONDYLION-R", "condylionr"},
		{"  Menton ", "menton"},
		{"N", "n"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewSetRejectsCollisions(t *testing.T) {
	_, err := NewSet(map[string]r3.Vec{
		"Condylion R": {X: 1},
		"condylion_r": {X: 2},
	})
	if !errors.Is(err, geom.ErrDegenerateInput) {
		t.Fatalf("got %v, want ErrDegenerateInput", err)
	}
	if _, err := NewSet(map[string]r3.Vec{" - ": {}}); !errors.Is(err, geom.ErrDegenerateInput) {
		t.Fatalf("empty-after-normalize label: got %v", err)
	}
}

func TestSetGetAndLabels(t *testing.T) {
	s, err := NewSet(map[string]r3.Vec{
		"Menton":      {X: 1},
		"Condylion R": {X: 2},
	})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if p, ok := s.Get("condylion-r"); !ok || p.X != 2 {
		t.Fatalf("Get(condylion-r) = %+v, %v", p, ok)
	}
	labels := s.Labels()
	if len(labels) != 2 || labels[0] != "condylionr" || labels[1] != "menton" {
		t.Fatalf("Labels() = %v", labels)
	}
}

func TestFind(t *testing.T) {
	s, err := NewSet(map[string]r3.Vec{"Gnathion": {Y: 7}})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	p, err := Find(s, "Menton", "Gnathion")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if p.Y != 7 {
		t.Fatalf("Find returned %+v", p)
	}
	if _, err := Find(s, "Basion"); !errors.Is(err, geom.ErrNotFound) {
		t.Fatalf("missing landmark: got %v, want ErrNotFound", err)
	}
}
