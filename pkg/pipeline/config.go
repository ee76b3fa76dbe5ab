package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/osteoplan/osteoplan/pkg/guide"
	"github.com/osteoplan/osteoplan/pkg/landmark"
	"github.com/osteoplan/osteoplan/pkg/sheet"
	"github.com/osteoplan/osteoplan/pkg/split"
)

// Config aggregates every numeric tolerance and label convention of a
// plan run. All values are defaulted; hosts override selectively.
type Config struct {
	// PlaneLandmarks are the synonym sets of the midline fiducials the
	// symmetry plane is fitted through: 3 sets for an exact plane, 4
	// for a best-fit plane.
	PlaneLandmarks [][]string `json:"planeLandmarks"`

	// Synonym sets for the landmarks of the outer-point triangulation.
	MentonLabels         []string `json:"mentonLabels"`
	CondylionRightLabels []string `json:"condylionRightLabels"`
	CondylionLeftLabels  []string `json:"condylionLeftLabels"`

	// UpAxisHint orients curve frames; superior direction in the world
	// frame of the scan.
	UpAxisHint r3.Vec `json:"upAxisHint"`

	Sheet      sheet.Config              `json:"sheet"`
	Split      split.Config              `json:"split"`
	Guide      guide.Config              `json:"guide"`
	OuterPoint landmark.OuterPointConfig `json:"outerPoint"`
}

// DefaultConfig returns the planning defaults.
func DefaultConfig() Config {
	return Config{
		PlaneLandmarks: [][]string{
			{"S", "Sella"},
			{"N", "Nasion"},
			{"Ba", "Basion"},
			{"Me", "Menton"},
		},
		MentonLabels:         []string{"Me", "Menton"},
		CondylionRightLabels: []string{"Co R", "CoR", "Condylion R"},
		CondylionLeftLabels:  []string{"Co L", "CoL", "Condylion L"},
		UpAxisHint:           r3.Vec{Z: 1},
		Sheet:                sheet.DefaultConfig(),
		Split:                split.DefaultConfig(),
		Guide:                guide.DefaultConfig(),
		OuterPoint:           landmark.DefaultOuterPointConfig(),
	}
}

// LoadConfig reads a JSON config file over the defaults, so partial
// files override only the fields they name.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("pipeline: config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("pipeline: config: %w", err)
	}
	return cfg, nil
}
