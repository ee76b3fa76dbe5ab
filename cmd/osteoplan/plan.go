package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/osteoplan/osteoplan/pkg/mesh"
	"github.com/osteoplan/osteoplan/pkg/pipeline"
	"github.com/osteoplan/osteoplan/pkg/stl"
)

var planOut string

var planCmd = &cobra.Command{
	Use:   "plan <bone.stl> <landmarks.json> <curve.json>",
	Short: "Run the full planning pipeline",
	Long: `Run the full pipeline: fit the symmetry plane, build the cutting
sheet along the planning curve and its mirrored counterpart, split the
bone into two fragments plus a remainder, and derive a registration
guide per fragment. Results are written as binary STL files into the
output directory.`,
	Args: cobra.ExactArgs(3),
	Run:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&configPath, "config", "", "JSON config file overriding planning defaults")
	planCmd.Flags().StringVarP(&planOut, "out", "o", ".", "output directory for result STL files")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) {
	cfg := mustConfig()

	bone, err := stl.Read(args[0])
	if err != nil {
		fatalf("loading bone mesh: %v", err)
	}
	repo, err := loadLandmarks(args[1])
	if err != nil {
		fatalf("loading landmarks: %v", err)
	}
	planningCurve, err := loadCurve(args[2])
	if err != nil {
		fatalf("loading planning curve: %v", err)
	}

	result, err := pipeline.Plan(bone, repo, planningCurve, cfg)
	if err != nil {
		fatalf("planning failed: %v", err)
	}

	fmt.Printf("plane origin: %.2f %.2f %.2f  normal: %.4f %.4f %.4f\n",
		result.Plane.Origin.X, result.Plane.Origin.Y, result.Plane.Origin.Z,
		result.Plane.Normal.X, result.Plane.Normal.Y, result.Plane.Normal.Z)

	outputs := []struct {
		name string
		mesh *mesh.TriMesh
	}{
		{"sheet_a.stl", result.Sheets[0]},
		{"sheet_b.stl", result.Sheets[1]},
		{result.Fragments[0].Role + ".stl", result.Fragments[0].Mesh},
		{result.Fragments[1].Role + ".stl", result.Fragments[1].Mesh},
		{"remainder.stl", result.Remainder.Mesh},
		{"guide_a.stl", result.Guides[0]},
		{"guide_b.stl", result.Guides[1]},
	}
	for _, out := range outputs {
		path := filepath.Join(planOut, out.name)
		if err := stl.Write(path, out.mesh); err != nil {
			fatalf("writing %s: %v", path, err)
		}
		fmt.Printf("wrote %s (%d triangles)\n", path, out.mesh.TriangleCount())
	}
}
