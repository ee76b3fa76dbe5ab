package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osteoplan/osteoplan/pkg/stl"
)

var infoCmd = &cobra.Command{
	Use:   "info <mesh.stl>",
	Short: "Display statistics for an STL mesh",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	m, err := stl.Read(args[0])
	if err != nil {
		fatalf("loading mesh: %v", err)
	}
	min, max := m.Bounds()
	fmt.Printf("vertices:  %d\n", m.VertexCount())
	fmt.Printf("triangles: %d\n", m.TriangleCount())
	fmt.Printf("area:      %.2f mm^2\n", m.Area())
	fmt.Printf("bounds:    (%.2f %.2f %.2f) .. (%.2f %.2f %.2f)\n",
		min.X, min.Y, min.Z, max.X, max.Y, max.Z)
	fmt.Printf("components: %d\n", len(m.Components()))
}
