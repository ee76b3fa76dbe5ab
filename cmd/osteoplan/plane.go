package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osteoplan/osteoplan/pkg/pipeline"
)

var planeCmd = &cobra.Command{
	Use:   "plane <landmarks.json>",
	Short: "Fit the symmetry plane from labeled landmarks",
	Long: `Fit the bilateral symmetry plane through the configured midline
landmarks: an exact plane through 3 fiducials or a PCA best-fit plane
through 4.`,
	Args: cobra.ExactArgs(1),
	Run:  runPlane,
}

func init() {
	planeCmd.Flags().StringVar(&configPath, "config", "", "JSON config file overriding planning defaults")
	rootCmd.AddCommand(planeCmd)
}

func runPlane(cmd *cobra.Command, args []string) {
	cfg := mustConfig()
	repo, err := loadLandmarks(args[0])
	if err != nil {
		fatalf("loading landmarks: %v", err)
	}
	pl, err := pipeline.FitSymmetryPlane(repo, cfg)
	if err != nil {
		fatalf("fitting plane: %v", err)
	}
	fmt.Printf("origin: %.4f %.4f %.4f\n", pl.Origin.X, pl.Origin.Y, pl.Origin.Z)
	fmt.Printf("normal: %.6f %.6f %.6f\n", pl.Normal.X, pl.Normal.Y, pl.Normal.Z)
}

var configPath string

func mustConfig() pipeline.Config {
	if configPath == "" {
		return pipeline.DefaultConfig()
	}
	cfg, err := pipeline.LoadConfig(configPath)
	if err != nil {
		fatalf("loading config: %v", err)
	}
	return cfg
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", v...)
	os.Exit(1)
}
