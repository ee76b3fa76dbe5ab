package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "osteoplan",
	Short: "Craniofacial osteotomy planning pipeline",
	Long: `osteoplan fits a bilateral symmetry plane from labeled landmarks,
builds cutting sheets along a planning curve, splits the bone surface
into fragments, and derives printable registration guides.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
