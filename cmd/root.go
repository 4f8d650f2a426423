package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "magesync",
	Short: "Catalog synchronization between the local ERP catalog and Magento",
}

// Execute runs the CLI. Prints an ASCII banner first (random font each run).
func Execute() {
	fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles"}
	fig := figure.NewFigure("MageSync ->", fonts[rand.Intn(len(fonts))], true)
	fig.Print()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
