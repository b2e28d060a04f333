package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"netherpath/internal/engine"
	"netherpath/internal/geometry"
	"netherpath/internal/telemetry"
)

var (
	findFromX, findFromY, findFromZ int32
	findToX, findToY, findToZ       int32
	findCoarse                      bool
	findTimeout                     time.Duration
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Run a single path search and print the resulting waypoints",
	RunE:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().Int32Var(&findFromX, "from-x", 0, "start block X")
	findCmd.Flags().Int32Var(&findFromY, "from-y", 64, "start block Y")
	findCmd.Flags().Int32Var(&findFromZ, "from-z", 0, "start block Z")
	findCmd.Flags().Int32Var(&findToX, "to-x", 0, "goal block X")
	findCmd.Flags().Int32Var(&findToY, "to-y", 64, "goal block Y")
	findCmd.Flags().Int32Var(&findToZ, "to-z", 0, "goal block Z")
	findCmd.Flags().BoolVar(&findCoarse, "coarse", true, "promote start/goal to the nearest empty X4 cube before searching (X2 when false)")
	findCmd.Flags().DurationVar(&findTimeout, "timeout", 30*time.Second, "overall search timeout")
}

func runFind(cmd *cobra.Command, args []string) error {
	metrics := telemetry.New()
	eng := engine.NewContext(cfg.Terrain.Seed, metrics)

	start := geometry.BlockPos{X: findFromX, Y: findFromY, Z: findFromZ}
	goal := geometry.BlockPos{X: findToX, Y: findToY, Z: findToZ}

	path, err := eng.PathFind(context.Background(), start, goal, findCoarse, findTimeout)
	if err != nil {
		return fmt.Errorf("path find: %w", err)
	}

	fmt.Printf("path type: %s, %d waypoints\n", path.Type, len(path.Blocks))
	for i, b := range path.Blocks {
		fmt.Printf("  %3d: (%d, %d, %d)\n", i, b.X, b.Y, b.Z)
	}
	return nil
}
