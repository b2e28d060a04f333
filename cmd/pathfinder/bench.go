package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"netherpath/internal/engine"
	"netherpath/internal/geometry"
	"netherpath/internal/telemetry"
)

var (
	benchRuns   int
	benchSpread int32
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Repeat random path searches and report latency statistics",
	RunE:  runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchRuns, "runs", 20, "number of searches to run")
	benchCmd.Flags().Int32Var(&benchSpread, "spread", 64, "max block offset of start/goal from the origin")
}

func runBench(cmd *cobra.Command, args []string) error {
	metrics := telemetry.New()
	eng := engine.NewContext(cfg.Terrain.Seed, metrics)

	rng := rand.New(rand.NewSource(cfg.Terrain.Seed))
	var total time.Duration
	var failures int

	for i := 0; i < benchRuns; i++ {
		start := randomBlockPos(rng, benchSpread)
		goal := randomBlockPos(rng, benchSpread)

		begin := time.Now()
		path, err := eng.PathFind(context.Background(), start, goal, true, cfg.Search.FailureTimeout)
		elapsed := time.Since(begin)
		total += elapsed

		if err != nil {
			failures++
			fmt.Printf("run %2d: FAILED in %s (%v)\n", i, elapsed, err)
			continue
		}
		fmt.Printf("run %2d: %s waypoints=%d elapsed=%s\n", i, path.Type, len(path.Blocks), elapsed)
	}

	fmt.Printf("\n%d runs, %d failures, avg %s\n", benchRuns, failures, total/time.Duration(max(benchRuns, 1)))
	return nil
}

func randomBlockPos(rng *rand.Rand, spread int32) geometry.BlockPos {
	return geometry.BlockPos{
		X: rng.Int31n(2*spread+1) - spread,
		Y: 64,
		Z: rng.Int31n(2*spread+1) - spread,
	}
}
