package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"netherpath/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pathfinder",
	Short: "Hierarchical A* pathfinding over a Nether-shaped voxel world",
	Long: `pathfinder drives netherpath's search engine from the command line.

It supports a single-shot route query (find), a repeated-query profiling
mode (bench), and a local debug server that streams search progress to a
websocket client (serve).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a JSON config file (defaults are used if omitted)")
	rootCmd.PersistentFlags().Int64("seed", 1337, "terrain generation seed")
	rootCmd.PersistentFlags().Int("goal-radius", 16, "search.goalRadius config override (validated only; searches use the engine's built-in 16-block arrival radius)")

	viper.SetEnvPrefix("PATHFINDER")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	_ = viper.BindPFlag("goal-radius", rootCmd.PersistentFlags().Lookup("goal-radius"))
}

// loadConfig layers the JSON file (if any) underneath flag/env overrides
// bound through viper, so precedence is flags > env > file > built-in
// defaults.
func loadConfig() (*config.Config, error) {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if viper.IsSet("seed") {
		loaded.Terrain.Seed = viper.GetInt64("seed")
	}
	if viper.IsSet("goal-radius") {
		loaded.Search.GoalRadius = viper.GetFloat64("goal-radius")
	}

	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return loaded, nil
}
