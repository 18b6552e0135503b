// Package cmd implements the rtsctl command-line tool: rtsctl run
// plays one match between two registered agents, rtsctl bench plays
// N matches headlessly and reports aggregate win rates, and rtsctl
// validate-map reports buildability/walkability statistics for a map
// file, exercising only the grid component.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	log     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "rtsctl",
	Short:        "Drive matches in the grid RTS simulation engine",
	SilenceUsage: true,
	Long: `rtsctl runs and benchmarks matches between registered agents in the
grid-based RTS simulation engine, and validates map files before they
are used in a match.

Examples:
  rtsctl run --agent1 reference --agent2 reference
  rtsctl bench --matches 20 --agent1 reference --agent2 reference
  rtsctl validate-map --file maps/demo.txt`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.rtsctl.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".rtsctl")
		}
	}

	viper.SetEnvPrefix("RTSCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && isVerbose() {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	level := zerolog.InfoLevel
	if isVerbose() {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}
