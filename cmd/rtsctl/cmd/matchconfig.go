package cmd

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/1siamBot/rts-engine/agents/reference"
	"github.com/1siamBot/rts-engine/engine/agent"
	"github.com/1siamBot/rts-engine/engine/match"
)

// addMatchFlags registers the match-settings flags shared by the run
// and bench subcommands.
func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("starting-gold", 1000, "starting gold per agent")
	cmd.Flags().Int("starting-mine-gold", 10000, "starting gold per mine")
	cmd.Flags().Int("mines-per-round", 2, "mines placed per round")
	cmd.Flags().Int("game-speed", 1, "simulation speed multiplier, 0-30 (0 pauses)")
	cmd.Flags().Int("rounds-per-match", 3, "rounds played per match")
	cmd.Flags().Float64("max-seconds", 300, "max simulated seconds per round before timeout")
	cmd.Flags().Bool("enable-learning", true, "call each agent's Learn hook at round end")
	cmd.Flags().String("csv-dir", "", "directory for per-agent CSV logs (empty disables logging)")
	cmd.Flags().String("agent1", "reference", "agent registered for player 0")
	cmd.Flags().String("agent2", "reference", "agent registered for player 1")
	cmd.Flags().Int64("seed", 1, "seed for the agent-order coin flip and any agent randomness")

	for _, name := range []string{
		"starting-gold", "starting-mine-gold", "mines-per-round", "game-speed",
		"rounds-per-match", "max-seconds", "enable-learning", "csv-dir",
		"agent1", "agent2", "seed",
	} {
		viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
}

func buildMatchConfig() match.Config {
	cfg := match.DefaultConfig()
	cfg.StartingGold = viper.GetInt("starting-gold")
	cfg.StartingMineGold = viper.GetInt("starting-mine-gold")
	cfg.MinesPerRound = viper.GetInt("mines-per-round")
	cfg.GameSpeed = viper.GetInt("game-speed")
	cfg.RoundsPerMatch = viper.GetInt("rounds-per-match")
	cfg.MaxSeconds = viper.GetFloat64("max-seconds")
	cfg.EnableLearning = viper.GetBool("enable-learning")
	cfg.CSVOutputDir = viper.GetString("csv-dir")
	return cfg
}

// resolveAgent looks up a registered agent by name. "reference" is
// the only agent shipped in this repo; additional agents register
// here by name as they're added.
func resolveAgent(name string, seed int64) (agent.Agent, error) {
	switch name {
	case "reference", "reference-easy":
		return reference.New(reference.Easy, rand.New(rand.NewSource(seed))), nil
	case "reference-medium":
		return reference.New(reference.Medium, rand.New(rand.NewSource(seed))), nil
	case "reference-hard":
		return reference.New(reference.Hard, rand.New(rand.NewSource(seed))), nil
	default:
		return nil, fmt.Errorf("rtsctl: unknown agent %q", name)
	}
}

func buildAgents(seed int64) (agent.Agent, agent.Agent, error) {
	a1, err := resolveAgent(viper.GetString("agent1"), seed)
	if err != nil {
		return nil, nil, err
	}
	a2, err := resolveAgent(viper.GetString("agent2"), seed+1)
	if err != nil {
		return nil, nil, err
	}
	return a1, a2, nil
}
