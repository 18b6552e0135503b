package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/1siamBot/rts-engine/engine/agent"
	"github.com/1siamBot/rts-engine/engine/match"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play one match between two registered agents",
	RunE:  runRunCmd,
}

func init() {
	addMatchFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg := buildMatchConfig()
	seed := viper.GetInt64("seed")

	a1, a2, err := buildAgents(seed)
	if err != nil {
		return err
	}

	ctl := match.NewController(cfg, [2]agent.Agent{a1, a2}, log, seed)
	result := ctl.RunMatch()

	for _, rr := range result.Rounds {
		fmt.Printf("round %d: winner=%d scores=%v gold=%v ended_by=%s\n",
			rr.Round, rr.Winner, rr.Scores, rr.GoldLeft, rr.EndedBy)
	}
	fmt.Printf("match winner: agent %d (round wins %v)\n", result.MatchWinner, result.RoundWins)
	return nil
}
