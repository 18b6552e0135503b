package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/1siamBot/rts-engine/engine/agent"
	"github.com/1siamBot/rts-engine/engine/match"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play N matches headlessly and report aggregate win rates",
	Long: `bench runs the same two registered agents through N independent
matches with no rendering surface, and reports each agent's match
wins and the mean number of rounds per match. Round wins and round
length are not reported.`,
	RunE: runBenchCmd,
}

func init() {
	addMatchFlags(benchCmd)
	benchCmd.Flags().Int("matches", 10, "number of matches to play")
	viper.BindPFlag("matches", benchCmd.Flags().Lookup("matches"))
	rootCmd.AddCommand(benchCmd)
}

func runBenchCmd(cmd *cobra.Command, args []string) error {
	cfg := buildMatchConfig()
	baseSeed := viper.GetInt64("seed")
	n := viper.GetInt("matches")

	var matchWins [2]int
	var totalRounds int

	for i := 0; i < n; i++ {
		seed := baseSeed + int64(i)
		a1, a2, err := buildAgents(seed)
		if err != nil {
			return err
		}
		ctl := match.NewController(cfg, [2]agent.Agent{a1, a2}, log, seed)
		result := ctl.RunMatch()
		matchWins[result.MatchWinner]++
		totalRounds += len(result.Rounds)
	}

	fmt.Printf("matches played: %d\n", n)
	fmt.Printf("agent0 wins: %d (%.1f%%)\n", matchWins[0], 100*float64(matchWins[0])/float64(n))
	fmt.Printf("agent1 wins: %d (%.1f%%)\n", matchWins[1], 100*float64(matchWins[1])/float64(n))
	if totalRounds > 0 {
		fmt.Printf("mean rounds per match: %.2f\n", float64(totalRounds)/float64(n))
	}
	return nil
}
