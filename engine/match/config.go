package match

// Config holds the settings that parameterize one match.
type Config struct {
	Width, Height int // map dimensions, chosen large enough to place mirrored starts

	StartingGold     int     // per agent, default 1000
	StartingMineGold int     // per mine, default 10000
	MinesPerRound    int     // default 2 (one per agent)
	GameSpeed        int     // default 1, valid range [0, 30]; 0 pauses
	RoundsPerMatch   int     // default 3
	MaxSeconds       float64 // max_seconds_per_round, default 300
	EnableLearning   bool

	MaxExpansions     int // A* expansion cap override; 0 means pathfind.DefaultMaxExpansions
	RepathRetryBudget int // 0 means unit.DefaultRepathRetryBudget

	TicksPerSecond float64 // simulation step resolution, independent of GameSpeed; 0 means 20

	CSVOutputDir string // if set, each agent's Actions.Log lines are flushed to <dir>/<match id>/agent<N>-round<R>.csv per round
}

// DefaultConfig returns the out-of-the-box default match settings.
func DefaultConfig() Config {
	return Config{
		Width: 40, Height: 40,
		StartingGold:     1000,
		StartingMineGold: 10000,
		MinesPerRound:    2,
		GameSpeed:        1,
		RoundsPerMatch:   3,
		MaxSeconds:       300,
		EnableLearning:   true,
	}
}
