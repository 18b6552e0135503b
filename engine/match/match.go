// Package match implements the match/round controller: round
// initialization with mirrored starting placement, the per-tick
// simulation loop, win-condition evaluation and tie-breaking, and the
// round/match counters that decide when a match ends.
package match

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/1siamBot/rts-engine/engine/agent"
	"github.com/1siamBot/rts-engine/engine/catalog"
	"github.com/1siamBot/rts-engine/engine/command"
	"github.com/1siamBot/rts-engine/engine/grid"
	"github.com/1siamBot/rts-engine/engine/matchlog"
	"github.com/1siamBot/rts-engine/engine/pathfind"
	"github.com/1siamBot/rts-engine/engine/unit"
	"github.com/1siamBot/rts-engine/engine/world"
)

// RoundResult is the outcome of one completed round.
type RoundResult struct {
	Round     int
	Winner    int // -1 if no agent won (time expired with a true tie, impossible per tie-break, but kept defensive)
	Scores    [2]int
	GoldLeft  [2]int
	EndedBy   string // "elimination", "timeout", or "paused" (GameSpeed <= 0)
}

// MatchResult is the outcome of a full match.
type MatchResult struct {
	Rounds      []RoundResult
	RoundWins   [2]int
	MatchWinner int
}

// Controller drives one match between two agents: repeated rounds on
// a fresh World, agent lifecycle hooks, and win/tie-break evaluation.
type Controller struct {
	Config  Config
	Agents  [2]agent.Agent
	Log     zerolog.Logger
	MatchID string // correlates this match's log lines and CSV output directory

	rng *rand.Rand

	roundWins [2]int
	matchInit bool
}

// NewController builds a controller for a two-agent match. seed
// drives both the agent-order coin flip and is otherwise not consumed
// by any other part of the simulation, which is deterministic given
// identical commands. A fresh match id (stable for this Controller's
// lifetime) is attached to every subsequent log line and used as the
// CSV output subdirectory, so separate matches' per-agent logs never
// collide even when run with the same CSVOutputDir.
func NewController(cfg Config, agents [2]agent.Agent, log zerolog.Logger, seed int64) *Controller {
	if cfg.MaxExpansions <= 0 {
		cfg.MaxExpansions = pathfind.DefaultMaxExpansions
	}
	if cfg.RepathRetryBudget <= 0 {
		cfg.RepathRetryBudget = unit.DefaultRepathRetryBudget
	}
	if cfg.TicksPerSecond <= 0 {
		cfg.TicksPerSecond = 20
	}
	matchID := uuid.NewString()
	return &Controller{
		Config:  cfg,
		Agents:  agents,
		Log:     log.With().Str("match_id", matchID).Logger(),
		MatchID: matchID,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// roundState is everything rebuilt fresh for each round.
type roundState struct {
	world      *world.World
	graph      *pathfind.Graph
	engine     *unit.Engine
	dispatcher *command.Dispatcher
	views      [2]*agent.WorldView
	actions    [2]*agent.Actions
	sinks      [2]*matchlog.Sink // nil when Config.CSVOutputDir is unset
	order      [2]int            // agent-call order this round, decided by coin flip
	gameTime   float64
}

// mirror reflects a footprint anchor across the map for the opponent's
// starting placement. The height term keeps the source formula's
// unexplained "-2" offset (DESIGN.md records that decision), so the
// result is point-symmetric only for footprints of height 1; a 3x3
// mine lands 4 tiles further along y than a point-symmetric placement.
func mirror(mapW, mapH, footprintW, footprintH, x, y int) grid.Pos {
	return grid.Pos{X: mapW - footprintW - x, Y: mapH - 2 + footprintH - y}
}

func (c *Controller) newRound(roundIdx int) *roundState {
	g := grid.New(c.Config.Width, c.Config.Height)
	cat := catalog.New(c.Config.GameSpeed)
	w := world.New(g, cat)
	e := unit.NewEngine(w, c.Config.MaxExpansions, c.Config.RepathRetryBudget)
	graph := pathfind.NewGraph(g)
	disp := command.New(w, e, c.Log)

	rs := &roundState{world: w, graph: graph, engine: e, dispatcher: disp}

	w.SetGold(0, c.Config.StartingGold)
	w.SetGold(1, c.Config.StartingGold)

	workerPos := grid.Pos{X: 3, Y: c.Config.Height / 2}
	w.Place(catalog.Worker, 0, workerPos)
	w.Place(catalog.Worker, 1, mirror(c.Config.Width, c.Config.Height, 1, 1, workerPos.X, workerPos.Y))

	minesPerSide := c.Config.MinesPerRound / 2
	if minesPerSide < 1 {
		minesPerSide = 1
	}
	for i := 0; i < minesPerSide; i++ {
		anchor := grid.Pos{X: 8 + i*6, Y: c.Config.Height/2 - 6}
		m0 := w.Place(catalog.Mine, -1, anchor)
		m0.Health, m0.MaxHealth = c.Config.StartingMineGold, c.Config.StartingMineGold
		m1 := w.Place(catalog.Mine, -1, mirror(c.Config.Width, c.Config.Height, 3, 3, anchor.X, anchor.Y))
		m1.Health, m1.MaxHealth = c.Config.StartingMineGold, c.Config.StartingMineGold
	}

	for owner := 0; owner < 2; owner++ {
		rs.views[owner] = agent.NewWorldView(w, graph, owner)
		rs.actions[owner] = agent.NewActions(disp, owner)
		if c.Config.CSVOutputDir != "" {
			dir := filepath.Join(c.Config.CSVOutputDir, c.MatchID)
			name := fmt.Sprintf("agent%d-round%d", owner, roundIdx)
			sink, err := matchlog.Open(dir, name)
			if err != nil {
				c.Log.Error().Err(err).Str("sink", name).Msg("matchlog: failed to open sink")
			} else {
				rs.sinks[owner] = sink
			}
		}
	}

	// Coin flip picks which agent is polled first each tick.
	if c.rng.Intn(2) == 0 {
		rs.order = [2]int{0, 1}
	} else {
		rs.order = [2]int{1, 0}
	}

	return rs
}

// RunMatch plays rounds until RoundsPerMatch have completed, calling
// each agent's lifecycle hooks and tracking round wins. The match
// winner is the agent with more round wins, tie broken to agent 0.
func (c *Controller) RunMatch() MatchResult {
	if !c.matchInit {
		for _, a := range c.Agents {
			a.InitMatch()
		}
		c.matchInit = true
	}

	var result MatchResult
	for round := 0; round < c.Config.RoundsPerMatch; round++ {
		rs := c.newRound(round)
		for owner := 0; owner < 2; owner++ {
			c.Agents[owner].InitRound(rs.views[owner])
		}

		rr := c.runRound(rs, round)
		result.Rounds = append(result.Rounds, rr)
		if rr.Winner >= 0 {
			c.roundWins[rr.Winner]++
		}

		if c.Config.EnableLearning {
			for owner := 0; owner < 2; owner++ {
				c.Agents[owner].Learn(rs.views[owner])
			}
		}
	}

	result.RoundWins = c.roundWins
	if c.roundWins[0] >= c.roundWins[1] {
		result.MatchWinner = 0
	} else {
		result.MatchWinner = 1
	}
	return result
}

// runRound drives the tick loop for one round until a winner is
// decided.
func (c *Controller) runRound(rs *roundState, roundIdx int) RoundResult {
	dt := 1.0 / c.Config.TicksPerSecond

	if c.Config.GameSpeed <= 0 {
		// game_speed=0 is a permanent pause: total_game_time never
		// advances, so a round run at this speed could never reach
		// the timeout branch. Instead of looping forever, runRound
		// scores the round at once, with the same score-then-gold
		// tie-break as a timeout, and reports EndedBy "paused".
		scores := [2]int{c.score(rs.world, 0), c.score(rs.world, 1)}
		gold := [2]int{rs.world.Gold(0), rs.world.Gold(1)}
		winner := 0
		if scores[1] > scores[0] || (scores[1] == scores[0] && gold[1] > gold[0]) {
			winner = 1
		}
		c.teardown(rs)
		return RoundResult{Round: roundIdx, Winner: winner, Scores: scores, GoldLeft: gold, EndedBy: "paused"}
	}

	for {
		rs.gameTime += dt * float64(c.Config.GameSpeed)

		for _, owner := range rs.order {
			c.Agents[owner].Update(rs.views[owner], rs.actions[owner])
			c.flushLog(rs, owner)
		}
		rs.engine.AdvanceAll(dt)

		if winner, ended, reason := c.evaluateWinner(rs); ended {
			scores := [2]int{c.score(rs.world, 0), c.score(rs.world, 1)}
			gold := [2]int{rs.world.Gold(0), rs.world.Gold(1)}
			c.teardown(rs)
			return RoundResult{Round: roundIdx, Winner: winner, Scores: scores, GoldLeft: gold, EndedBy: reason}
		}
	}
}

// flushLog drains any lines an agent queued via Actions.Log/record
// this tick and appends them to that agent's CSV sink, if one is
// open.
func (c *Controller) flushLog(rs *roundState, owner int) {
	sink := rs.sinks[owner]
	if sink == nil {
		return
	}
	for _, line := range rs.actions[owner].DrainLog() {
		if err := sink.WriteLine(line); err != nil {
			c.Log.Error().Err(err).Int("owner", owner).Msg("matchlog: failed to write line")
		}
	}
}

func (c *Controller) teardown(rs *roundState) {
	for _, id := range rs.world.AllIDsOrdered() {
		rs.world.Destroy(id)
	}
	rs.world.FlushDestructions()

	for owner := 0; owner < 2; owner++ {
		if sink := rs.sinks[owner]; sink != nil {
			c.flushLog(rs, owner)
			if err := sink.Close(); err != nil {
				c.Log.Error().Err(err).Int("owner", owner).Msg("matchlog: failed to close sink")
			}
		}
	}
}

// evaluateWinner resolves the win condition: timeout scoring with
// gold then agent-order as tie-breaks, otherwise elimination.
func (c *Controller) evaluateWinner(rs *roundState) (winner int, ended bool, reason string) {
	if rs.gameTime > c.Config.MaxSeconds {
		s0, s1 := c.score(rs.world, 0), c.score(rs.world, 1)
		switch {
		case s0 > s1:
			return 0, true, "timeout"
		case s1 > s0:
			return 1, true, "timeout"
		}
		g0, g1 := rs.world.Gold(0), rs.world.Gold(1)
		switch {
		case g0 > g1:
			return 0, true, "timeout"
		case g1 > g0:
			return 1, true, "timeout"
		}
		return 0, true, "timeout" // fixed agent-order tie-break
	}

	alive0 := c.nonMineUnitCount(rs.world, 0) > 0
	alive1 := c.nonMineUnitCount(rs.world, 1) > 0
	switch {
	case alive0 && !alive1:
		return 0, true, "elimination"
	case alive1 && !alive0:
		return 1, true, "elimination"
	default:
		return -1, false, ""
	}
}

func (c *Controller) nonMineUnitCount(w *world.World, owner int) int {
	total := 0
	for _, t := range catalog.NonMineTypes {
		total += len(w.ByOwnerType(owner, t))
	}
	return total
}

func (c *Controller) score(w *world.World, owner int) int {
	total := 0
	for _, t := range catalog.NonMineTypes {
		total += len(w.ByOwnerType(owner, t)) * w.Catalog.UnitValue(t)
	}
	return total
}
