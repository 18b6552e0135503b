package reference

import (
	"math/rand"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1siamBot/rts-engine/engine/agent"
	"github.com/1siamBot/rts-engine/engine/match"
)

func TestAgent_PlaysARoundWithoutPanicking(t *testing.T) {
	cfg := match.DefaultConfig()
	cfg.RoundsPerMatch = 1
	cfg.MaxSeconds = 5 // short enough to finish the test quickly
	cfg.GameSpeed = 20
	cfg.TicksPerSecond = 20

	agents := [2]agent.Agent{
		New(Hard, rand.New(rand.NewSource(1))),
		New(Easy, rand.New(rand.NewSource(2))),
	}
	log := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	ctl := match.NewController(cfg, agents, log, 7)

	result := ctl.RunMatch()
	if len(result.Rounds) != 1 {
		t.Fatalf("rounds = %d, want 1", len(result.Rounds))
	}
	rr := result.Rounds[0]
	if rr.EndedBy != "timeout" && rr.EndedBy != "elimination" {
		t.Fatalf("unexpected end reason %q", rr.EndedBy)
	}
}

func TestResetTimers_HardIsFasterThanEasy(t *testing.T) {
	hard := New(Hard, nil)
	easy := New(Easy, nil)
	if hard.thinkInterval >= easy.thinkInterval {
		t.Fatalf("hard.thinkInterval = %v, want < easy's %v", hard.thinkInterval, easy.thinkInterval)
	}
	if hard.attackInterval >= easy.attackInterval {
		t.Fatalf("hard.attackInterval = %v, want < easy's %v", hard.attackInterval, easy.attackInterval)
	}
}
