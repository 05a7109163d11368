package main

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

func TestAutoplayFinishes(t *testing.T) {
	for _, size := range []int{2, 3, 4} {
		cfg := engine.DefaultConfig()
		cfg.Size = size
		cfg.Threshold = 0

		res := autoplay(cfg, rand.New(rand.NewSource(int64(size))))
		if !res.Finished {
			t.Errorf("size %d: game did not finish after %d swipes", size, res.Swipes)
		}
		if res.Moves > res.Swipes {
			t.Errorf("size %d: %d moves from %d swipes", size, res.Moves, res.Swipes)
		}
		if res.MaxTile < 2 {
			t.Errorf("size %d: max tile %d", size, res.MaxTile)
		}
	}
}

func TestAutoplayDeterministic(t *testing.T) {
	cfg := engine.DefaultConfig()
	a := autoplay(cfg, rand.New(rand.NewSource(99)))
	b := autoplay(cfg, rand.New(rand.NewSource(99)))
	if a != b {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
}
