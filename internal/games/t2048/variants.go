// Package t2048 adapts the sliding-tile engine to the tick-driven game
// interface: input actions become swipes, engine events drive tile animation.
package t2048

import (
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Variant is a named board configuration.
type Variant struct {
	ID          string
	Title       string
	Size        int
	Threshold   int // 0 means endless: no win banner
	Description string
}

// CustomID is the variant whose size and threshold come from the rules config.
const CustomID = "custom"

// Variants lists the built-in boards in menu order.
var Variants = []Variant{
	{ID: "classic", Title: "2048", Size: 4, Threshold: 2048, Description: "Classic 4x4 board"},
	{ID: "mini", Title: "2048 Mini", Size: 3, Threshold: 256, Description: "Cramped 3x3 board, reach 256"},
	{ID: "big", Title: "2048 Big", Size: 5, Threshold: 4096, Description: "Roomy 5x5 board, reach 4096"},
	{ID: "huge", Title: "2048 Huge", Size: 6, Threshold: 8192, Description: "6x6 marathon, reach 8192"},
	{ID: "endless", Title: "2048 Endless", Size: 4, Threshold: 0, Description: "4x4 with no target"},
	{ID: CustomID, Title: "2048 Custom", Description: "Board and target from t2048.yaml"},
}

// Package-level rules shared by every game instance.
// Set once at startup, before games are created.
var rules = config.DefaultT2048Config()

// Configure sets the rules config used by games created afterwards.
func Configure(cfg config.T2048Config) {
	rules = cfg
}

// Rules returns the active rules config.
func Rules() config.T2048Config {
	return rules
}

// GetVariant returns the variant with the given ID.
func GetVariant(id string) (Variant, bool) {
	for _, v := range Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Resolved returns the variant with size and threshold filled in from the
// rules config for the custom variant.
func (v Variant) Resolved() Variant {
	if v.ID == CustomID {
		v.Size = rules.Board.Size
		v.Threshold = rules.Rules.Threshold
	}
	return v
}

func init() {
	for _, v := range Variants {
		registry.Register(v.ID, func() registry.Game {
			return New(v)
		})
	}
}
