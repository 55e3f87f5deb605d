package engine

import (
	"fmt"
	"time"

	"github.com/tomgun/saktris-game-sub001/board"
)

// ChessClock is the advisory per-side countdown. The core never enforces a
// deadline itself; a host ticks the clock and reports expiry to the Game,
// which treats it as a time-forfeit outcome. All methods take explicit
// timestamps so hosts and tests control the time source.
type ChessClock struct {
	remaining [2]time.Duration
	active    board.Color
	running   bool
	lastTick  time.Time
}

// NewChessClock gives both sides the same budget. A zero budget means
// untimed; Expired never fires.
func NewChessClock(budget time.Duration) *ChessClock {
	return &ChessClock{remaining: [2]time.Duration{budget, budget}}
}

// Start begins counting down for the given side.
func (c *ChessClock) Start(side board.Color, now time.Time) {
	c.active = side
	c.running = true
	c.lastTick = now
}

// Stop halts the countdown, charging the active side for time since the last
// tick.
func (c *ChessClock) Stop(now time.Time) {
	c.settle(now)
	c.running = false
}

// Switch charges the active side and hands the clock to the other side.
func (c *ChessClock) Switch(now time.Time) {
	c.settle(now)
	c.active = c.active.Opposite()
}

// Tick charges the active side up to now without switching.
func (c *ChessClock) Tick(now time.Time) { c.settle(now) }

func (c *ChessClock) settle(now time.Time) {
	if !c.running {
		return
	}
	elapsed := now.Sub(c.lastTick)
	if elapsed > 0 {
		c.remaining[c.active] -= elapsed
		if c.remaining[c.active] < 0 {
			c.remaining[c.active] = 0
		}
	}
	c.lastTick = now
}

// Remaining returns the side's budget as of the last tick.
func (c *ChessClock) Remaining(side board.Color) time.Duration {
	return c.remaining[side]
}

// Expired reports whether the side has used its whole budget. Untimed clocks
// never expire.
func (c *ChessClock) Expired(side board.Color) bool {
	return c.remaining[side] <= 0 && c.remaining[side.Opposite()] > 0
}

// Active returns the side currently on the clock.
func (c *ChessClock) Active() board.Color { return c.active }

// ClockSnapshot is the serializable form of a ChessClock, in milliseconds.
type ClockSnapshot struct {
	WhiteMillis int64  `json:"white_ms"`
	BlackMillis int64  `json:"black_ms"`
	Active      string `json:"active"`
}

// Snapshot captures the remaining budgets. The clock is restored stopped; the
// host restarts it when play resumes.
func (c *ChessClock) Snapshot() ClockSnapshot {
	active := "w"
	if c.active == board.Black {
		active = "b"
	}
	return ClockSnapshot{
		WhiteMillis: c.remaining[board.White].Milliseconds(),
		BlackMillis: c.remaining[board.Black].Milliseconds(),
		Active:      active,
	}
}

// RestoreSnapshot rebuilds the clock, stopped.
func (c *ChessClock) RestoreSnapshot(s ClockSnapshot) error {
	if s.WhiteMillis < 0 || s.BlackMillis < 0 {
		return fmt.Errorf("clock budgets must not be negative")
	}
	switch s.Active {
	case "w":
		c.active = board.White
	case "b":
		c.active = board.Black
	default:
		return fmt.Errorf("active: want \"w\" or \"b\", got %q", s.Active)
	}
	c.remaining[board.White] = time.Duration(s.WhiteMillis) * time.Millisecond
	c.remaining[board.Black] = time.Duration(s.BlackMillis) * time.Millisecond
	c.running = false
	return nil
}
