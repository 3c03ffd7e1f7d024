// Package clock provides the session clock shared by behavior schedulers and
// the effect manager. Timestamps are offsets from session start, so a zero
// value means "the moment the session began".
package clock

import "time"

// Clock is a monotonic timing source.
type Clock interface {
	Now() time.Duration
	ElapsedSince(t time.Duration) time.Duration
}

// GameClock is a pausable clock backed by the runtime's monotonic reading.
// While paused Now is frozen, so timers checked against it stop advancing.
// It is owned by the game loop and is not safe for concurrent use.
type GameClock struct {
	wall        func() time.Time
	start       time.Time
	paused      bool
	pausedAt    time.Time
	pausedTotal time.Duration
}

// NewGameClock starts a clock at the current instant.
func NewGameClock() *GameClock {
	return newGameClock(time.Now)
}

func newGameClock(wall func() time.Time) *GameClock {
	return &GameClock{wall: wall, start: wall()}
}

// Now returns the game time elapsed since the clock started, minus time spent
// paused.
func (c *GameClock) Now() time.Duration {
	if c == nil {
		return 0
	}
	ref := c.wall()
	if c.paused {
		ref = c.pausedAt
	}
	return ref.Sub(c.start) - c.pausedTotal
}

// ElapsedSince returns how much game time has passed since t. Timestamps from
// the future yield zero.
func (c *GameClock) ElapsedSince(t time.Duration) time.Duration {
	return elapsed(c.Now(), t)
}

// Pause freezes game time. Pausing twice is a no-op.
func (c *GameClock) Pause() {
	if c == nil || c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.wall()
}

// Resume continues game time from where it was paused.
func (c *GameClock) Resume() {
	if c == nil || !c.paused {
		return
	}
	c.pausedTotal += c.wall().Sub(c.pausedAt)
	c.paused = false
	c.pausedAt = time.Time{}
}

// Paused reports whether the clock is frozen.
func (c *GameClock) Paused() bool {
	return c != nil && c.paused
}

// Manual is a clock that only moves when told to. Tests and the headless
// simulator drive it one frame at a time.
type Manual struct {
	now time.Duration
}

// NewManual returns a manual clock reading start.
func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Duration {
	if m == nil {
		return 0
	}
	return m.now
}

func (m *Manual) ElapsedSince(t time.Duration) time.Duration {
	return elapsed(m.Now(), t)
}

// Set jumps the clock to t. Moving backwards is ignored to keep the clock
// monotonic.
func (m *Manual) Set(t time.Duration) {
	if m == nil || t < m.now {
		return
	}
	m.now = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	if m == nil || d <= 0 {
		return
	}
	m.now += d
}

func elapsed(now, t time.Duration) time.Duration {
	d := now - t
	if d < 0 {
		return 0
	}
	return d
}
