// Package hud draws the in-game overlay: the player's health, the active
// effects with their remaining time, and the pause menu.
package hud

import (
	"fmt"
	"time"

	"github.com/milk9111/buffrunner/effect"
)

// Line renders one active effect, e.g. "Speed Up  3.5s".
func Line(a effect.ActiveEffect) string {
	label := a.Label
	if label == "" {
		label = a.Kind.String()
	}
	return fmt.Sprintf("%s  %s", label, seconds(a.Remaining))
}

// seconds formats d with one decimal, rounding up so an effect never shows
// 0.0s while still active.
func seconds(d time.Duration) string {
	if d <= 0 {
		return "0.0s"
	}
	tenths := (d + 100*time.Millisecond - 1) / (100 * time.Millisecond)
	return fmt.Sprintf("%d.%ds", tenths/10, tenths%10)
}

// HealthLine renders the player's hit points.
func HealthLine(current, max int) string {
	return fmt.Sprintf("HP %d/%d", current, max)
}
