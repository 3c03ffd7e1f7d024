package hud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/buffrunner/effect"
)

func TestLine(t *testing.T) {
	cases := []struct {
		name string
		in   effect.ActiveEffect
		want string
	}{
		{"whole", effect.ActiveEffect{Label: "Speed Up", Remaining: 3 * time.Second}, "Speed Up  3.0s"},
		{"rounds_up", effect.ActiveEffect{Label: "Slowed", Remaining: 3401 * time.Millisecond}, "Slowed  3.5s"},
		{"last_sliver", effect.ActiveEffect{Label: "Invincible", Remaining: time.Millisecond}, "Invincible  0.1s"},
		{"expired", effect.ActiveEffect{Label: "Invincible"}, "Invincible  0.0s"},
		{"no_label", effect.ActiveEffect{Kind: effect.JumpBoost, Remaining: 12 * time.Second}, "jump_boost  12.0s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Line(tc.in))
		})
	}
}

func TestHealthLine(t *testing.T) {
	assert.Equal(t, "HP 2/5", HealthLine(2, 5))
}
