package component

// Health is hit points for anything that can be hurt or healed.
type Health struct {
	Max     int
	Current int
}

// NewHealth returns full health. A non-positive max is clamped to 1.
func NewHealth(max int) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

func (h *Health) Dead() bool {
	return h == nil || h.Current <= 0
}

// Heal restores up to Max and returns the amount actually restored.
func (h *Health) Heal(amount int) int {
	if h == nil || amount <= 0 || h.Dead() {
		return 0
	}
	before := h.Current
	h.Current = min(h.Current+amount, h.Max)
	return h.Current - before
}

// Damage removes up to Current and returns the amount actually removed.
func (h *Health) Damage(amount int) int {
	if h == nil || amount <= 0 {
		return 0
	}
	before := h.Current
	h.Current = max(h.Current-amount, 0)
	return before - h.Current
}

var HealthComponent = NewComponent[Health]("health")
