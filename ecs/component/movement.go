package component

// Stat names one of Movement's scaled values.
type Stat int

const (
	StatSpeed Stat = iota
	StatJump
	StatGravity
)

type modifier struct {
	source string
	factor float64
}

// Movement is the player's locomotion tuning. Each *Scale field is the product
// of the factors placed on its stat and is 1 when none are.
type Movement struct {
	MoveSpeed    float64
	JumpSpeed    float64
	SpeedScale   float64
	JumpScale    float64
	GravityScale float64

	modifiers map[Stat][]modifier
}

func NewMovement(moveSpeed, jumpSpeed float64) *Movement {
	return &Movement{
		MoveSpeed:    moveSpeed,
		JumpSpeed:    jumpSpeed,
		SpeedScale:   1,
		JumpScale:    1,
		GravityScale: 1,
	}
}

// Modify sets source's factor on stat, replacing any earlier factor from the
// same source, and recomputes the stat's scale.
func (m *Movement) Modify(stat Stat, source string, factor float64) {
	if m == nil || m.scale(stat) == nil {
		return
	}
	if m.modifiers == nil {
		m.modifiers = make(map[Stat][]modifier)
	}
	mods := m.modifiers[stat]
	for i := range mods {
		if mods[i].source == source {
			mods[i].factor = factor
			m.recompute(stat)
			return
		}
	}
	m.modifiers[stat] = append(mods, modifier{source: source, factor: factor})
	m.recompute(stat)
}

// Unmodify drops source's factor from stat. It reports false when source had
// none.
func (m *Movement) Unmodify(stat Stat, source string) bool {
	if m == nil {
		return false
	}
	mods := m.modifiers[stat]
	for i := range mods {
		if mods[i].source == source {
			m.modifiers[stat] = append(mods[:i], mods[i+1:]...)
			m.recompute(stat)
			return true
		}
	}
	return false
}

// Factor returns source's factor on stat.
func (m *Movement) Factor(stat Stat, source string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	for _, mod := range m.modifiers[stat] {
		if mod.source == source {
			return mod.factor, true
		}
	}
	return 0, false
}

func (m *Movement) recompute(stat Stat) {
	product := 1.0
	for _, mod := range m.modifiers[stat] {
		product *= mod.factor
	}
	*m.scale(stat) = product
}

func (m *Movement) scale(stat Stat) *float64 {
	switch stat {
	case StatSpeed:
		return &m.SpeedScale
	case StatJump:
		return &m.JumpScale
	case StatGravity:
		return &m.GravityScale
	}
	return nil
}

var MovementComponent = NewComponent[Movement]("movement")
