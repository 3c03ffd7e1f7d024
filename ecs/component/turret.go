package component

import "time"

// Turret fires a projectile along its direction every Interval.
type Turret struct {
	Interval  time.Duration
	Speed     float64
	DirX      float64
	DirY      float64
	Damage    int
	Lifetime  time.Duration
	HitRadius float64

	LastShot time.Duration
}

var TurretComponent = NewComponent[Turret]("turret")
