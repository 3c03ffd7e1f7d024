package component

import (
	"time"

	"github.com/milk9111/buffrunner/behavior"
)

// AI is the tuning shared by enemy behaviors.
type AI struct {
	MoveSpeed      float64
	FollowRange    float64
	AttackRange    float64
	AttackDamage   int
	AttackDuration time.Duration
	AttackCooldown time.Duration
	PatrolLeft     float64
	PatrolRight    float64
}

var AIComponent = NewComponent[AI]("ai")

// Brain holds the entity's behavior scheduler.
type Brain struct {
	Scheduler *behavior.Scheduler
}

var BrainComponent = NewComponent[Brain]("brain")

// Point is a 2D world position.
type Point struct {
	X float64
	Y float64
}

// Platform moves between waypoints and rests at each one.
type Platform struct {
	Waypoints []Point
	Speed     float64
	Rest      time.Duration

	Target    int
	ArrivedAt time.Duration
	Resting   bool
}

var PlatformComponent = NewComponent[Platform]("platform")

// Projectile flies in a straight line until it hits the player or times out.
type Projectile struct {
	VX        float64
	VY        float64
	Damage    int
	HitRadius float64
	Lifetime  time.Duration
	SpawnedAt time.Duration
	Spent     bool
}

var ProjectileComponent = NewComponent[Projectile]("projectile")
