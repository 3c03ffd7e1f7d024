package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]("player_tag")

type EnemyTag struct{}

var EnemyTagComponent = NewComponent[EnemyTag]("enemy_tag")

type PlatformTag struct{}

var PlatformTagComponent = NewComponent[PlatformTag]("platform_tag")

type ProjectileTag struct{}

var ProjectileTagComponent = NewComponent[ProjectileTag]("projectile_tag")
