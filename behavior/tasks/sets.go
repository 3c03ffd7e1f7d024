package tasks

import "github.com/milk9111/buffrunner/behavior"

// GroundEnemy is the task set for a walking enemy: attack in reach, chase in
// sight, patrol otherwise, idle as the fallback.
func GroundEnemy(env Env) []behavior.PriorityTask {
	return []behavior.PriorityTask{NewAttack(env), NewChase(env), NewPatrol(env), NewIdle(env)}
}

// Flyer is the task set for a flying enemy whose chase is scored by script.
func Flyer(env Env, script *behavior.ScriptPriority) []behavior.PriorityTask {
	return []behavior.PriorityTask{NewAttack(env), NewScriptedFly(env, script), NewIdle(env)}
}

// MovingPlatform is the task set for a waypoint platform.
func MovingPlatform(env Env) []behavior.PriorityTask {
	return []behavior.PriorityTask{NewRest(env), NewTravel(env)}
}

// Bullet is the task set for a projectile.
func Bullet(env Env) []behavior.PriorityTask {
	return []behavior.PriorityTask{NewExpire(env), NewFlyStraight(env)}
}

// Schedule registers tasks on s in order and returns s.
func Schedule(s *behavior.Scheduler, tasks []behavior.PriorityTask) *behavior.Scheduler {
	for _, t := range tasks {
		s.AddTask(t)
	}
	return s
}
