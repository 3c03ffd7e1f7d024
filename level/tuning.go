package level

import (
	"fmt"
	"sort"
	"time"

	"github.com/milk9111/buffrunner/effect"
	"github.com/milk9111/buffrunner/prefabs"
)

// Overrides converts effect tuning from prefabs into table overrides, sorted
// by kind.
func Overrides(spec *prefabs.EffectsSpec) ([]effect.Override, error) {
	if spec == nil {
		return nil, nil
	}
	out := make([]effect.Override, 0, len(spec.Effects))
	for name, tune := range spec.Effects {
		kind, err := effect.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("level: effect tuning: %w", err)
		}
		o := effect.Override{Kind: kind, Label: tune.Label, Magnitude: tune.Magnitude}
		if tune.DurationMS != nil {
			if *tune.DurationMS < 0 {
				return nil, fmt.Errorf("level: effect tuning: %s duration_ms %d is negative", name, *tune.DurationMS)
			}
			d := time.Duration(*tune.DurationMS) * time.Millisecond
			o.Duration = &d
		}
		if tune.Color != nil && tune.Color.Name != "" {
			c := tune.Color.Name
			o.Color = &c
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out, nil
}

// TunedTable loads the effects prefab and applies it on top of base.
func TunedTable(base *effect.Table) (*effect.Table, error) {
	spec, err := prefabs.LoadEffectsSpec()
	if err != nil {
		return nil, err
	}
	overrides, err := Overrides(spec)
	if err != nil {
		return nil, err
	}
	return base.Retune(overrides...)
}
