package system

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
	"github.com/milk9111/buffrunner/prefabs"
)

// RenderSystem draws every Box centered on its Transform. Invulnerable
// entities blink.
type RenderSystem struct {
	colors map[string]color.Color
	frame  int
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{colors: make(map[string]color.Color)}
}

func (r *RenderSystem) color(name string) color.Color {
	if c, ok := r.colors[name]; ok {
		return c
	}
	c, err := prefabs.ParseColor(name)
	if err != nil {
		c = color.White
	}
	r.colors[name] = c
	return c
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	r.frame++
	ecs.ForEach2(w, component.BoxComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.Box, t *component.Transform) {
		if ecs.Has(w, e, component.InvulnerableComponent.Kind()) && (r.frame/6)%2 == 1 {
			return
		}
		x := float32(t.X - b.Width/2)
		y := float32(t.Y - b.Height/2)
		vector.DrawFilledRect(screen, x, y, float32(b.Width), float32(b.Height), r.color(b.Color), false)
	})
}
