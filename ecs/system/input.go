package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

const stickDeadzone = 0.2

// Keys reports key state. The default reads ebiten.
type Keys interface {
	Pressed(k ebiten.Key) bool
	JustPressed(k ebiten.Key) bool
}

type ebitenKeys struct{}

func (ebitenKeys) Pressed(k ebiten.Key) bool { return ebiten.IsKeyPressed(k) }

func (ebitenKeys) JustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }

// InputSystem writes the keyboard and first gamepad into the player's Input.
type InputSystem struct {
	keys    Keys
	gamepad bool
}

func NewInputSystem() *InputSystem {
	return &InputSystem{keys: ebitenKeys{}, gamepad: true}
}

// NewInputSystemWith reads keys from k and ignores gamepads.
func NewInputSystemWith(k Keys) *InputSystem {
	return &InputSystem{keys: k}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}

	left := i.keys.Pressed(ebiten.KeyA) || i.keys.Pressed(ebiten.KeyArrowLeft)
	right := i.keys.Pressed(ebiten.KeyD) || i.keys.Pressed(ebiten.KeyArrowRight)
	jump := i.keys.Pressed(ebiten.KeySpace) || i.keys.Pressed(ebiten.KeyW)
	jumpPressed := i.keys.JustPressed(ebiten.KeySpace) || i.keys.JustPressed(ebiten.KeyW)

	moveX := 0.0
	if left {
		moveX -= 1
	}
	if right {
		moveX += 1
	}

	if i.gamepad {
		if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
			id := gamepads[0]
			leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
			if math.Abs(leftX) > stickDeadzone {
				moveX = leftX
			}
			jump = jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
			jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		}
	}

	_ = ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{
		MoveX:       moveX,
		Jump:        jump,
		JumpPressed: jumpPressed,
	})
}
