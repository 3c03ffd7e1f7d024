package hud

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/buffrunner/effect"
	"github.com/milk9111/buffrunner/prefabs"
)

var textColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func face() *ebtext.Face {
	var f ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	return &f
}

// EffectDisplay is the effect HUD. It keeps one text row per effect kind and
// shows the rows of the active ones.
type EffectDisplay struct {
	UI *ebitenui.UI

	health *widget.Text
	rows   map[effect.Kind]*widget.Text
	active []effect.ActiveEffect
}

// NewEffectDisplay builds rows for every kind in table, colored by the row's
// color.
func NewEffectDisplay(table *effect.Table) *EffectDisplay {
	f := face()
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(color.NRGBA{A: 140})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)

	d := &EffectDisplay{rows: make(map[effect.Kind]*widget.Text)}
	d.health = widget.NewText(widget.TextOpts.Text(HealthLine(0, 0), f, textColor))
	panel.AddChild(d.health)

	for _, row := range table.Rows() {
		c := color.Color(textColor)
		if parsed, err := prefabs.ParseColor(row.Color); err == nil {
			c = parsed
		}
		txt := widget.NewText(widget.TextOpts.Text(row.Label, f, c))
		txt.GetWidget().Visibility = widget.Visibility_Hide
		panel.AddChild(txt)
		d.rows[row.Kind] = txt
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	d.UI = &ebitenui.UI{Container: root}
	return d
}

// UpdateEffectDisplay shows the given effects and hides the rest.
func (d *EffectDisplay) UpdateEffectDisplay(active []effect.ActiveEffect) {
	d.active = append(d.active[:0], active...)
	shown := make(map[effect.Kind]bool, len(active))
	for _, a := range active {
		shown[a.Kind] = true
		if txt, ok := d.rows[a.Kind]; ok {
			txt.Label = Line(a)
			txt.GetWidget().Visibility = widget.Visibility_Show
		}
	}
	for k, txt := range d.rows {
		if !shown[k] {
			txt.GetWidget().Visibility = widget.Visibility_Hide
		}
	}
}

// SetHealth updates the HP row.
func (d *EffectDisplay) SetHealth(current, max int) {
	d.health.Label = HealthLine(current, max)
}

// Active returns the effects from the last update.
func (d *EffectDisplay) Active() []effect.ActiveEffect {
	return append([]effect.ActiveEffect(nil), d.active...)
}

// Lines returns the text of every shown effect row in activation order.
func (d *EffectDisplay) Lines() []string {
	out := make([]string, 0, len(d.active))
	for _, a := range d.active {
		out = append(out, Line(a))
	}
	return out
}
