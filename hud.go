package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
	"github.com/milk9111/coinblock/prefabs"
	"golang.org/x/image/font/basicfont"
)

var (
	defaultBarFill  = color.NRGBA{R: 0xd8, G: 0x3a, B: 0x3a, A: 0xff}
	defaultBarTrack = color.NRGBA{R: 0x3a, G: 0x2a, B: 0x2a, A: 0xff}
	defaultText     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// HUD shows the player's health bar and the coin tally.
type HUD struct {
	ui    *ebitenui.UI
	bar   *widget.ProgressBar
	coins *widget.Text
}

// hudState is what the HUD displays, read from the world.
type hudState struct {
	Health    int
	MaxHealth int
	Coins     int
	HasBar    bool
}

func NewHUD(spec *prefabs.HUDSpec) *HUD {
	if spec == nil {
		spec = &prefabs.HUDSpec{}
	}
	barW, barH := spec.BarWidth, spec.BarHeight
	if barW <= 0 {
		barW = 120
	}
	if barH <= 0 {
		barH = 12
	}

	track := imageui.NewNineSliceColor(spec.BarTrack.ColorOr(defaultBarTrack))
	fill := imageui.NewNineSliceColor(spec.BarFill.ColorOr(defaultBarFill))

	bar := widget.NewProgressBar(
		widget.ProgressBarOpts.WidgetOpts(widget.WidgetOpts.MinSize(barW, barH)),
		widget.ProgressBarOpts.Images(
			&widget.ProgressBarImage{Idle: track},
			&widget.ProgressBarImage{Idle: fill},
		),
		widget.ProgressBarOpts.Values(0, 1, 1),
	)

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	coins := widget.NewText(
		widget.TextOpts.Text("Coins: 0", &face, spec.TextColor.ColorOr(defaultText)),
	)

	column := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	column.AddChild(bar)
	column.AddChild(coins)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(
			widget.AnchorLayoutOpts.Padding(&widget.Insets{Top: spec.BarY, Left: spec.BarX}),
		)),
	)
	root.AddChild(column)

	return &HUD{
		ui:    &ebitenui.UI{Container: root},
		bar:   bar,
		coins: coins,
	}
}

// Sync copies the world's health bar and coin counter into the widgets.
func (h *HUD) Sync(w *ecs.World) {
	if h == nil {
		return
	}
	st := readHUDState(w)
	if st.HasBar {
		if h.bar.Max != st.MaxHealth {
			h.bar.Min = 0
			h.bar.Max = st.MaxHealth
		}
		h.bar.SetCurrent(st.Health)
	}
	h.coins.Label = fmt.Sprintf("Coins: %d", st.Coins)
}

func readHUDState(w *ecs.World) hudState {
	var st hudState
	if w == nil {
		return st
	}
	if e, ok := w.First(component.HealthBarComponent.Kind()); ok {
		if bar, ok := ecs.Get(w, e, component.HealthBarComponent.Kind()); ok && bar.Max > 0 {
			st.HasBar = true
			st.Health = bar.Value
			st.MaxHealth = bar.Max
		}
	}
	if e, ok := w.First(component.CoinCounterComponent.Kind()); ok {
		if counter, ok := ecs.Get(w, e, component.CoinCounterComponent.Kind()); ok {
			st.Coins = counter.Count
		}
	}
	return st
}

func (h *HUD) Update() {
	if h == nil {
		return
	}
	h.ui.Update()
}

func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil {
		return
	}
	h.ui.Draw(screen)
}
