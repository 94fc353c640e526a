package main

import (
	"image/color"

	"github.com/milk9111/coinblock/common"
	"github.com/milk9111/coinblock/prefabs"
	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	defaultPanel       = color.NRGBA{A: 200}
	defaultButton      = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	defaultButtonHover = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

// NewPauseUI builds a centered pause menu with Resume, Restart and Quit
// buttons. Buttons are plain color nine-slices labelled with the built-in
// basic font, so no theme fonts need to be loaded.
func NewPauseUI(g *Game, spec *prefabs.HUDSpec) *ebitenui.UI {
	if spec == nil {
		spec = &prefabs.HUDSpec{}
	}

	panelImg := imageui.NewNineSliceColor(spec.PanelColor.ColorOr(defaultPanel))
	btnImg := imageui.NewNineSliceColor(spec.Button.ColorOr(defaultButton))
	btnHover := imageui.NewNineSliceColor(spec.ButtonOver.ColorOr(defaultButtonHover))

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	textColor := spec.TextColor.ColorOr(defaultText)
	btnTextColor := &widget.ButtonTextColor{Idle: textColor}

	title := widget.NewText(
		widget.TextOpts.Text("Paused", &face, textColor),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnHover}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.TextPadding(&widget.Insets{Top: 4, Bottom: 4, Left: 16, Right: 16}),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
				Stretch:  true,
			})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/3, common.BaseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(button("Resume", func() { g.paused = false }))
	panel.AddChild(button("Restart", g.Restart))
	panel.AddChild(button("Quit", func() { g.quit = true }))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}
