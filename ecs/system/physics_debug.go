package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/coinblock/common"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 0.125
)

// PhysicsDebugSystem draws collision shapes and block state on top of the
// scene. It does nothing on Update.
type PhysicsDebugSystem struct {
	physics *PhysicsSystem
	Enabled bool
}

func NewPhysicsDebugSystem(physics *PhysicsSystem) *PhysicsDebugSystem {
	return &PhysicsDebugSystem{physics: physics}
}

func (s *PhysicsDebugSystem) Update(w *ecs.World) {}

func (s *PhysicsDebugSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if s == nil || !s.Enabled || s.physics == nil {
		return
	}
	DrawPhysicsDebug(s.physics.Space(), w, screen)
	DrawBlockDebug(w, screen)
}

func DrawPhysicsDebug(space *cp.Space, w *ecs.World, screen *ebiten.Image) {
	if space == nil || w == nil || screen == nil {
		return
	}

	camEntity, _ := w.First(component.CameraComponent.Kind())
	camX, camY, zoom := cameraView(w, camEntity)
	drawer := &physicsDebugDrawer{
		screen: screen,
		camX:   camX,
		camY:   camY,
		zoom:   zoom,
	}
	cp.DrawSpace(space, drawer)
}

// DrawBlockDebug prints each question block's bounce state next to it.
func DrawBlockDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	camEntity, _ := w.First(component.CameraComponent.Kind())
	camX, camY, zoom := cameraView(w, camEntity)

	ecs.ForEach2(w, component.QuestionBlockComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, block *component.QuestionBlock, t *component.Transform) {
		sx, sy := common.WorldToScreen(t.X-0.5, t.Y+1.2, camX, camY, zoom)
		text := fmt.Sprintf("hit:%v\n%s", block.State.Hit, block.State.Phase)
		ebitenutil.DebugPrintAt(screen, text, int(sx), int(sy))
	})
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := debugDotSize / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Sensor() {
		return cp.FColor{R: 0.2, G: 0.4, B: 1, A: 0.6}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float64, float64) {
	return common.WorldToScreen(v.X, v.Y, d.camX, d.camY, d.zoom)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
