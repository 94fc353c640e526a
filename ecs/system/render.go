package system

import (
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/coinblock/common"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

type RenderSystem struct {
	camEntity ecs.Entity
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Update(w *ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	camX, camY, zoom := r.camera(w)

	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li, zi := drawOrder(w, entities[i])
		lj, zj := drawOrder(w, entities[j])
		if li != lj {
			return li < lj
		}
		if zi != zj {
			return zi < zj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		if e == r.camEntity || ecs.Has(w, e, component.InactiveComponent.Kind()) {
			continue
		}

		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok || s.Image == nil {
			continue
		}

		img := s.Image
		if s.UseSource {
			if sub, ok := s.Image.SubImage(s.Source).(*ebiten.Image); ok {
				img = sub
			}
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM = spriteGeoM(t, s, img.Bounds().Dx(), img.Bounds().Dy())
		if ecs.Has(w, e, component.ScreenSpaceComponent.Kind()) {
			// Screen space transforms are already in pixels, Y down.
			op.GeoM.Translate(t.X, t.Y)
		} else {
			op.GeoM.Scale(zoom, zoom)
			sx, sy := common.WorldToScreen(t.X, t.Y, camX, camY, zoom)
			op.GeoM.Translate(sx, sy)
		}
		op.Filter = ebiten.FilterNearest

		screen.DrawImage(img, op)
	}
}

// spriteGeoM builds the local sprite transform: origin, facing, scale, the
// vertical-axis spin drawn as a horizontal squash, then rotation. Rotation
// is counter-clockwise in the world, so it is negated for the Y-down screen.
func spriteGeoM(t *component.Transform, s *component.Sprite, imgW, imgH int) ebiten.GeoM {
	var m ebiten.GeoM

	originX, originY := s.OriginX, s.OriginY
	if originX == 0 && originY == 0 {
		originX = float64(imgW) / 2
		originY = float64(imgH) / 2
	}
	m.Translate(-originX, -originY)

	sx := t.ScaleX
	if sx == 0 {
		sx = 1
	}
	sy := t.ScaleY
	if sy == 0 {
		sy = 1
	}
	if s.FacingLeft {
		sx = -sx
	}
	if t.Spin != 0 {
		sx *= math.Cos(t.Spin)
	}

	m.Scale(sx, sy)
	m.Rotate(-t.Rotation)
	return m
}

func drawOrder(w *ecs.World, e ecs.Entity) (int, float64) {
	layer := 0
	if l, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
		layer = l.Index
	}
	z := 0.0
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		z = t.Z
	}
	return layer, z
}

func (r *RenderSystem) camera(w *ecs.World) (float64, float64, float64) {
	if !r.camEntity.Valid() || !w.IsAlive(r.camEntity) {
		if camEntity, ok := w.First(component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}
	return cameraView(w, r.camEntity)
}

func cameraView(w *ecs.World, camEntity ecs.Entity) (float64, float64, float64) {
	camX, camY := 0.0, 0.0
	zoom := 1.0
	if camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		camX = camTransform.X
		camY = camTransform.Y
	}
	if camComp, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok && camComp.Zoom > 0 {
		zoom = camComp.Zoom
	}
	return camX, camY, zoom
}
