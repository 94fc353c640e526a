package system

import (
	"github.com/milk9111/coinblock/common"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update eases the camera toward the player horizontally and keeps the view
// inside the level bounds.
func (cs *CameraSystem) Update(w *ecs.World) {
	if !cs.camEntity.Valid() || !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
	}

	if !cs.targetEntity.Valid() || !w.IsAlive(cs.targetEntity) {
		target, ok := w.First(component.PlayerTagComponent.Kind(), component.TransformComponent.Kind())
		if !ok {
			return
		}
		cs.targetEntity = target
	}

	camComp, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	camTransform, ok := ecs.Get(w, cs.camEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}
	targetTransform, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	smoothness := camComp.Smoothness
	if smoothness <= 0 || smoothness > 1 {
		smoothness = 1
	}
	camTransform.X = common.Lerp(camTransform.X, targetTransform.X, smoothness)

	boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	zoom := camComp.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	halfW := common.BaseWidth / 2 / (common.PixelsPerUnit * zoom)
	halfH := common.BaseHeight / 2 / (common.PixelsPerUnit * zoom)
	camTransform.X = clampView(camTransform.X, halfW, bounds.Width)
	camTransform.Y = clampView(camTransform.Y, halfH, bounds.Height)
}

// clampView keeps a view of half-size half centered inside [0, size]. A
// level smaller than the view is centered.
func clampView(center, half, size float64) float64 {
	if size <= 0 {
		return center
	}
	if size < half*2 {
		return size / 2
	}
	if center < half {
		return half
	}
	if center > size-half {
		return size - half
	}
	return center
}
