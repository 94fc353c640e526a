package entity

import (
	"fmt"

	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/prefabs"
)

// PrefabSpawner builds entities from prefabs by name and places them in the
// world. Parsed prefabs are cached until Invalidate is called.
type PrefabSpawner struct {
	assets Assets
	load   func(file string) (prefabs.EntityBuildSpec, error)
	specs  map[string]prefabs.EntityBuildSpec
}

func NewPrefabSpawner(a Assets) *PrefabSpawner {
	return &PrefabSpawner{
		assets: a,
		load:   prefabs.LoadEntityBuildSpec,
		specs:  map[string]prefabs.EntityBuildSpec{},
	}
}

// Spawn builds prefab and centers it on x, y.
func (s *PrefabSpawner) Spawn(w *ecs.World, prefab string, x, y float64) (ecs.Entity, error) {
	if s == nil {
		return 0, fmt.Errorf("spawn %q: nil spawner", prefab)
	}
	if w == nil {
		return 0, fmt.Errorf("spawn %q: world is nil", prefab)
	}

	spec, err := s.spec(prefab)
	if err != nil {
		return 0, fmt.Errorf("spawn %q: %w", prefab, err)
	}

	e, err := buildFromSpec(w, prefab, spec, s.assets)
	if err != nil {
		return 0, fmt.Errorf("spawn %q: %w", prefab, err)
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("spawn %q: place: %w", prefab, err)
	}
	return e, nil
}

// Invalidate forgets every cached prefab so edited files are picked up.
func (s *PrefabSpawner) Invalidate() {
	if s == nil {
		return
	}
	s.specs = map[string]prefabs.EntityBuildSpec{}
}

func (s *PrefabSpawner) spec(prefab string) (prefabs.EntityBuildSpec, error) {
	file := prefabs.PrefabFile(prefab)
	if spec, ok := s.specs[file]; ok {
		return spec, nil
	}
	spec, err := s.load(file)
	if err != nil {
		return prefabs.EntityBuildSpec{}, err
	}
	s.specs[file] = spec
	return spec, nil
}
