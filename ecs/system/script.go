package system

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/coinblock/ecs"
	"github.com/milk9111/coinblock/ecs/component"
	"github.com/milk9111/coinblock/prefabs"
)

// Hooks a script may assign. Unassigned hooks are skipped.
const scriptDispatch = `
if __phase == "start" && is_function(start) {
	start(__engine)
} else if __phase == "enable" && is_function(enable) {
	enable(__engine)
} else if __phase == "update" && is_function(update) {
	update(__engine)
}
`

// ScriptSystem runs tengo behaviour scripts. Each script gets a start hook
// on its first active tick, an enable hook whenever it becomes active and an
// update hook every active tick.
type ScriptSystem struct {
	load     func(path string) ([]byte, error)
	compiled map[string]*tengo.Compiled
	runtimes map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
}

func NewScriptSystem() *ScriptSystem {
	return &ScriptSystem{
		load:     prefabs.LoadScript,
		compiled: map[string]*tengo.Compiled{},
		runtimes: map[ecs.Entity]*scriptRuntime{},
	}
}

// Invalidate drops compiled scripts so the next tick reloads them. Running
// entities keep their state flags; only the code is replaced.
func (s *ScriptSystem) Invalidate() {
	if s == nil {
		return
	}
	s.compiled = map[string]*tengo.Compiled{}
	s.runtimes = map[ecs.Entity]*scriptRuntime{}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.runtimes {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.ScriptComponent.Kind()) {
			delete(s.runtimes, e)
		}
	}

	ecs.ForEach(w, component.ScriptComponent.Kind(), func(e ecs.Entity, sc *component.Script) {
		if ecs.Has(w, e, component.InactiveComponent.Kind()) {
			sc.WasEnabled = false
			return
		}
		if sc.Failed {
			return
		}

		rt, err := s.runtime(e, sc.Path)
		if err != nil {
			log.Printf("script: entity=%v: error: load %q: %v", e, sc.Path, err)
			sc.Failed = true
			return
		}

		engine := buildScriptEngine(w, e)
		if !sc.Started {
			sc.Started = true
			if !s.run(e, sc, rt, "start", engine) {
				return
			}
		}
		if !sc.WasEnabled {
			sc.WasEnabled = true
			if !s.run(e, sc, rt, "enable", engine) {
				return
			}
		}
		s.run(e, sc, rt, "update", engine)
	})
}

func (s *ScriptSystem) run(e ecs.Entity, sc *component.Script, rt *scriptRuntime, phase string, engine *tengo.ImmutableMap) bool {
	if err := rt.runPhase(phase, engine); err != nil {
		log.Printf("script: entity=%v: error: %s %s: %v", e, sc.Path, phase, err)
		sc.Failed = true
		return false
	}
	return true
}

func (s *ScriptSystem) runtime(e ecs.Entity, path string) (*scriptRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && rt.path == path {
		return rt, nil
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty script path")
	}

	base, ok := s.compiled[path]
	if !ok {
		var err error
		base, err = s.compile(path)
		if err != nil {
			return nil, err
		}
		s.compiled[path] = base
	}

	// Globals are per entity, so every entity runs its own copy.
	rt := &scriptRuntime{path: path, compiled: base.Clone()}
	s.runtimes[e] = rt
	return rt, nil
}

func (s *ScriptSystem) compile(path string) (*tengo.Compiled, error) {
	src, err := s.load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("start", nil)
	_ = script.Add("enable", nil)
	_ = script.Add("update", nil)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	return compiled, nil
}

func (rt *scriptRuntime) runPhase(phase string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	return rt.compiled.Run()
}

// buildScriptEngine exposes the entity to its script.
func buildScriptEngine(w *ecs.World, e ecs.Entity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["rotate"] = &tengo.UserFunction{Name: "rotate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		deg, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return tengo.FalseValue, nil
		}
		t.Spin = math.Mod(t.Spin+deg*math.Pi/180, 2*math.Pi)
		return tengo.TrueValue, nil
	}}

	values["add_force"] = &tengo.UserFunction{Name: "add_force", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := tengo.ToFloat64(args[0])
		y, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		if !ok {
			return tengo.FalseValue, nil
		}
		rb.AddForce(x, y, w.DeltaTime())
		return tengo.TrueValue, nil
	}}

	values["deactivate_after"] = &tengo.UserFunction{Name: "deactivate_after", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		seconds, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		if err := ecs.Add(w, e, component.DeactivateTimerComponent.Kind(), &component.DeactivateTimer{Remaining: seconds}); err != nil {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["has_body"] = &tengo.UserFunction{Name: "has_body", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ecs.Has(w, e, component.RigidBodyComponent.Kind()) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, objectAsString(arg))
		}
		log.Printf("script: entity=%v: %s", e, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	values["delta"] = &tengo.UserFunction{Name: "delta", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: w.DeltaTime()}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
