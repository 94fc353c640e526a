package ecs

// Scheduler runs systems in insertion order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
