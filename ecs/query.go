package ecs

import "sort"

// intersect returns the entities present in every store. It walks the
// smallest store and probes the rest.
func intersect(stores []store) []Entity {
	if len(stores) == 0 {
		return nil
	}
	smallest := 0
	for i, s := range stores {
		if s == nil {
			return nil
		}
		if s.len() < stores[smallest].len() {
			smallest = i
		}
	}

	out := make([]Entity, 0, stores[smallest].len())
	for _, e := range stores[smallest].entities() {
		match := true
		for i, s := range stores {
			if i == smallest {
				continue
			}
			if !s.has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	sortEntities(out)
	return out
}

// sortEntities orders by slot id so iteration does not depend on the swap
// order of removals.
func sortEntities(ents []Entity) {
	sort.Slice(ents, func(i, j int) bool { return ents[i].id() < ents[j].id() })
}
