package scene

import (
	"github.com/san-kum/rigidsim/internal/solver"
)

// Scene owns a set of entities and the simulation world they are bound
// to. While the scene is not playing, entity transforms are
// authoritative and physics components defer to them.
type Scene struct {
	world    *solver.World
	entities []*Entity
	playing  bool
}

func New(world *solver.World) *Scene {
	return &Scene{world: world}
}

func (s *Scene) World() *solver.World { return s.world }
func (s *Scene) Playing() bool        { return s.playing }

// Start enters play mode and runs every component's OnStart hook.
func (s *Scene) Start() {
	if s.playing {
		return
	}
	s.playing = true
	for _, e := range s.entities {
		for _, c := range e.components {
			c.OnStart()
		}
	}
}

// Stop leaves play mode. Components keep their state; transforms become
// authoritative again on the next tick.
func (s *Scene) Stop() {
	s.playing = false
}

func (s *Scene) AddEntity(e *Entity) {
	s.entities = append(s.entities, e)
}

// RemoveEntity detaches an entity and runs OnRemove on its components.
func (s *Scene) RemoveEntity(e *Entity) {
	for i, other := range s.entities {
		if other == e {
			for _, c := range e.components {
				c.OnRemove()
			}
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			return
		}
	}
}

// Entity returns the first entity with the given name, or nil.
func (s *Scene) Entity(name string) *Entity {
	for _, e := range s.entities {
		if e.name == name {
			return e
		}
	}
	return nil
}

func (s *Scene) Entities() []*Entity { return s.entities }

// Tick runs one frame: component OnTick hooks first, so authored edits
// can override inactive bodies, then the world step.
func (s *Scene) Tick(dt float64) {
	for _, e := range s.entities {
		for _, c := range e.components {
			c.OnTick(dt)
		}
	}
	s.world.Step(dt)
}
