package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/solver"
)

type probeComponent struct {
	NopComponent
	initialized int
	started     int
	ticks       int
	removed     int
}

func (p *probeComponent) Name() string      { return "probe" }
func (p *probeComponent) OnInitialize()     { p.initialized++ }
func (p *probeComponent) OnStart()          { p.started++ }
func (p *probeComponent) OnTick(dt float64) { p.ticks++ }
func (p *probeComponent) OnRemove()         { p.removed++ }

func TestEntityIDsAreUnique(t *testing.T) {
	a := NewEntity("a")
	b := NewEntity("b")
	if a.ID() == b.ID() {
		t.Errorf("duplicate entity id %d", a.ID())
	}
}

func TestTransformDefaults(t *testing.T) {
	tr := NewTransform()
	if tr.Position() != (mgl64.Vec3{}) {
		t.Errorf("expected zero position, got %v", tr.Position())
	}
	if tr.Rotation() != mgl64.QuatIdent() {
		t.Errorf("expected identity rotation, got %v", tr.Rotation())
	}
	if tr.Scale() != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("expected unit scale, got %v", tr.Scale())
	}
}

func TestComponentLifecycle(t *testing.T) {
	sc := New(solver.NewWorld())
	e := NewEntity("probe")
	p := &probeComponent{}

	e.AddComponent(p)
	if p.initialized != 1 {
		t.Errorf("expected OnInitialize once, got %d", p.initialized)
	}

	sc.AddEntity(e)
	sc.Start()
	if p.started != 1 {
		t.Errorf("expected OnStart once, got %d", p.started)
	}

	sc.Tick(0.01)
	sc.Tick(0.01)
	if p.ticks != 2 {
		t.Errorf("expected 2 ticks, got %d", p.ticks)
	}

	e.RemoveComponent("probe")
	if p.removed != 1 {
		t.Errorf("expected OnRemove once, got %d", p.removed)
	}
	if e.Component("probe") != nil {
		t.Error("component still attached after removal")
	}
}

func TestRemoveEntityRunsComponentTeardown(t *testing.T) {
	sc := New(solver.NewWorld())
	e := NewEntity("probe")
	p := &probeComponent{}
	e.AddComponent(p)
	sc.AddEntity(e)

	sc.RemoveEntity(e)
	if p.removed != 1 {
		t.Errorf("expected OnRemove once, got %d", p.removed)
	}
	if sc.Entity("probe") != nil {
		t.Error("entity still resolvable after removal")
	}
}

func TestEntityLookupByName(t *testing.T) {
	sc := New(solver.NewWorld())
	sc.AddEntity(NewEntity("ground"))
	sc.AddEntity(NewEntity("crate"))

	if e := sc.Entity("crate"); e == nil || e.Name() != "crate" {
		t.Fatalf("lookup failed, got %v", e)
	}
	if sc.Entity("missing") != nil {
		t.Error("expected nil for unknown entity")
	}
}

func TestStartStopTogglePlaying(t *testing.T) {
	sc := New(solver.NewWorld())
	if sc.Playing() {
		t.Error("new scene must not be playing")
	}
	sc.Start()
	if !sc.Playing() {
		t.Error("expected playing after Start")
	}
	sc.Stop()
	if sc.Playing() {
		t.Error("expected stopped after Stop")
	}
}
