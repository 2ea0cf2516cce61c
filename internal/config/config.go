package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigidsim/internal/constraint"
	"github.com/san-kum/rigidsim/internal/rigidbody"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/shape"
	"github.com/san-kum/rigidsim/internal/solver"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 10.0
	DefaultGravityY = -9.81
)

type Config struct {
	Name     string         `yaml:"name"`
	Dt       float64        `yaml:"dt"`
	Duration float64        `yaml:"duration"`
	Gravity  []float64      `yaml:"gravity"`
	Entities []EntityConfig `yaml:"entities"`
	Joints   []JointConfig  `yaml:"joints"`
}

type EntityConfig struct {
	Name     string       `yaml:"name"`
	Position []float64    `yaml:"position"`
	Rotation []float64    `yaml:"rotation"` // euler degrees, XYZ order
	Shape    *ShapeConfig `yaml:"shape"`
	Body     *BodyConfig  `yaml:"body"`
}

type ShapeConfig struct {
	Type    string    `yaml:"type"` // box, sphere, capsule
	Extents []float64 `yaml:"extents"`
	Radius  float64   `yaml:"radius"`
	Height  float64   `yaml:"height"`
	Center  []float64 `yaml:"center"`
}

// BodyConfig uses pointers where the zero value differs from the engine
// default, so omitted fields keep the default.
type BodyConfig struct {
	Mass            float64   `yaml:"mass"`
	Friction        *float64  `yaml:"friction"`
	RollingFriction *float64  `yaml:"rolling_friction"`
	Restitution     *float64  `yaml:"restitution"`
	UseGravity      *bool     `yaml:"use_gravity"`
	Gravity         []float64 `yaml:"gravity"`
	Kinematic       bool      `yaml:"kinematic"`
	PositionLock    []float64 `yaml:"position_lock"`
	RotationLock    []float64 `yaml:"rotation_lock"`
}

type JointConfig struct {
	BodyA     string    `yaml:"body_a"`
	BodyB     string    `yaml:"body_b"`
	PivotA    []float64 `yaml:"pivot_a"`
	PivotB    []float64 `yaml:"pivot_b"`
	Stiffness float64   `yaml:"stiffness"`
}

// DefaultConfig is a dynamic crate falling over a static ground slab.
func DefaultConfig() *Config {
	return &Config{
		Name:     "default",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gravity:  []float64{0, DefaultGravityY, 0},
		Entities: []EntityConfig{
			{
				Name:     "ground",
				Position: []float64{0, 0, 0},
				Shape: &ShapeConfig{
					Type:    "box",
					Extents: []float64{10, 0.5, 10},
				},
				Body: &BodyConfig{Mass: 0},
			},
			{
				Name:     "crate",
				Position: []float64{0, 5, 0},
				Shape: &ShapeConfig{
					Type:    "box",
					Extents: []float64{0.5, 0.5, 0.5},
				},
				Body: &BodyConfig{Mass: 1},
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Entities = nil
	cfg.Joints = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build constructs the scene, entities, components, and joints the
// config describes.
func (c *Config) Build() (*scene.Scene, []*constraint.Point, error) {
	world := solver.NewWorld()
	if len(c.Gravity) == 3 {
		world.SetGravity(vec3(c.Gravity))
	}
	sc := scene.New(world)

	bodies := make(map[string]*rigidbody.RigidBody)

	for _, ec := range c.Entities {
		e := scene.NewEntity(ec.Name)
		e.Transform().SetPosition(vec3(ec.Position))
		if len(ec.Rotation) == 3 {
			e.Transform().SetRotation(eulerDegrees(ec.Rotation))
		}

		if ec.Shape != nil {
			s, err := buildShape(ec.Shape)
			if err != nil {
				return nil, nil, fmt.Errorf("entity %q: %w", ec.Name, err)
			}
			e.AddComponent(shape.NewCollider(s, vec3(ec.Shape.Center)))
		}

		if ec.Body != nil {
			rb := rigidbody.New(e, sc)
			e.AddComponent(rb)
			applyBodyConfig(rb, ec.Body)
			bodies[ec.Name] = rb
		}

		sc.AddEntity(e)
	}

	var joints []*constraint.Point
	for _, jc := range c.Joints {
		a, okA := bodies[jc.BodyA]
		b, okB := bodies[jc.BodyB]
		if !okA || !okB {
			return nil, nil, fmt.Errorf("joint references unknown body: %s - %s", jc.BodyA, jc.BodyB)
		}
		stiffness := jc.Stiffness
		if stiffness == 0 {
			stiffness = 50.0
		}
		joints = append(joints, constraint.NewPoint(a, b, vec3(jc.PivotA), vec3(jc.PivotB), stiffness))
	}

	return sc, joints, nil
}

func applyBodyConfig(rb *rigidbody.RigidBody, bc *BodyConfig) {
	rb.SetMass(bc.Mass)
	if bc.Friction != nil {
		rb.SetFriction(*bc.Friction)
	}
	if bc.RollingFriction != nil {
		rb.SetRollingFriction(*bc.RollingFriction)
	}
	if bc.Restitution != nil {
		rb.SetRestitution(*bc.Restitution)
	}
	if len(bc.Gravity) == 3 {
		rb.SetGravity(vec3(bc.Gravity))
	}
	if bc.UseGravity != nil {
		rb.SetUseGravity(*bc.UseGravity)
	}
	if bc.Kinematic {
		rb.SetIsKinematic(true)
	}
	if len(bc.PositionLock) == 3 {
		rb.SetPositionLock(vec3(bc.PositionLock))
	}
	if len(bc.RotationLock) == 3 {
		rb.SetRotationLock(vec3(bc.RotationLock))
	}
}

func buildShape(sc *ShapeConfig) (shape.Shape, error) {
	switch sc.Type {
	case "box":
		if len(sc.Extents) != 3 {
			return nil, fmt.Errorf("box shape needs 3 extents, got %d", len(sc.Extents))
		}
		return shape.NewBox(vec3(sc.Extents)), nil
	case "sphere":
		if sc.Radius <= 0 {
			return nil, fmt.Errorf("sphere shape needs a positive radius")
		}
		return shape.NewSphere(sc.Radius), nil
	case "capsule":
		if sc.Radius <= 0 || sc.Height <= 0 {
			return nil, fmt.Errorf("capsule shape needs positive radius and height")
		}
		return shape.NewCapsule(sc.Radius, sc.Height), nil
	default:
		return nil, fmt.Errorf("unknown shape type: %s", sc.Type)
	}
}

func vec3(v []float64) mgl64.Vec3 {
	if len(v) != 3 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func eulerDegrees(deg []float64) mgl64.Quat {
	const radPerDeg = math.Pi / 180.0
	return mgl64.AnglesToQuat(deg[0]*radPerDeg, deg[1]*radPerDeg, deg[2]*radPerDeg, mgl64.XYZ)
}
