// Package gui is a raylib debug viewer: it steps the scene in real time
// and draws every collider as wireframe geometry over a ground grid.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/rigidsim/internal/constraint"
	"github.com/san-kum/rigidsim/internal/scene"
)

var (
	colBg      = rl.NewColor(10, 10, 10, 255)
	colStatic  = rl.NewColor(100, 100, 100, 255)
	colDynamic = rl.NewColor(220, 220, 220, 255)
	colAsleep  = rl.NewColor(70, 110, 70, 255)
	colJoint   = rl.NewColor(200, 160, 60, 255)
	colText    = rl.NewColor(140, 140, 140, 255)
)

type App struct {
	sc     *scene.Scene
	joints []*constraint.Point
	dt     float64

	camera  rl.Camera3D
	elapsed float64
	paused  bool
}

func NewApp(sc *scene.Scene, joints []*constraint.Point, dt float64) *App {
	a := &App{sc: sc, joints: joints, dt: dt}
	a.camera = rl.Camera3D{
		Position:   rl.NewVector3(12, 10, 12),
		Target:     rl.NewVector3(0, 2, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
	return a
}

// Run opens the window and drives the scene until it is closed.
func (a *App) Run() {
	rl.InitWindow(1280, 720, "rigidsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	a.sc.Start()

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}
}

func (a *App) update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}
	rl.UpdateCamera(&a.camera, rl.CameraOrbital)

	if a.paused {
		return
	}
	for _, j := range a.joints {
		j.ApplyTension()
	}
	a.sc.Tick(a.dt)
	a.elapsed += a.dt
}

func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	rl.BeginMode3D(a.camera)
	rl.DrawGrid(24, 1)
	for _, e := range a.sc.Entities() {
		drawEntity(e)
	}
	a.drawJoints()
	rl.EndMode3D()

	rl.DrawText(fmt.Sprintf("t=%.2fs  space: pause", a.elapsed), 16, 16, 18, colText)
	rl.EndDrawing()
}

func (a *App) drawJoints() {
	for _, j := range a.joints {
		if j.Released() {
			continue
		}
		aAnchor, bAnchor := j.WorldAnchors()
		rl.DrawLine3D(toRaylib(aAnchor), toRaylib(bAnchor), colJoint)
	}
}
