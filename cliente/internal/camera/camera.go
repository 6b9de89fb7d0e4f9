package camera

import (
	"math"

	"HotspotVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode define o tipo de projeção.
type Mode int

const (
	ModePerspective Mode = iota
	ModeOrthographic
)

const (
	maxElevation = -5.0 * rl.Deg2rad
	minElevation = -89.0 * rl.Deg2rad
)

// CameraController orbita em torno do centro da cena. O botão esquerdo fica
// livre para os hotspots; a órbita usa o botão direito.
type CameraController struct {
	RLCamera rl.Camera3D

	Mode         Mode
	FOV          float32
	MinZoom      float32
	MaxZoom      float32
	PanSpeed     float32
	Sensitivity  float32
	ZoomSpeed    float32
	SmoothFactor float32 // 0.0 a 1.0 (quanto menor, mais suave)

	// Estado alvo
	TargetLookAt rl.Vector3
	TargetZoom   float32
	AngleY       float32 // azimute (radianos)
	AngleX       float32 // elevação (radianos, negativa olhando de cima)

	// Estado atual (interpolado)
	CurrentLookAt rl.Vector3
	CurrentZoom   float32
}

// New cria um controlador olhando para a origem a distance unidades.
func New(fov, distance, sensitivity, zoomSpeed float32) *CameraController {
	c := &CameraController{
		Mode:         ModePerspective,
		FOV:          fov,
		MinZoom:      2.0,
		MaxZoom:      100.0,
		PanSpeed:     10.0,
		Sensitivity:  sensitivity,
		ZoomSpeed:    zoomSpeed,
		SmoothFactor: 0.15,

		TargetZoom: distance,
		AngleY:     30.0 * rl.Deg2rad,
		AngleX:     -25.0 * rl.Deg2rad,
	}
	c.CurrentZoom = c.TargetZoom

	c.RLCamera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       fov,
		Projection: rl.CameraPerspective,
	}

	c.apply()
	return c
}

// SetTarget move o ponto de interesse imediatamente.
func (c *CameraController) SetTarget(pos rl.Vector3) {
	c.TargetLookAt = pos
	c.CurrentLookAt = pos
	c.apply()
}

// Update interpola o estado atual em direção ao alvo. Chamado a cada frame.
func (c *CameraController) Update(dt float32) {
	factor := util.Clamp(c.SmoothFactor*60.0*dt, 0, 1)

	cur := util.Vec32(c.CurrentLookAt)
	tgt := util.Vec32(c.TargetLookAt)
	c.CurrentLookAt = util.RLFrom32(cur.Add(tgt.Sub(cur).Mul(factor)))
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)

	c.apply()
}

// apply recalcula posição e projeção a partir dos ângulos e do zoom atual.
func (c *CameraController) apply() {
	dist := c.CurrentZoom
	if c.Mode == ModeOrthographic {
		c.RLCamera.Fovy = c.CurrentZoom
		c.RLCamera.Projection = rl.CameraOrthographic
		dist = c.MaxZoom * 2 // longe o bastante para não cortar a cena
	} else {
		c.RLCamera.Fovy = c.FOV
		c.RLCamera.Projection = rl.CameraPerspective
	}

	offset := orbitOffset(c.AngleX, c.AngleY, dist)
	c.RLCamera.Position = util.RLFrom32(util.Vec32(c.CurrentLookAt).Add(offset))
	c.RLCamera.Target = c.CurrentLookAt
}

// orbitOffset converte ângulos esféricos em deslocamento a partir do alvo.
func orbitOffset(angleX, angleY, dist float32) mgl32.Vec3 {
	cosX := float32(math.Cos(float64(angleX)))
	sinX := float32(math.Sin(float64(angleX)))
	cosY := float32(math.Cos(float64(angleY)))
	sinY := float32(math.Sin(float64(angleY)))
	return mgl32.Vec3{dist * cosX * sinY, dist * -sinX, dist * cosX * cosY}
}

// ToggleMode alterna entre perspectiva e ortográfica.
func (c *CameraController) ToggleMode() {
	if c.Mode == ModePerspective {
		c.Mode = ModeOrthographic
	} else {
		c.Mode = ModePerspective
	}
	c.apply()
}

// Orbit gira a câmera pelo deslocamento do mouse em pixels.
func (c *CameraController) Orbit(dx, dy float32) {
	c.AngleY -= dx * c.Sensitivity * 0.01
	c.AngleX = util.Clamp(c.AngleX-dy*c.Sensitivity*0.01, minElevation, maxElevation)
}

// Zoom aproxima (wheel > 0) ou afasta a câmera.
func (c *CameraController) Zoom(wheel float32) {
	c.TargetZoom = util.Clamp(c.TargetZoom-wheel*c.ZoomSpeed, c.MinZoom, c.MaxZoom)
}

// Pan move o alvo no plano do chão, relativo à direção da câmera.
func (c *CameraController) Pan(forward, right, dt float32) {
	dir := util.Vec32(c.TargetLookAt).Sub(util.Vec32(c.RLCamera.Position))
	dir[1] = 0
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()
	side := dir.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	move := dir.Mul(forward).Add(side.Mul(right))
	if move.Len() == 0 {
		return
	}
	speed := c.PanSpeed * (c.CurrentZoom / 20.0) * dt
	c.TargetLookAt = util.RLFrom32(util.Vec32(c.TargetLookAt).Add(move.Normalize().Mul(speed)))
}

// HandleInput lê mouse e teclado. Retorna true se houve movimento.
func (c *CameraController) HandleInput(dt float32) bool {
	moved := false

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(wheel)
		moved = true
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			c.Orbit(delta.X, delta.Y)
			moved = true
		}
	}

	var forward, right float32
	if rl.IsKeyDown(rl.KeyW) {
		forward++
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward--
	}
	if rl.IsKeyDown(rl.KeyD) {
		right++
	}
	if rl.IsKeyDown(rl.KeyA) {
		right--
	}
	if forward != 0 || right != 0 {
		c.Pan(forward, right, dt)
		moved = true
	}

	return moved
}
