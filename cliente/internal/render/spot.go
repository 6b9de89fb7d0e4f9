package render

import (
	"math"
	"sync"
	"time"

	"github.com/fogleman/ease"
	"github.com/go-gl/mathgl/mgl64"

	"HotspotVision/shared/hotspot"
)

// PulsePeriod é a duração de um ciclo da pulsação de hover.
const PulsePeriod = 800 * time.Millisecond

// PulseAmplitude é o crescimento máximo relativo durante o hover.
const PulseAmplitude = 0.15

// Spot é o objeto de cena de um hotspot. Posição e visibilidade são escritas
// pelo driver de reprodução e lidas pela thread de render.
type Spot struct {
	Geometry *Sphere
	Material *Material

	mu         sync.RWMutex
	position   mgl64.Vec3
	rotation   mgl64.Vec3
	visible    bool
	hovered    bool
	hoverStart time.Time
}

var _ hotspot.Renderable = (*Spot)(nil)

// NewSpot cria um objeto visível na origem.
func NewSpot(geo *Sphere, mat *Material) *Spot {
	return &Spot{Geometry: geo, Material: mat, visible: true}
}

func (s *Spot) Position() mgl64.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

func (s *Spot) SetPosition(p mgl64.Vec3) {
	s.mu.Lock()
	s.position = p
	s.mu.Unlock()
}

func (s *Spot) Visible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

func (s *Spot) SetVisible(v bool) {
	s.mu.Lock()
	s.visible = v
	s.mu.Unlock()
}

// Rotation retorna a rotação em radianos por eixo.
func (s *Spot) Rotation() mgl64.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rotation
}

func (s *Spot) SetRotation(r mgl64.Vec3) {
	s.mu.Lock()
	s.rotation = r
	s.mu.Unlock()
}

// SetHovered liga ou desliga a pulsação de hover.
func (s *Spot) SetHovered(on bool, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on && !s.hovered {
		s.hoverStart = now
	}
	s.hovered = on
}

// Radius retorna o raio da esfera, para o hit-testing.
func (s *Spot) Radius() float64 {
	if s.Geometry == nil {
		return 0
	}
	return s.Geometry.Spec.Radius
}

// Scale retorna a escala de desenho no instante now.
func (s *Spot) Scale(now time.Time) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hovered {
		return 1
	}
	return PulseScale(now.Sub(s.hoverStart))
}

// PulseScale calcula a escala da pulsação após elapsed de hover: sobe e
// desce uma vez por período, com easing.
func PulseScale(elapsed time.Duration) float64 {
	if elapsed < 0 {
		return 1
	}
	phase := math.Mod(elapsed.Seconds()/PulsePeriod.Seconds(), 1)
	tri := 1 - math.Abs(2*phase-1)
	return 1 + PulseAmplitude*ease.InOutQuad(tri)
}
