// Package input faz o hit-testing dos hotspots sob o mouse e alimenta o
// dispatcher de eventos de ponteiro.
package input

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"HotspotVision/shared/hotspot"
	"HotspotVision/shared/pointer"
	"HotspotVision/shared/util"
)

// Sized é um objeto com raio de colisão.
type Sized interface {
	hotspot.Renderable
	Radius() float64
}

// Picker liga o mouse do raylib ao Dispatcher.
type Picker struct {
	Dispatcher *pointer.Dispatcher
	Enabled    bool
}

// NewPicker cria um picker habilitado.
func NewPicker(d *pointer.Dispatcher) *Picker {
	return &Picker{Dispatcher: d, Enabled: true}
}

// Update lê o mouse do frame atual e despacha os eventos.
func (p *Picker) Update(cam rl.Camera3D, now time.Time) {
	var target hotspot.Renderable
	if p.Enabled {
		ray := rl.GetMouseRay(rl.GetMousePosition(), cam)
		target = Nearest(ray, p.Dispatcher.Targets())
	}
	down := rl.IsMouseButtonPressed(rl.MouseLeftButton)
	up := rl.IsMouseButtonReleased(rl.MouseLeftButton)
	p.Dispatcher.Feed(target, down, up, now)
}

// Nearest retorna o objeto visível mais próximo atingido pelo raio.
// Objetos sem raio são ignorados.
func Nearest(ray rl.Ray, targets []hotspot.Renderable) hotspot.Renderable {
	var best hotspot.Renderable
	var bestDist float32
	for _, t := range targets {
		sized, ok := t.(Sized)
		if !ok || !t.Visible() || sized.Radius() <= 0 {
			continue
		}
		hit := rl.GetRayCollisionSphere(ray, util.ToRL(t.Position()), float32(sized.Radius()))
		if !hit.Hit {
			continue
		}
		if best == nil || hit.Distance < bestDist {
			best, bestDist = t, hit.Distance
		}
	}
	return best
}
