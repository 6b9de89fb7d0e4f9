// Package pointer traduz o estado bruto do mouse (objeto sob o cursor e
// botão) em eventos de ponteiro por objeto. O hit-testing fica com quem
// alimenta o Dispatcher.
package pointer

import (
	"sync"
	"time"

	"HotspotVision/shared/hotspot"
)

// DoubleClickWindow é o intervalo máximo entre dois cliques de um dblclick.
const DoubleClickWindow = 300 * time.Millisecond

// Dispatcher implementa hotspot.Pointer.
type Dispatcher struct {
	mu        sync.Mutex
	listeners map[hotspot.Renderable]map[hotspot.Event][]func()
	targets   []hotspot.Renderable

	hovered     hotspot.Renderable
	pressed     hotspot.Renderable
	lastClick   hotspot.Renderable
	lastClickAt time.Time
}

// NewDispatcher cria um dispatcher sem ouvintes.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[hotspot.Renderable]map[hotspot.Event][]func()),
	}
}

// AddEventListener registra fn para o evento do objeto.
func (d *Dispatcher) AddEventListener(obj hotspot.Renderable, event hotspot.Event, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	byEvent, ok := d.listeners[obj]
	if !ok {
		byEvent = make(map[hotspot.Event][]func())
		d.listeners[obj] = byEvent
		d.targets = append(d.targets, obj)
	}
	byEvent[event] = append(byEvent[event], fn)
}

// Targets retorna os objetos com ouvintes, na ordem de registro.
func (d *Dispatcher) Targets() []hotspot.Renderable {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]hotspot.Renderable, len(d.targets))
	copy(out, d.targets)
	return out
}

// Hovered retorna o objeto sob o cursor no último Feed.
func (d *Dispatcher) Hovered() hotspot.Renderable {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hovered
}

// Feed processa um frame: target é o objeto sob o cursor (nil se nenhum),
// down/up indicam as transições do botão principal neste frame.
func (d *Dispatcher) Feed(target hotspot.Renderable, down, up bool, now time.Time) {
	d.mu.Lock()
	var fire []func()
	emit := func(obj hotspot.Renderable, event hotspot.Event) {
		if obj == nil {
			return
		}
		fire = append(fire, d.listeners[obj][event]...)
	}

	if target != d.hovered {
		emit(d.hovered, hotspot.EventMouseOut)
		emit(target, hotspot.EventMouseOver)
		d.hovered = target
	}

	if down {
		emit(target, hotspot.EventMouseDown)
		d.pressed = target
	}

	if up {
		emit(target, hotspot.EventMouseUp)
		if target != nil && d.pressed == target {
			emit(target, hotspot.EventClick)
			if d.lastClick == target && now.Sub(d.lastClickAt) <= DoubleClickWindow {
				emit(target, hotspot.EventDblClick)
				d.lastClick = nil
			} else {
				d.lastClick = target
				d.lastClickAt = now
			}
		}
		d.pressed = nil
	}
	d.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}
