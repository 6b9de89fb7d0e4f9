package hotspot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrTimelineRejected indica uma timeline atribuída a um hotspot estático ou
// a um hotspot dinâmico que já possui uma.
var ErrTimelineRejected = errors.New("timeline recusada")

// Renderable é o objeto 3D controlado por um hotspot. O ciclo de vida pertence
// à cena; o hotspot apenas altera transformação e visibilidade.
type Renderable interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	Visible() bool
	SetVisible(v bool)
	SetRotation(r mgl64.Vec3)
}

// Hotspot liga uma chave a um objeto da cena. Hotspots dinâmicos seguem uma
// Timeline sincronizada com o vídeo; estáticos ficam onde foram criados.
type Hotspot struct {
	Key     string
	Object  Renderable
	Dynamic bool

	// mu serializa repaint, reset do cursor e atribuição da timeline.
	mu       sync.Mutex
	timeline Timeline
	loaded   bool
	nextPos  int
}

// NewHotspot cria um hotspot sem timeline.
func NewHotspot(key string, obj Renderable, dynamic bool) *Hotspot {
	return &Hotspot{
		Key:     key,
		Object:  obj,
		Dynamic: dynamic,
	}
}

// SetTimeline atribui a timeline (uma única vez, apenas para hotspots
// dinâmicos). O cursor volta a zero.
func (h *Hotspot) SetTimeline(tl Timeline) error {
	if !h.Dynamic {
		return fmt.Errorf("hotspot %q é estático: %w", h.Key, ErrTimelineRejected)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		return fmt.Errorf("hotspot %q já possui timeline: %w", h.Key, ErrTimelineRejected)
	}
	h.timeline = tl
	h.loaded = true
	h.nextPos = 0
	return nil
}

// HasTimeline informa se a timeline já foi carregada.
func (h *Hotspot) HasTimeline() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

// Timeline retorna uma cópia da timeline carregada.
func (h *Hotspot) Timeline() Timeline {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timeline == nil {
		return nil
	}
	tl := make(Timeline, len(h.timeline))
	copy(tl, h.timeline)
	return tl
}

// Cursor retorna o índice do próximo instante ainda não alcançado.
func (h *Hotspot) Cursor() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.nextPos
}

// ResetCursor volta o cursor ao primeiro instante (reinício do loop).
func (h *Hotspot) ResetCursor() {
	h.mu.Lock()
	h.nextPos = 0
	h.mu.Unlock()
}
