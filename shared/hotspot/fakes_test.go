package hotspot

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeObject struct {
	mu       sync.Mutex
	geo      Geometry
	mat      Material
	position mgl64.Vec3
	rotation mgl64.Vec3
	visible  bool
}

func newFakeObject() *fakeObject {
	return &fakeObject{visible: true}
}

func (o *fakeObject) Position() mgl64.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.position
}

func (o *fakeObject) SetPosition(p mgl64.Vec3) {
	o.mu.Lock()
	o.position = p
	o.mu.Unlock()
}

func (o *fakeObject) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

func (o *fakeObject) SetVisible(v bool) {
	o.mu.Lock()
	o.visible = v
	o.mu.Unlock()
}

func (o *fakeObject) SetRotation(r mgl64.Vec3) {
	o.mu.Lock()
	o.rotation = r
	o.mu.Unlock()
}

type fakeScene struct {
	added     []Renderable
	spheres   int
	materials int
}

func (s *fakeScene) NewSphere(sp Sphere) (Geometry, error) {
	s.spheres++
	return sp, nil
}

func (s *fakeScene) NewMaterial(t Texture) (Material, error) {
	s.materials++
	return t, nil
}

func (s *fakeScene) NewObject(g Geometry, m Material) Renderable {
	o := newFakeObject()
	o.geo, o.mat = g, m
	return o
}

func (s *fakeScene) Add(obj Renderable) {
	s.added = append(s.added, obj)
}

type fakePointer struct {
	listeners map[Renderable]map[Event][]func()
}

func newFakePointer() *fakePointer {
	return &fakePointer{listeners: make(map[Renderable]map[Event][]func())}
}

func (p *fakePointer) AddEventListener(obj Renderable, event Event, fn func()) {
	if p.listeners[obj] == nil {
		p.listeners[obj] = make(map[Event][]func())
	}
	p.listeners[obj][event] = append(p.listeners[obj][event], fn)
}

func (p *fakePointer) fire(obj Renderable, event Event) {
	for _, fn := range p.listeners[obj][event] {
		fn()
	}
}
