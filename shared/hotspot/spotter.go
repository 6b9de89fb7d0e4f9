package hotspot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
)

// Spotter registra tamanhos, texturas e hotspots sobre uma cena 3D e liga
// os eventos de ponteiro. As timelines dos hotspots dinâmicos são carregadas
// em background a partir do DataSource.
type Spotter struct {
	scene   Scene
	pointer Pointer
	source  DataSource

	sizes    *Registry[Geometry]
	textures *Registry[Material]
	hotspots *Registry[*Hotspot]

	// setupMu serializa as operações de registro (checagem + criação + inserção)
	setupMu sync.Mutex

	mu      sync.RWMutex
	dynamic []*Hotspot

	ctx    context.Context
	cancel context.CancelFunc
	loads  errgroup.Group
}

// NewSpotter cria um Spotter. source pode ser nil: hotspots dinâmicos ficam
// então inertes.
func NewSpotter(scene Scene, pointer Pointer, source DataSource) *Spotter {
	ctx, cancel := context.WithCancel(context.Background())
	return &Spotter{
		scene:    scene,
		pointer:  pointer,
		source:   source,
		sizes:    NewRegistry[Geometry]("tamanho"),
		textures: NewRegistry[Material]("textura"),
		hotspots: NewRegistry[*Hotspot]("hotspot"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AddSize registra uma esfera reutilizável sob a chave dada.
func (s *Spotter) AddSize(key string, sphere Sphere) error {
	if err := sphere.Validate(); err != nil {
		return fmt.Errorf("tamanho %q: %w", key, err)
	}

	s.setupMu.Lock()
	defer s.setupMu.Unlock()

	if s.sizes.Has(key) {
		return fmt.Errorf("tamanho %q: %w", key, ErrDuplicateKey)
	}
	geo, err := s.scene.NewSphere(sphere)
	if err != nil {
		return fmt.Errorf("tamanho %q: %w", key, err)
	}
	return s.sizes.Add(key, geo)
}

// AddTexture registra um material reutilizável sob a chave dada.
func (s *Spotter) AddTexture(key string, tex Texture) error {
	s.setupMu.Lock()
	defer s.setupMu.Unlock()

	if s.textures.Has(key) {
		return fmt.Errorf("textura %q: %w", key, ErrDuplicateKey)
	}
	mat, err := s.scene.NewMaterial(tex)
	if err != nil {
		return fmt.Errorf("textura %q: %w", key, err)
	}
	return s.textures.Add(key, mat)
}

// Size retorna a geometria registrada.
func (s *Spotter) Size(key string) (Geometry, error) {
	return s.sizes.Get(key)
}

// Texture retorna o material registrado.
func (s *Spotter) Texture(key string) (Material, error) {
	return s.textures.Get(key)
}

// AddHotspot cria um hotspot estático na posição dada e o adiciona à cena.
func (s *Spotter) AddHotspot(key string, pos mgl64.Vec3, sizeKey, textureKey string) (*Hotspot, error) {
	return s.createHotspot(key, sizeKey, textureKey, false, func(obj Renderable) {
		obj.SetPosition(pos)
	})
}

// AddDynamicHotspot cria um hotspot que segue a timeline em timelinePath.
// O hotspot nasce oculto e a timeline chega de forma assíncrona; até lá o
// repaint é um no-op.
func (s *Spotter) AddDynamicHotspot(key, sizeKey, textureKey, timelinePath string) (*Hotspot, error) {
	h, err := s.createHotspot(key, sizeKey, textureKey, true, func(obj Renderable) {
		obj.SetVisible(false)
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.dynamic = append(s.dynamic, h)
	s.mu.Unlock()

	s.load(h, timelinePath)
	return h, nil
}

func (s *Spotter) createHotspot(key, sizeKey, textureKey string, dynamic bool, init func(Renderable)) (*Hotspot, error) {
	s.setupMu.Lock()
	defer s.setupMu.Unlock()

	if s.hotspots.Has(key) {
		return nil, fmt.Errorf("hotspot %q: %w", key, ErrDuplicateKey)
	}
	geo, err := s.sizes.Get(sizeKey)
	if err != nil {
		return nil, fmt.Errorf("hotspot %q: %w", key, err)
	}
	mat, err := s.textures.Get(textureKey)
	if err != nil {
		return nil, fmt.Errorf("hotspot %q: %w", key, err)
	}

	obj := s.scene.NewObject(geo, mat)
	init(obj)

	h := NewHotspot(key, obj, dynamic)
	if err := s.hotspots.Add(key, h); err != nil {
		return nil, err
	}
	s.scene.Add(obj)
	return h, nil
}

// load busca e interpreta a timeline em background. Falhas deixam o hotspot
// inerte; resultados que chegam depois do Close são descartados.
func (s *Spotter) load(h *Hotspot, path string) {
	if s.source == nil {
		log.Printf("[Spotter] AVISO: sem fonte de timelines, hotspot %s ficará inerte", h.Key)
		return
	}

	s.loads.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Spotter] Recuperado de pânico ao carregar %s: %v", path, r)
			}
		}()

		text, err := s.source.Fetch(s.ctx, path)
		if err != nil {
			log.Printf("[Spotter] Falha ao carregar timeline %s (hotspot %s): %v", path, h.Key, err)
			return nil
		}

		tl, err := ParseTimeline(strings.NewReader(text))
		if err != nil {
			log.Printf("[Spotter] Erro ao ler timeline %s: %v", path, err)
			return nil
		}

		if !s.owns(h) {
			log.Printf("[Spotter] Timeline %s chegou após o encerramento, descartada", path)
			return nil
		}
		if err := h.SetTimeline(tl); err != nil {
			log.Printf("[Spotter] %v", err)
			return nil
		}

		log.Printf("[Spotter] Timeline de %s carregada: %d instantes (%.1fs)", h.Key, len(tl), tl.Duration())
		return nil
	})
}

// owns verifica se h ainda é o hotspot vivo registrado sob sua chave.
func (s *Spotter) owns(h *Hotspot) bool {
	if s.ctx.Err() != nil {
		return false
	}
	cur, err := s.hotspots.Get(h.Key)
	return err == nil && cur == h
}

// AddEvent liga cb ao evento do hotspot. cb só dispara enquanto o objeto
// estiver visível.
func (s *Spotter) AddEvent(key string, event Event, cb Callback) error {
	if !event.Valid() {
		return fmt.Errorf("hotspot %q, evento %q: %w", key, event, ErrUnknownEvent)
	}
	h, err := s.hotspots.Get(key)
	if err != nil {
		return err
	}
	if s.pointer == nil {
		return fmt.Errorf("hotspot %q: camada de ponteiro não configurada", key)
	}

	s.pointer.AddEventListener(h.Object, event, Guard(h.Object, func() {
		cb(h.Key, event)
	}))
	return nil
}

// RotateHotspot aplica a rotação (em graus) em torno de cada eixo.
func (s *Spotter) RotateHotspot(key string, x, y, z float64) error {
	h, err := s.hotspots.Get(key)
	if err != nil {
		return err
	}
	h.Object.SetRotation(mgl64.Vec3{mgl64.DegToRad(x), mgl64.DegToRad(y), mgl64.DegToRad(z)})
	return nil
}

// Hotspot retorna o hotspot registrado sob key.
func (s *Spotter) Hotspot(key string) (*Hotspot, error) {
	return s.hotspots.Get(key)
}

// Keys retorna as chaves de todos os hotspots na ordem de criação.
func (s *Spotter) Keys() []string {
	return s.hotspots.Keys()
}

// DynamicHotspots retorna os hotspots dinâmicos na ordem de criação.
func (s *Spotter) DynamicHotspots() []*Hotspot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Hotspot, len(s.dynamic))
	copy(out, s.dynamic)
	return out
}

// Wait bloqueia até todas as cargas de timeline em andamento terminarem.
func (s *Spotter) Wait() {
	_ = s.loads.Wait()
}

// Close cancela as cargas pendentes. Timelines que chegarem depois são
// ignoradas.
func (s *Spotter) Close() {
	s.cancel()
}
