package render

import (
	"fmt"
	"log"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"HotspotVision/shared/hotspot"
	"HotspotVision/shared/util"
)

// Sphere é a geometria registrada de um tamanho.
type Sphere struct {
	Spec  hotspot.Sphere
	Model rl.Model
	ready bool
}

// Material é a textura registrada com sua tinta.
type Material struct {
	Path    string
	Texture rl.Texture2D
	Tint    rl.Color
}

// Renderer implementa hotspot.Scene sobre o raylib e desenha os hotspots.
// Sem janela (testes, modo headless) só mantém os descritores.
type Renderer struct {
	mu       sync.RWMutex
	spots    []*Spot
	spheres  []*Sphere
	textures map[string]rl.Texture2D
}

var _ hotspot.Scene = (*Renderer)(nil)

// NewRenderer cria um renderizador vazio.
func NewRenderer() *Renderer {
	return &Renderer{
		textures: make(map[string]rl.Texture2D),
	}
}

// NewSphere gera a malha da esfera (anéis = segmentos verticais, fatias =
// segmentos horizontais).
func (r *Renderer) NewSphere(spec hotspot.Sphere) (hotspot.Geometry, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	s := &Sphere{Spec: spec}
	if rl.IsWindowReady() {
		mesh := rl.GenMeshSphere(float32(spec.Radius), spec.HeightSegments, spec.WidthSegments)
		s.Model = rl.LoadModelFromMesh(mesh)
		s.ready = true
	}

	r.mu.Lock()
	r.spheres = append(r.spheres, s)
	r.mu.Unlock()
	return s, nil
}

// NewMaterial carrega (uma vez por caminho) a textura e interpreta a tinta.
func (r *Renderer) NewMaterial(tex hotspot.Texture) (hotspot.Material, error) {
	tint, err := ParseTint(tex.Tint)
	if err != nil {
		return nil, err
	}
	m := &Material{Path: tex.Path, Tint: tint}
	if tex.Path == "" || !rl.IsWindowReady() {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.textures[tex.Path]; ok {
		m.Texture = t
		return m, nil
	}

	t := rl.LoadTexture(tex.Path)
	if t.ID == 0 {
		log.Printf("[Renderer] FALHA ao carregar textura: %s (usando só a cor)", tex.Path)
		return m, nil
	}
	rl.GenTextureMipmaps(&t)
	rl.SetTextureFilter(t, rl.FilterTrilinear)
	r.textures[tex.Path] = t
	m.Texture = t
	log.Printf("[Renderer] Textura carregada: %s", tex.Path)
	return m, nil
}

// NewObject cria o objeto de cena de um hotspot.
func (r *Renderer) NewObject(g hotspot.Geometry, m hotspot.Material) hotspot.Renderable {
	geo, _ := g.(*Sphere)
	mat, _ := m.(*Material)
	return NewSpot(geo, mat)
}

// Add inclui o objeto na lista de desenho.
func (r *Renderer) Add(obj hotspot.Renderable) {
	spot, ok := obj.(*Spot)
	if !ok {
		log.Printf("[Renderer] AVISO: objeto de tipo %T ignorado", obj)
		return
	}
	r.mu.Lock()
	r.spots = append(r.spots, spot)
	r.mu.Unlock()
}

// Spots retorna os objetos adicionados, na ordem de inclusão.
func (r *Renderer) Spots() []*Spot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Spot, len(r.spots))
	copy(out, r.spots)
	return out
}

// VisibleCount retorna quantos objetos estão visíveis.
func (r *Renderer) VisibleCount() int {
	n := 0
	for _, s := range r.Spots() {
		if s.Visible() {
			n++
		}
	}
	return n
}

// Draw desenha os objetos visíveis. Deve ser chamado dentro de BeginMode3D.
func (r *Renderer) Draw(now time.Time) {
	for _, s := range r.Spots() {
		if !s.Visible() || s.Geometry == nil || !s.Geometry.ready {
			continue
		}

		model := s.Geometry.Model
		rot := s.Rotation()
		model.Transform = rl.MatrixRotateXYZ(rl.Vector3{X: float32(rot[0]), Y: float32(rot[1]), Z: float32(rot[2])})

		tint := rl.White
		if s.Material != nil {
			tint = s.Material.Tint
			if s.Material.Texture.ID != 0 {
				rl.SetMaterialTexture(&model.GetMaterials()[0], rl.MapDiffuse, s.Material.Texture)
			}
		}

		rl.DrawModel(model, util.ToRL(s.Position()), float32(s.Scale(now)), tint)
	}
}

// Unload libera malhas e texturas da GPU.
func (r *Renderer) Unload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.spheres {
		if s.ready {
			rl.UnloadModel(s.Model)
			s.ready = false
		}
	}
	for path, t := range r.textures {
		rl.UnloadTexture(t)
		delete(r.textures, path)
	}
}

// ParseTint converte "#rrggbb" em cor do raylib. Vazio é branco.
func ParseTint(hex string) (rl.Color, error) {
	if hex == "" {
		return rl.White, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return rl.White, fmt.Errorf("tinta %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, 255), nil
}
