// Package scene lê o manifesto YAML da cena (tamanhos, texturas e hotspots)
// e o aplica a um Spotter.
package scene

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"HotspotVision/shared/hotspot"
)

// SizeEntry descreve uma esfera reutilizável.
type SizeEntry struct {
	Radius         float64 `yaml:"radius"`
	WidthSegments  int     `yaml:"width_segments"`
	HeightSegments int     `yaml:"height_segments"`
}

// TextureEntry descreve uma textura reutilizável.
type TextureEntry struct {
	Path string `yaml:"path"`
	Tint string `yaml:"tint,omitempty"`
}

// HotspotEntry descreve um hotspot. Com Timeline ele é dinâmico; senão fica
// em Position.
type HotspotEntry struct {
	Key      string    `yaml:"key"`
	Size     string    `yaml:"size"`
	Texture  string    `yaml:"texture"`
	Position []float64 `yaml:"position,omitempty"`
	Timeline string    `yaml:"timeline,omitempty"`
	Rotation []float64 `yaml:"rotation,omitempty"` // graus
	Events   []string  `yaml:"events,omitempty"`
}

// Dynamic informa se o hotspot segue uma timeline.
func (h HotspotEntry) Dynamic() bool {
	return h.Timeline != ""
}

// Manifest é o root do scene.yaml.
type Manifest struct {
	Name       string                  `yaml:"name"`
	Soundtrack string                  `yaml:"soundtrack,omitempty"`
	Sizes      map[string]SizeEntry    `yaml:"sizes"`
	Textures   map[string]TextureEntry `yaml:"textures"`
	Hotspots   []HotspotEntry          `yaml:"hotspots"`
}

// Load lê e valida o manifesto.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler manifesto: %w", err)
	}
	return Parse(data)
}

// Parse decodifica e valida o manifesto.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("falha ao parsear manifesto: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate verifica o manifesto inteiro e junta todos os problemas.
func (m *Manifest) Validate() error {
	var errs []error

	for _, key := range sortedKeys(m.Textures) {
		if tint := m.Textures[key].Tint; tint != "" {
			if _, err := colorful.Hex(tint); err != nil {
				errs = append(errs, fmt.Errorf("textura %q: tinta %q inválida", key, tint))
			}
		}
	}

	seen := make(map[string]bool)
	for i, h := range m.Hotspots {
		where := fmt.Sprintf("hotspot #%d %q", i, h.Key)
		switch {
		case h.Key == "":
			errs = append(errs, fmt.Errorf("hotspot #%d: chave vazia", i))
		case seen[h.Key]:
			errs = append(errs, fmt.Errorf("%s: %w", where, hotspot.ErrDuplicateKey))
		}
		seen[h.Key] = true

		if h.Dynamic() && len(h.Position) > 0 {
			errs = append(errs, fmt.Errorf("%s: position e timeline são exclusivos", where))
		}
		if !h.Dynamic() && len(h.Position) != 3 {
			errs = append(errs, fmt.Errorf("%s: position precisa de 3 valores", where))
		}
		if len(h.Rotation) != 0 && len(h.Rotation) != 3 {
			errs = append(errs, fmt.Errorf("%s: rotation precisa de 3 valores", where))
		}
		for _, name := range h.Events {
			if _, err := hotspot.ParseEvent(name); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", where, err))
			}
		}
	}

	return errors.Join(errs...)
}

// Apply registra tamanhos, texturas e hotspots no spotter e liga os eventos
// a cb. Falhas individuais não interrompem o resto; todas são retornadas.
func (m *Manifest) Apply(s *hotspot.Spotter, cb hotspot.Callback) error {
	var errs []error

	for _, key := range sortedKeys(m.Sizes) {
		e := m.Sizes[key]
		sphere := hotspot.Sphere{Radius: e.Radius, WidthSegments: e.WidthSegments, HeightSegments: e.HeightSegments}
		if err := s.AddSize(key, sphere); err != nil {
			errs = append(errs, err)
		}
	}

	for _, key := range sortedKeys(m.Textures) {
		e := m.Textures[key]
		if err := s.AddTexture(key, hotspot.Texture{Path: e.Path, Tint: e.Tint}); err != nil {
			errs = append(errs, err)
		}
	}

	created := 0
	for _, h := range m.Hotspots {
		var err error
		if h.Dynamic() {
			_, err = s.AddDynamicHotspot(h.Key, h.Size, h.Texture, h.Timeline)
		} else {
			_, err = s.AddHotspot(h.Key, vec3(h.Position), h.Size, h.Texture)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		created++

		if len(h.Rotation) == 3 {
			if err := s.RotateHotspot(h.Key, h.Rotation[0], h.Rotation[1], h.Rotation[2]); err != nil {
				errs = append(errs, err)
			}
		}
		for _, name := range h.Events {
			if err := s.AddEvent(h.Key, hotspot.Event(name), cb); err != nil {
				errs = append(errs, err)
			}
		}
	}

	log.Printf("[Scene] Manifesto %q aplicado: %d/%d hotspots", m.Name, created, len(m.Hotspots))
	return errors.Join(errs...)
}

// Timelines retorna os caminhos de timeline referenciados, sem repetição.
func (m *Manifest) Timelines() []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range m.Hotspots {
		if h.Dynamic() && !seen[h.Timeline] {
			seen[h.Timeline] = true
			out = append(out, h.Timeline)
		}
	}
	return out
}

func vec3(v []float64) mgl64.Vec3 {
	var out mgl64.Vec3
	copy(out[:], v)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
