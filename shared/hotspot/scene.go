package hotspot

import (
	"errors"
	"fmt"
)

// ErrInvalidSize indica parâmetros de esfera fora dos limites.
var ErrInvalidSize = errors.New("tamanho inválido")

// Geometry e Material são descritores opacos criados pela cena.
type (
	Geometry any
	Material any
)

// Sphere descreve o tamanho de um hotspot.
type Sphere struct {
	Radius         float64
	WidthSegments  int // mínimo 3
	HeightSegments int // mínimo 2
}

// Validate verifica raio e número de segmentos.
func (s Sphere) Validate() error {
	switch {
	case s.Radius <= 0:
		return fmt.Errorf("raio %.3f: %w", s.Radius, ErrInvalidSize)
	case s.WidthSegments < 3:
		return fmt.Errorf("segmentos horizontais %d (mínimo 3): %w", s.WidthSegments, ErrInvalidSize)
	case s.HeightSegments < 2:
		return fmt.Errorf("segmentos verticais %d (mínimo 2): %w", s.HeightSegments, ErrInvalidSize)
	}
	return nil
}

// Texture descreve um material: caminho da imagem e tinta opcional (#rrggbb).
type Texture struct {
	Path string
	Tint string
}

// Scene é a biblioteca 3D que fabrica geometrias, materiais e objetos.
type Scene interface {
	NewSphere(s Sphere) (Geometry, error)
	NewMaterial(t Texture) (Material, error)
	NewObject(g Geometry, m Material) Renderable
	Add(obj Renderable)
}
