package render

import (
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"HotspotVision/shared/hotspot"
)

func TestParseTint(t *testing.T) {
	tests := []struct {
		hex  string
		want rl.Color
		ok   bool
	}{
		{"", rl.White, true},
		{"#ff0000", rl.NewColor(255, 0, 0, 255), true},
		{"#00ff80", rl.NewColor(0, 255, 128, 255), true},
		{"vermelho", rl.White, false},
	}
	for _, tt := range tests {
		got, err := ParseTint(tt.hex)
		if (err == nil) != tt.ok {
			t.Errorf("ParseTint(%q) erro = %v", tt.hex, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTint(%q) = %v, esperado %v", tt.hex, got, tt.want)
		}
	}
}

func TestPulseScale(t *testing.T) {
	if PulseScale(0) != 1 {
		t.Errorf("início da pulsação = %v", PulseScale(0))
	}
	if got := PulseScale(PulsePeriod / 2); got != 1+PulseAmplitude {
		t.Errorf("meio do período = %v, esperado %v", got, 1+PulseAmplitude)
	}
	for d := time.Duration(0); d < 2*PulsePeriod; d += 10 * time.Millisecond {
		s := PulseScale(d)
		if s < 1 || s > 1+PulseAmplitude {
			t.Fatalf("escala fora do intervalo em %v: %v", d, s)
		}
	}
}

func TestSpotHover(t *testing.T) {
	s := NewSpot(&Sphere{Spec: hotspot.Sphere{Radius: 0.5}}, nil)
	now := time.Now()
	if s.Scale(now) != 1 {
		t.Error("sem hover a escala deveria ser 1")
	}
	s.SetHovered(true, now)
	s.SetHovered(true, now.Add(time.Second)) // não reinicia o ciclo
	if got := s.Scale(now.Add(PulsePeriod / 2)); got != 1+PulseAmplitude {
		t.Errorf("escala no pico = %v", got)
	}
	s.SetHovered(false, now)
	if s.Scale(now) != 1 {
		t.Error("hover desligado deveria voltar à escala 1")
	}
	if s.Radius() != 0.5 {
		t.Errorf("Radius = %v", s.Radius())
	}
}

func TestRendererHeadlessScene(t *testing.T) {
	r := NewRenderer()

	if _, err := r.NewSphere(hotspot.Sphere{Radius: 0}); err == nil {
		t.Error("esfera inválida deveria falhar")
	}
	geo, err := r.NewSphere(hotspot.Sphere{Radius: 1, WidthSegments: 8, HeightSegments: 8})
	if err != nil {
		t.Fatal(err)
	}
	mat, err := r.NewMaterial(hotspot.Texture{Tint: "#0000ff"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.NewMaterial(hotspot.Texture{Tint: "azul"}); err == nil {
		t.Error("tinta inválida deveria falhar")
	}

	obj := r.NewObject(geo, mat)
	obj.SetPosition(mgl64.Vec3{1, 2, 3})
	r.Add(obj)

	spots := r.Spots()
	if len(spots) != 1 || spots[0].Position() != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("Spots = %v", spots)
	}
	if spots[0].Material.Tint != rl.NewColor(0, 0, 255, 255) {
		t.Errorf("tinta = %v", spots[0].Material.Tint)
	}
	obj.SetVisible(false)
	if r.VisibleCount() != 0 {
		t.Error("objeto oculto contado como visível")
	}
}
