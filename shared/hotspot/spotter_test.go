package hotspot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var ball = Sphere{Radius: 0.5, WidthSegments: 16, HeightSegments: 12}

func newTestSpotter(t *testing.T, source DataSource) (*Spotter, *fakeScene, *fakePointer) {
	t.Helper()
	scene := &fakeScene{}
	pointer := newFakePointer()
	s := NewSpotter(scene, pointer, source)
	t.Cleanup(func() {
		s.Close()
		s.Wait()
	})

	if err := s.AddSize("small", ball); err != nil {
		t.Fatalf("AddSize falhou: %v", err)
	}
	if err := s.AddTexture("red", Texture{Path: "red.png", Tint: "#ff0000"}); err != nil {
		t.Fatalf("AddTexture falhou: %v", err)
	}
	return s, scene, pointer
}

func TestAddSizeValidation(t *testing.T) {
	tests := []struct {
		name   string
		sphere Sphere
		ok     bool
	}{
		{"válida", Sphere{Radius: 1, WidthSegments: 3, HeightSegments: 2}, true},
		{"raio zero", Sphere{Radius: 0, WidthSegments: 8, HeightSegments: 8}, false},
		{"raio negativo", Sphere{Radius: -1, WidthSegments: 8, HeightSegments: 8}, false},
		{"poucos segmentos horizontais", Sphere{Radius: 1, WidthSegments: 2, HeightSegments: 8}, false},
		{"poucos segmentos verticais", Sphere{Radius: 1, WidthSegments: 8, HeightSegments: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpotter(&fakeScene{}, nil, nil)
			err := s.AddSize("k", tt.sphere)
			if tt.ok && err != nil {
				t.Errorf("erro inesperado: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSize) {
				t.Errorf("esperado ErrInvalidSize, obtido %v", err)
			}
		})
	}
}

func TestDuplicateSizeKeepsFirst(t *testing.T) {
	s, scene, _ := newTestSpotter(t, nil)

	err := s.AddSize("small", Sphere{Radius: 9, WidthSegments: 4, HeightSegments: 4})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("esperado ErrDuplicateKey, obtido %v", err)
	}
	if scene.spheres != 1 {
		t.Errorf("geometria duplicada não deveria ser criada (criadas: %d)", scene.spheres)
	}

	geo, err := s.Size("small")
	if err != nil {
		t.Fatal(err)
	}
	if geo.(Sphere) != ball {
		t.Errorf("entrada original alterada: %v", geo)
	}
}

func TestDuplicateTexture(t *testing.T) {
	s, _, _ := newTestSpotter(t, nil)
	if err := s.AddTexture("red", Texture{Path: "other.png"}); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("esperado ErrDuplicateKey, obtido %v", err)
	}
	mat, _ := s.Texture("red")
	if mat.(Texture).Path != "red.png" {
		t.Errorf("textura original alterada: %v", mat)
	}
}

func TestAddHotspotUnknownReferences(t *testing.T) {
	tests := []struct {
		name, size, texture string
	}{
		{"tamanho desconhecido", "huge", "red"},
		{"textura desconhecida", "small", "blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, scene, _ := newTestSpotter(t, nil)
			for i := 0; i < 2; i++ {
				_, err := s.AddHotspot("a", mgl64.Vec3{}, tt.size, tt.texture)
				if !errors.Is(err, ErrUnknownKey) {
					t.Fatalf("tentativa %d: esperado ErrUnknownKey, obtido %v", i, err)
				}
			}
			if len(scene.added) != 0 {
				t.Errorf("nenhum objeto deveria entrar na cena, obtido %d", len(scene.added))
			}
			if _, err := s.Hotspot("a"); !errors.Is(err, ErrUnknownKey) {
				t.Error("hotspot não deveria ter sido registrado")
			}
		})
	}
}

func TestAddHotspotStatic(t *testing.T) {
	s, scene, _ := newTestSpotter(t, nil)

	h, err := s.AddHotspot("door", mgl64.Vec3{1, 2, 3}, "small", "red")
	if err != nil {
		t.Fatalf("AddHotspot falhou: %v", err)
	}
	if h.Dynamic {
		t.Error("hotspot estático marcado como dinâmico")
	}
	if pos := h.Object.Position(); pos != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("posição = %v", pos)
	}
	if !h.Object.Visible() {
		t.Error("hotspot estático deveria estar visível")
	}
	if len(scene.added) != 1 || scene.added[0] != h.Object {
		t.Error("objeto não adicionado à cena")
	}

	if _, err := s.AddHotspot("door", mgl64.Vec3{}, "small", "red"); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("esperado ErrDuplicateKey, obtido %v", err)
	}
	if err := h.SetTimeline(ParseTimelineString("0#0#0#0")); !errors.Is(err, ErrTimelineRejected) {
		t.Errorf("hotspot estático não deveria aceitar timeline: %v", err)
	}
	if len(s.DynamicHotspots()) != 0 {
		t.Error("hotspot estático não deveria estar na lista de dinâmicos")
	}
}

func TestRotateHotspotDegrees(t *testing.T) {
	s, _, _ := newTestSpotter(t, nil)
	h, _ := s.AddHotspot("a", mgl64.Vec3{}, "small", "red")

	if err := s.RotateHotspot("a", 90, 180, 0); err != nil {
		t.Fatal(err)
	}
	obj := h.Object.(*fakeObject)
	want := mgl64.Vec3{mgl64.DegToRad(90), mgl64.DegToRad(180), 0}
	if !obj.rotation.ApproxEqual(want) {
		t.Errorf("rotação = %v, esperado %v", obj.rotation, want)
	}

	if err := s.RotateHotspot("nada", 0, 0, 0); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("esperado ErrUnknownKey, obtido %v", err)
	}
}

func TestAddEventFiresOnlyWhileVisible(t *testing.T) {
	s, _, pointer := newTestSpotter(t, nil)
	h, _ := s.AddHotspot("a", mgl64.Vec3{}, "small", "red")

	var got []string
	err := s.AddEvent("a", EventClick, func(key string, event Event) {
		got = append(got, key+":"+string(event))
	})
	if err != nil {
		t.Fatal(err)
	}

	pointer.fire(h.Object, EventClick)
	h.Object.SetVisible(false)
	pointer.fire(h.Object, EventClick)
	h.Object.SetVisible(true)
	pointer.fire(h.Object, EventClick)

	if len(got) != 2 || got[0] != "a:click" {
		t.Errorf("disparos = %v, esperado 2x a:click", got)
	}
}

func TestAddEventErrors(t *testing.T) {
	s, _, _ := newTestSpotter(t, nil)
	_, _ = s.AddHotspot("a", mgl64.Vec3{}, "small", "red")
	noop := func(string, Event) {}

	if err := s.AddEvent("a", Event("hover"), noop); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("esperado ErrUnknownEvent, obtido %v", err)
	}
	if err := s.AddEvent("nada", EventClick, noop); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("esperado ErrUnknownKey, obtido %v", err)
	}
}

func TestDynamicHotspotLoadsTimeline(t *testing.T) {
	var requested string
	source := SourceFunc(func(ctx context.Context, path string) (string, error) {
		requested = path
		return "0#NaN#NaN#NaN\n1#0#0#0\n2#10#0#0\n", nil
	})
	s, _, _ := newTestSpotter(t, source)

	h, err := s.AddDynamicHotspot("ball", "small", "red", "tl/ball.txt")
	if err != nil {
		t.Fatalf("AddDynamicHotspot falhou: %v", err)
	}
	if h.Object.Visible() {
		t.Error("hotspot dinâmico deveria nascer oculto")
	}

	s.Wait()
	if requested != "tl/ball.txt" {
		t.Errorf("caminho pedido = %q", requested)
	}
	if !h.HasTimeline() || len(h.Timeline()) != 3 {
		t.Fatalf("timeline não carregada: %v", h.Timeline())
	}
	if dyn := s.DynamicHotspots(); len(dyn) != 1 || dyn[0] != h {
		t.Errorf("DynamicHotspots = %v", dyn)
	}
	if err := h.SetTimeline(Timeline{}); !errors.Is(err, ErrTimelineRejected) {
		t.Errorf("segunda timeline deveria ser recusada: %v", err)
	}
}

func TestDynamicHotspotFailedLoadStaysInert(t *testing.T) {
	source := SourceFunc(func(ctx context.Context, path string) (string, error) {
		return "", errors.New("404")
	})
	s, _, _ := newTestSpotter(t, source)

	h, err := s.AddDynamicHotspot("ball", "small", "red", "missing.txt")
	if err != nil {
		t.Fatal(err)
	}
	s.Wait()

	if h.HasTimeline() {
		t.Error("falha na carga não deveria atribuir timeline")
	}
	h.Object.SetPosition(mgl64.Vec3{4, 4, 4})
	if pos, visible := h.Repaint(10); pos != (mgl64.Vec3{4, 4, 4}) || visible {
		t.Errorf("repaint de hotspot inerte alterou o objeto: %v %v", pos, visible)
	}
}

func TestDynamicHotspotWithoutSource(t *testing.T) {
	s, _, _ := newTestSpotter(t, nil)
	h, err := s.AddDynamicHotspot("ball", "small", "red", "x.txt")
	if err != nil {
		t.Fatal(err)
	}
	s.Wait()
	if h.HasTimeline() {
		t.Error("sem fonte o hotspot deveria ficar sem timeline")
	}
}

func TestCloseDiscardsLateTimeline(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	source := SourceFunc(func(ctx context.Context, path string) (string, error) {
		close(started)
		<-release
		return "0#1#1#1\n", nil
	})

	s := NewSpotter(&fakeScene{}, newFakePointer(), source)
	_ = s.AddSize("small", ball)
	_ = s.AddTexture("red", Texture{Path: "red.png"})

	h, err := s.AddDynamicHotspot("ball", "small", "red", "slow.txt")
	if err != nil {
		t.Fatal(err)
	}
	<-started
	s.Close()
	close(release)
	s.Wait()

	if h.HasTimeline() {
		t.Error("timeline que chegou após Close deveria ser descartada")
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "tl"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tl", "a.txt"), []byte("0#1#2#3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src := FileSource{Dir: dir}
	text, err := src.Fetch(context.Background(), "tl/a.txt")
	if err != nil || text != "0#1#2#3\n" {
		t.Errorf("Fetch = %q, %v", text, err)
	}

	if _, err := src.Fetch(context.Background(), "tl/none.txt"); err == nil {
		t.Error("arquivo inexistente deveria falhar")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Fetch(ctx, "tl/a.txt"); !errors.Is(err, context.Canceled) {
		t.Errorf("contexto cancelado: esperado context.Canceled, obtido %v", err)
	}
}
