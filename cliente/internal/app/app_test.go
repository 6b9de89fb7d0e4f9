package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"HotspotVision/cliente/internal/notify"
	"HotspotVision/shared/config"
	"HotspotVision/shared/hotspot"
	"HotspotVision/shared/playback"
	"HotspotVision/shared/proto/hsnet"
)

type recordingPublisher struct{ events []notify.Event }

func (p *recordingPublisher) Publish(ev notify.Event) { p.events = append(p.events, ev) }

type recordingReporter struct {
	events []*hsnet.HotspotEvent
	err    error
}

func (r *recordingReporter) SendEvent(ev *hsnet.HotspotEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestForwarderFansOut(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pub := &recordingPublisher{}
	srv := &recordingReporter{err: errors.New("offline")}

	f := newForwarder(func() float64 { return 1.5 })
	f.now = func() time.Time { return at }
	f.pub = pub
	f.srv = srv

	f.handle("porta", hotspot.EventClick)

	if len(pub.events) != 1 {
		t.Fatalf("publicados = %d, esperado 1", len(pub.events))
	}
	got := pub.events[0]
	if got.Key != "porta" || got.Event != "click" || got.VideoTime != 1.5 || !got.At.Equal(at) {
		t.Errorf("evento MQTT = %+v", got)
	}

	if len(srv.events) != 1 {
		t.Fatalf("enviados = %d, esperado 1", len(srv.events))
	}
	if srv.events[0].UnixMillis != at.UnixMilli() || srv.events[0].Key != "porta" {
		t.Errorf("evento do servidor = %+v", srv.events[0])
	}
	if f.Total() != 1 {
		t.Errorf("Total = %d, esperado 1", f.Total())
	}
}

func TestForwarderKeepsRecentWindow(t *testing.T) {
	f := newForwarder(func() float64 { return 0 })
	for i := 0; i < maxRecent+3; i++ {
		f.handle(strings.Repeat("k", i+1), hotspot.EventMouseOver)
	}

	recent := f.Recent()
	if len(recent) != maxRecent {
		t.Fatalf("len(Recent) = %d, esperado %d", len(recent), maxRecent)
	}
	if !strings.HasSuffix(recent[len(recent)-1], strings.Repeat("k", maxRecent+3)) {
		t.Errorf("último = %q", recent[len(recent)-1])
	}
	if f.Total() != maxRecent+3 {
		t.Errorf("Total = %d", f.Total())
	}
}

func TestChainSourceFallsBack(t *testing.T) {
	failing := hotspot.SourceFunc(func(ctx context.Context, path string) (string, error) {
		return "", errors.New("sem servidor")
	})
	local := hotspot.SourceFunc(func(ctx context.Context, path string) (string, error) {
		return "0#1#2#3", nil
	})

	text, err := chainSource{failing, local}.Fetch(context.Background(), "a.txt")
	if err != nil || text != "0#1#2#3" {
		t.Fatalf("Fetch = %q, %v", text, err)
	}
}

func TestChainSourceJoinsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	chain := chainSource{
		hotspot.SourceFunc(func(context.Context, string) (string, error) { return "", errA }),
		hotspot.SourceFunc(func(context.Context, string) (string, error) { return "", errB }),
	}

	_, err := chain.Fetch(context.Background(), "x")
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("err = %v, esperado ambos", err)
	}

	if _, err := (chainSource{}).Fetch(context.Background(), "x"); err == nil {
		t.Fatal("cadeia vazia deveria falhar")
	}
}

func TestChainSourceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	blocking := hotspot.SourceFunc(func(c context.Context, path string) (string, error) {
		calls++
		cancel()
		<-c.Done()
		return "", c.Err()
	})

	_, err := chainSource{blocking, blocking}.Fetch(ctx, "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, esperado context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("chamadas = %d, esperado 1", calls)
	}
}

type stubObject struct {
	mu       sync.Mutex
	position mgl64.Vec3
	visible  bool
}

func (o *stubObject) Position() mgl64.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.position
}

func (o *stubObject) SetPosition(p mgl64.Vec3) {
	o.mu.Lock()
	o.position = p
	o.mu.Unlock()
}

func (o *stubObject) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

func (o *stubObject) SetVisible(v bool) {
	o.mu.Lock()
	o.visible = v
	o.mu.Unlock()
}

func (o *stubObject) SetRotation(mgl64.Vec3) {}

type stubScene struct{}

func (stubScene) NewSphere(s hotspot.Sphere) (hotspot.Geometry, error)    { return s, nil }
func (stubScene) NewMaterial(t hotspot.Texture) (hotspot.Material, error) { return t, nil }
func (stubScene) Add(hotspot.Renderable)                                  {}

func (stubScene) NewObject(hotspot.Geometry, hotspot.Material) hotspot.Renderable {
	return &stubObject{}
}

type stubMedia struct {
	mu      sync.Mutex
	now     float64
	playing bool
}

func (m *stubMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *stubMedia) Restart()       {}
func (m *stubMedia) OnEnded(func()) {}

func (m *stubMedia) Play() {
	m.mu.Lock()
	m.playing = true
	m.mu.Unlock()
}

func (m *stubMedia) Pause() {
	m.mu.Lock()
	m.playing = false
	m.mu.Unlock()
}

func (m *stubMedia) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *stubMedia) set(t float64) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func TestPlaybackStartsBeforeTimelinesArrive(t *testing.T) {
	release := make(chan struct{})
	source := hotspot.SourceFunc(func(ctx context.Context, path string) (string, error) {
		select {
		case <-release:
			return "0#NaN#NaN#NaN\n1#4#0#0", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})

	spotter := hotspot.NewSpotter(stubScene{}, nil, source)
	t.Cleanup(func() {
		spotter.Close()
		spotter.Wait()
	})
	if err := spotter.AddSize("p", hotspot.Sphere{Radius: 1, WidthSegments: 8, HeightSegments: 8}); err != nil {
		t.Fatal(err)
	}
	if err := spotter.AddTexture("t", hotspot.Texture{Tint: "#ff8800"}); err != nil {
		t.Fatal(err)
	}
	h, err := spotter.AddDynamicHotspot("voo", "p", "t", "voo.txt")
	if err != nil {
		t.Fatal(err)
	}

	media := &stubMedia{}
	a := New(&config.Config{}, "")
	a.spotter = spotter
	a.media = media
	a.driver = playback.NewDriver(media, spotter, time.Hour)
	go a.awaitTimelines()

	a.startPlayback()
	defer a.driver.Stop()

	if a.driver.State() != playback.Polling || !media.Playing() || a.State != StateViewing {
		t.Fatalf("reprodução não começou: driver %v, mídia %v, estado %v", a.driver.State(), media.Playing(), a.State)
	}
	if !a.loading() {
		t.Fatal("timeline ainda não deveria ter chegado")
	}

	media.set(2)
	a.driver.Tick()
	if h.HasTimeline() || h.Object.Visible() {
		t.Error("hotspot sem timeline deveria continuar inerte")
	}

	close(release)
	select {
	case <-a.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("timeline não chegou")
	}

	a.driver.Tick()
	if !h.Object.Visible() || h.Object.Position() != (mgl64.Vec3{4, 0, 0}) {
		t.Errorf("após a carga: visível=%v pos=%v", h.Object.Visible(), h.Object.Position())
	}
}
