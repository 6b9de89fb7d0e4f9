package app

import (
	"log"
	"sync"
	"time"

	"HotspotVision/cliente/internal/camera"
	"HotspotVision/cliente/internal/client"
	"HotspotVision/cliente/internal/input"
	"HotspotVision/cliente/internal/media"
	"HotspotVision/cliente/internal/notify"
	"HotspotVision/cliente/internal/render"
	"HotspotVision/cliente/internal/scene"
	"HotspotVision/shared/config"
	"HotspotVision/shared/hotspot"
	"HotspotVision/shared/playback"
	"HotspotVision/shared/pointer"
	"HotspotVision/shared/proto/hsnet"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateViewing AppState = iota // Reproduzindo
	StatePaused                  // Mídia pausada
)

// Media é o relógio que conduz a reprodução: a trilha sonora ou, sem ela,
// um relógio de parede com a duração do clipe.
type Media interface {
	playback.Video
	Play()
	Pause()
	Playing() bool
}

// App é a aplicação principal do HotspotVision.
type App struct {
	Config     *config.Config
	ConfigPath string
	State      AppState

	Cam *camera.CameraController

	frameCount int

	renderer   *render.Renderer
	spotter    *hotspot.Spotter
	dispatcher *pointer.Dispatcher
	picker     *input.Picker
	manifest   *scene.Manifest

	media      Media
	soundtrack *media.Soundtrack
	clock      *playback.Clock
	driver     *playback.Driver

	netClient *client.NetworkClient
	publisher *notify.Publisher
	events    *forwarder

	statusMu     sync.RWMutex
	serverStatus *hsnet.ServerStatus

	ready         chan struct{}
	LoadingStatus string
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config, configPath string) *App {
	return &App{
		Config:        cfg,
		ConfigPath:    configPath,
		ready:         make(chan struct{}),
		LoadingStatus: "Carregando cena...",
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}

	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0)
	rl.InitAudioDevice()

	a.Cam = camera.New(a.Config.FOV, a.Config.CameraDistance, a.Config.CameraSensitivity, a.Config.ZoomSpeed)

	log.Println("[HotspotVision] Janela inicializada com sucesso")
	log.Printf("[HotspotVision] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	a.connectServer()
	a.connectBroker()
	a.setup()

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseAudioDevice()
	rl.CloseWindow()
}

// setup monta a cena: renderer, spotter, manifesto, mídia e driver.
func (a *App) setup() {
	a.renderer = render.NewRenderer()
	a.dispatcher = pointer.NewDispatcher()
	a.picker = input.NewPicker(a.dispatcher)

	a.spotter = hotspot.NewSpotter(a.renderer, a.dispatcher, a.timelineSource())

	m, err := scene.Load(a.Config.ScenePath)
	if err != nil {
		log.Printf("[App] Cena indisponível: %v", err)
	}
	a.manifest = m

	a.media = a.openMedia()
	a.events = newForwarder(a.media.CurrentTime)
	if a.publisher != nil {
		a.events.pub = a.publisher
	}
	if a.netClient != nil {
		a.events.srv = a.netClient
	}

	if m != nil {
		if err := m.Apply(a.spotter, a.events.handle); err != nil {
			log.Printf("[App] Cena aplicada com erros:\n%v", err)
		}
	}
	a.attachHover()

	a.driver = playback.NewDriver(a.media, a.spotter, a.Config.PollInterval())
	a.LoadingStatus = "Carregando timelines..."
	go a.awaitTimelines()
	a.startPlayback()
}

// openMedia abre a trilha (do config ou do manifesto) ou cai para um
// relógio de parede.
func (a *App) openMedia() Media {
	path := a.Config.SoundtrackPath
	if path == "" && a.manifest != nil {
		path = a.manifest.Soundtrack
	}
	if path != "" {
		s, err := media.Load(path)
		if err == nil {
			a.soundtrack = s
			return s
		}
		log.Printf("[App] %v; usando relógio de %.1fs", err, a.Config.ClipLength)
	}
	a.clock = playback.NewClock(time.Duration(a.Config.ClipLength * float64(time.Second)))
	return a.clock
}

// attachHover liga a pulsação de hover a cada objeto da cena.
func (a *App) attachHover() {
	for _, s := range a.renderer.Spots() {
		spot := s
		a.dispatcher.AddEventListener(spot, hotspot.EventMouseOver, func() { spot.SetHovered(true, time.Now()) })
		a.dispatcher.AddEventListener(spot, hotspot.EventMouseOut, func() { spot.SetHovered(false, time.Now()) })
	}
}

// awaitTimelines espera as cargas assíncronas para o aviso de carregamento.
// A reprodução não depende dele: hotspots sem timeline ficam inertes.
func (a *App) awaitTimelines() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em awaitTimelines: %v", r)
		}
	}()

	a.spotter.Wait()

	loaded := 0
	dynamic := a.spotter.DynamicHotspots()
	for _, h := range dynamic {
		if h.HasTimeline() {
			loaded++
		}
	}
	log.Printf("[App] Timelines carregadas: %d/%d", loaded, len(dynamic))
	close(a.ready)
}

// loading informa se ainda há timelines a caminho.
func (a *App) loading() bool {
	select {
	case <-a.ready:
		return false
	default:
		return true
	}
}

// startPlayback inicia a mídia e o driver. Roda na thread principal.
func (a *App) startPlayback() {
	a.media.Play()
	if !a.driver.Start(a.Config.Loop) {
		log.Printf("[App] Driver já estava ativo")
	}
	a.State = StateViewing
}

// update atualiza a lógica a cada frame.
func (a *App) update() {
	a.frameCount++

	if a.soundtrack != nil {
		a.soundtrack.Update()
	}

	a.updateCamera()
	a.updateInput()
	a.picker.Update(a.Cam.RLCamera, time.Now())
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if a.driver != nil {
		a.driver.Stop()
	}
	if a.spotter != nil {
		a.spotter.Close()
	}
	if a.clock != nil {
		a.clock.Close()
	}
	if a.soundtrack != nil {
		a.soundtrack.Unload()
	}
	if a.renderer != nil {
		a.renderer.Unload()
	}
	if a.netClient != nil {
		a.netClient.Close()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}

	if err := a.Config.Save(a.ConfigPath); err != nil {
		log.Printf("[HotspotVision] Erro ao salvar configurações: %v", err)
	}
}
