package playback

import (
	"log"
	"sync"
	"time"

	"HotspotVision/shared/hotspot"
)

// DefaultInterval é o período de polling do driver.
const DefaultInterval = 50 * time.Millisecond

// Video é o relógio de mídia que dirige a animação. O loop é feito pelo
// Driver; o vídeo nunca deve repetir sozinho.
type Video interface {
	CurrentTime() float64
	Restart()
	OnEnded(fn func())
}

// Animated fornece os hotspots dinâmicos a repintar.
type Animated interface {
	DynamicHotspots() []*hotspot.Hotspot
}

// State é o estado do driver.
type State int

const (
	Idle State = iota
	Polling
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Polling:
		return "Polling"
	case Stopped:
		return "Stopped"
	}
	return "Unknown"
}

// Driver consulta o tempo do vídeo periodicamente e repinta todos os
// hotspots dinâmicos. No fim do vídeo para ou reinicia, conforme o loop.
type Driver struct {
	video    Video
	spots    Animated
	interval time.Duration

	mu    sync.Mutex
	state State
	loop  bool
	stop  chan struct{}
	done  chan struct{}
	ticks uint64

	// pass serializa um tick completo contra o reset de todos os cursores.
	// resets conta os resets; um tick cujo tempo foi lido antes de um
	// reset é descartado.
	pass   sync.Mutex
	resets uint64
}

// NewDriver cria um driver parado. interval <= 0 usa DefaultInterval.
func NewDriver(video Video, spots Animated, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	d := &Driver{
		video:    video,
		spots:    spots,
		interval: interval,
	}
	video.OnEnded(d.handleEnded)
	return d
}

// Start inicia o polling. Retorna false se já estiver em andamento.
// Partindo de Stopped os cursores são mantidos; use Rewind para recomeçar.
func (d *Driver) Start(loop bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Polling {
		return false
	}
	d.loop = loop
	d.state = Polling
	d.stop = make(chan struct{})
	d.done = make(chan struct{})

	go d.run(d.stop, d.done)
	log.Printf("[Driver] Polling iniciado (intervalo %v, loop=%v)", d.interval, loop)
	return true
}

// Stop interrompe o polling e espera a goroutine terminar.
func (d *Driver) Stop() {
	d.mu.Lock()
	done := d.halt()
	d.mu.Unlock()

	if done != nil {
		<-done
	}
}

// halt fecha o canal de parada. Deve ser chamado com d.mu travado.
func (d *Driver) halt() chan struct{} {
	if d.state != Polling {
		return nil
	}
	d.state = Stopped
	close(d.stop)
	return d.done
}

// State retorna o estado atual.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Loop informa se o driver reinicia o vídeo ao terminar.
func (d *Driver) Loop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loop
}

// SetLoop altera o modo de repetição sem interromper o polling.
func (d *Driver) SetLoop(loop bool) {
	d.mu.Lock()
	d.loop = loop
	d.mu.Unlock()
}

// Ticks retorna o número de passagens de repaint já executadas.
func (d *Driver) Ticks() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticks
}

func (d *Driver) run(stop, done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Driver] Recuperado de pânico no polling: %v", r)
		}
	}()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.Tick()
		}
	}
}

// Tick executa uma passagem: lê o tempo do vídeo e repinta cada hotspot
// dinâmico, na ordem de criação. Se os cursores foram zerados durante a
// leitura, o tempo lido é do ciclo anterior e a passagem é descartada.
func (d *Driver) Tick() {
	d.pass.Lock()
	gen := d.resets
	d.pass.Unlock()

	now := d.video.CurrentTime()

	d.pass.Lock()
	if d.resets != gen {
		d.pass.Unlock()
		return
	}
	for _, h := range d.spots.DynamicHotspots() {
		h.Repaint(now)
	}
	d.pass.Unlock()

	d.mu.Lock()
	d.ticks++
	d.mu.Unlock()
}

// Rewind volta todos os cursores ao início e reinicia o vídeo. Os dois
// acontecem sob o mesmo lock, então nenhum tick vê um sem o outro.
func (d *Driver) Rewind() {
	d.pass.Lock()
	defer d.pass.Unlock()
	d.resets++
	for _, h := range d.spots.DynamicHotspots() {
		h.ResetCursor()
	}
	d.video.Restart()
}

// handleEnded trata o fim do vídeo: para o polling ou reinicia o loop.
func (d *Driver) handleEnded() {
	d.mu.Lock()
	if d.state != Polling {
		d.mu.Unlock()
		return
	}
	if !d.loop {
		d.halt()
		d.mu.Unlock()
		log.Println("[Driver] Vídeo terminou, polling encerrado")
		return
	}
	d.mu.Unlock()

	log.Println("[Driver] Vídeo terminou, reiniciando loop")
	d.Rewind()
}
