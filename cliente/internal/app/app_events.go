package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"HotspotVision/cliente/internal/notify"
	"HotspotVision/shared/hotspot"
	"HotspotVision/shared/proto/hsnet"
	"HotspotVision/shared/util"
)

// maxRecent é quantos eventos o HUD mostra.
const maxRecent = 6

type eventPublisher interface {
	Publish(ev notify.Event)
}

type eventReporter interface {
	SendEvent(ev *hsnet.HotspotEvent) error
}

// forwarder recebe os eventos dos hotspots e os repassa ao broker MQTT e ao
// servidor, guardando os mais recentes para o HUD.
type forwarder struct {
	videoTime func() float64
	now       func() time.Time

	pub eventPublisher
	srv eventReporter

	mu     sync.Mutex
	recent *util.Ring[string]
}

func newForwarder(videoTime func() float64) *forwarder {
	return &forwarder{videoTime: videoTime, now: time.Now, recent: util.NewRing[string](maxRecent)}
}

// handle é o hotspot.Callback registrado no spotter.
func (f *forwarder) handle(key string, event hotspot.Event) {
	at := f.now()
	vt := f.videoTime()
	log.Printf("[Hotspot] %s em %q (t=%.2fs)", event, key, vt)

	f.mu.Lock()
	f.recent.Push(fmt.Sprintf("%6.2fs %-9s %s", vt, event, key))
	f.mu.Unlock()

	if f.pub != nil {
		f.pub.Publish(notify.Event{Key: key, Event: string(event), VideoTime: vt, At: at})
	}
	if f.srv != nil {
		ev := &hsnet.HotspotEvent{Key: key, Event: string(event), VideoTime: vt, UnixMillis: at.UnixMilli()}
		if err := f.srv.SendEvent(ev); err != nil {
			log.Printf("[Hotspot] Evento não enviado ao servidor: %v", err)
		}
	}
}

// Recent retorna os últimos eventos, do mais antigo ao mais novo.
func (f *forwarder) Recent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recent.Items()
}

// Total retorna quantos eventos passaram pelo forwarder.
func (f *forwarder) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int(f.recent.Total())
}
