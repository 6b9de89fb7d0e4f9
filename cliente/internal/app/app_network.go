package app

import (
	"context"
	"errors"
	"log"
	"time"

	"HotspotVision/cliente/internal/client"
	"HotspotVision/cliente/internal/notify"
	"HotspotVision/shared/hotspot"
	"HotspotVision/shared/proto/hsnet"
)

// fetchTimeout limita cada tentativa de uma fonte antes de passar à próxima.
const fetchTimeout = 5 * time.Second

// chainSource tenta cada fonte na ordem e devolve a primeira resposta.
type chainSource []hotspot.DataSource

func (c chainSource) Fetch(ctx context.Context, path string) (string, error) {
	var errs []error
	for _, src := range c {
		attempt, cancel := context.WithTimeout(ctx, fetchTimeout)
		text, err := src.Fetch(attempt, path)
		cancel()
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", errors.New("nenhuma fonte de timeline configurada")
	}
	return "", errors.Join(errs...)
}

// timelineSource monta a cadeia servidor → diretório local.
func (a *App) timelineSource() hotspot.DataSource {
	var chain chainSource
	if a.netClient != nil && a.netClient.IsConnected() {
		chain = append(chain, a.netClient)
	}
	if a.Config.TimelineDir != "" {
		chain = append(chain, hotspot.FileSource{Dir: a.Config.TimelineDir})
	}
	return chain
}

// connectServer tenta conectar ao Servidor HotspotVision. Sem servidor o
// cliente segue com as timelines locais.
func (a *App) connectServer() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em connectServer: %v", r)
		}
	}()

	if a.Config.ServerURL == "" {
		return
	}

	nc := client.NewNetworkClient(a.Config.ServerURL)
	nc.Retries = 3
	nc.RetryDelay = 500 * time.Millisecond
	nc.OnStatus = func(status *hsnet.ServerStatus) {
		a.statusMu.Lock()
		a.serverStatus = status
		a.statusMu.Unlock()
	}

	if err := nc.Connect(); err != nil {
		log.Printf("[App] Servidor indisponível, usando %s: %v", a.Config.TimelineDir, err)
		return
	}
	log.Printf("[App] Conectado ao servidor %s", a.Config.ServerURL)
	a.netClient = nc
}

// connectBroker abre o publicador MQTT quando configurado.
func (a *App) connectBroker() {
	if a.Config.MQTT.URL == "" {
		return
	}
	a.publisher = notify.NewPublisher(a.Config.MQTT)
	if err := a.publisher.Connect(2 * time.Second); err != nil {
		log.Printf("[App] %v", err)
	}
}

// status retorna o último ServerStatus recebido, ou nil.
func (a *App) status() *hsnet.ServerStatus {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.serverStatus
}
