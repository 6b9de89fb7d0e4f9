package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"HotspotVision/shared/proto/hsnet"
	"HotspotVision/shared/store"
)

// Version é a versão anunciada no ServerStatus.
const Version = "0.1.0"

// lookupTimeout limita a consulta ao banco de um TimelineRequest.
const lookupTimeout = 3 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server responde pedidos de timeline e registra eventos de hotspot.
type Server struct {
	hub     *Hub
	store   *store.Store
	started time.Time
}

func newServer(hub *Hub, st *store.Store) *Server {
	return &Server{hub: hub, store: st, started: time.Now()}
}

// serveWs maneja requisições websocket do peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Erro no upgrade do WebSocket: %v", err)
		return
	}
	s.hub.Register(conn)
	s.hub.SendMessage(conn, hsnet.MsgServerStatus, s.status())

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[WS] Recuperado de pânico: %v", r)
			}
			s.hub.Unregister(conn)
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("[WS] Erro ao ler mensagem: %v", err)
				}
				return
			}

			var env hsnet.Envelope
			if err := env.Unmarshal(message); err != nil {
				log.Printf("[WS] Erro ao desempacotar envelope: %v", err)
				continue
			}
			s.handleClientMessage(conn, &env)
		}
	}()
}

func (s *Server) handleClientMessage(conn *websocket.Conn, env *hsnet.Envelope) {
	switch env.Type {
	case hsnet.MsgPing:
		s.hub.SendMessage(conn, hsnet.MsgPong, nil)
	case hsnet.MsgTimelineRequest:
		var req hsnet.TimelineRequest
		if err := env.Decode(&req); err != nil {
			log.Printf("[WS] %v", err)
			return
		}
		s.hub.SendMessage(conn, hsnet.MsgTimelineResponse, s.lookup(&req))
	case hsnet.MsgHotspotEvent:
		var ev hsnet.HotspotEvent
		if err := env.Decode(&ev); err != nil {
			log.Printf("[WS] %v", err)
			return
		}
		model := &store.EventModel{
			Key:       ev.Key,
			Event:     ev.Event,
			VideoTime: ev.VideoTime,
			Client:    conn.RemoteAddr().String(),
			CreatedAt: time.UnixMilli(ev.UnixMillis),
		}
		if err := s.store.SaveEvent(model); err != nil {
			log.Printf("[WS] Erro ao gravar evento %s/%s: %v", ev.Key, ev.Event, err)
		}
	default:
		log.Printf("[WS] Mensagem ignorada: %v", env.Type)
	}
}

// lookup monta a resposta de um TimelineRequest.
func (s *Server) lookup(req *hsnet.TimelineRequest) *hsnet.TimelineResponse {
	resp := &hsnet.TimelineResponse{RequestID: req.RequestID, Path: req.Path}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	tl, err := s.store.Timeline(ctx, req.Path)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[WS] Erro ao buscar timeline %s: %v", req.Path, err)
		}
		resp.Error = err.Error()
		return resp
	}

	resp.Found = true
	resp.Instants = hsnet.InstantsFromTimeline(tl)
	return resp
}

// status coleta o estado atual do servidor e da máquina.
func (s *Server) status() *hsnet.ServerStatus {
	st := &hsnet.ServerStatus{
		Clients:   int32(s.hub.Count()),
		UptimeSec: int64(time.Since(s.started).Seconds()),
		Version:   Version,
	}

	timelines, events, err := s.store.Counts()
	if err != nil {
		log.Printf("[Status] Erro ao contar registros: %v", err)
	}
	st.Timelines = int32(timelines)
	st.Events = events

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		st.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		st.MemUsedMB = float64(vm.Used) / (1024 * 1024)
	}
	return st
}

// broadcastStatus envia o ServerStatus a todos os clientes periodicamente.
func (s *Server) broadcastStatus(ctx context.Context, every time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Status] Recuperado de pânico: %v", r)
		}
	}()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.hub.Count() > 0 {
				s.hub.Broadcast(hsnet.MsgServerStatus, s.status())
			}
		}
	}
}
