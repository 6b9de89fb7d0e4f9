package main

import (
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"HotspotVision/shared/proto/hsnet"
)

// Hub gerencia as conexões WebSocket ativas
type Hub struct {
	clients    map[*websocket.Conn]*sync.Mutex
	broadcast  chan []byte
	unregister chan *websocket.Conn
	quit       chan struct{}
	mu         sync.Mutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*sync.Mutex),
		broadcast:  make(chan []byte, 256),
		unregister: make(chan *websocket.Conn),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Recuperado de pânico fatal: %v", r)
		}
	}()

	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for c := range h.clients {
				c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case client := <-h.unregister:
			h.mu.Lock()
			if lock, ok := h.clients[client]; ok {
				lock.Lock()
				delete(h.clients, client)
				client.Close()
				lock.Unlock()
				log.Printf("[Hub] Cliente desregistrado: %s", client.RemoteAddr())
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			type clientEntry struct {
				conn *websocket.Conn
				lock *sync.Mutex
			}
			targets := make([]clientEntry, 0, len(h.clients))
			for c, l := range h.clients {
				targets = append(targets, clientEntry{c, l})
			}
			h.mu.Unlock()

			for _, target := range targets {
				target.lock.Lock()
				err := target.conn.WriteMessage(websocket.BinaryMessage, message)
				target.lock.Unlock()
				if err != nil {
					log.Printf("[Hub] Erro ao enviar para cliente %s: %v", target.conn.RemoteAddr(), err)
					target.conn.Close()
					h.mu.Lock()
					delete(h.clients, target.conn)
					h.mu.Unlock()
				}
			}
		}
	}
}

// Register adiciona a conexão. Síncrono para que a primeira mensagem ao
// cliente já o encontre no hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
	log.Printf("[Hub] Cliente registrado: %s", conn.RemoteAddr())
}

// Unregister remove a conexão e a fecha.
func (h *Hub) Unregister(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.quit:
	}
}

// Stop encerra o loop e fecha todas as conexões.
func (h *Hub) Stop() {
	close(h.quit)
}

// Count retorna o número de clientes conectados.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// WriteSafe garante que apenas uma goroutine escreva no WebSocket por vez
func (h *Hub) WriteSafe(conn *websocket.Conn, messageType int, data []byte) error {
	h.mu.Lock()
	lock, ok := h.clients[conn]
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("cliente não encontrado no hub")
	}

	lock.Lock()
	defer lock.Unlock()
	return conn.WriteMessage(messageType, data)
}

// SendMessage envia uma mensagem a um único cliente.
func (h *Hub) SendMessage(conn *websocket.Conn, msgType hsnet.MessageType, msg hsnet.Message) {
	data := hsnet.NewEnvelope(msgType, msg).Marshal()
	if err := h.WriteSafe(conn, websocket.BinaryMessage, data); err != nil {
		log.Printf("[Hub] Erro ao enviar %v: %v", msgType, err)
	}
}

// Broadcast envia uma mensagem a todos os clientes. Descarta se o buffer
// estiver cheio em vez de bloquear quem chama.
func (h *Hub) Broadcast(msgType hsnet.MessageType, msg hsnet.Message) {
	data := hsnet.NewEnvelope(msgType, msg).Marshal()
	select {
	case h.broadcast <- data:
	default:
		log.Printf("[Hub] Buffer de broadcast cheio, %v descartado", msgType)
	}
}
