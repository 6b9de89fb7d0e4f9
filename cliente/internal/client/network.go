package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"HotspotVision/shared/proto/hsnet"
)

// ErrNotConnected indica operação sem conexão ativa com o servidor.
var ErrNotConnected = errors.New("cliente não conectado ao servidor")

// NetworkClient lida com a comunicação com o Servidor HotspotVision.
// Implementa hotspot.DataSource buscando timelines pelo websocket.
type NetworkClient struct {
	conn      *websocket.Conn
	url       string
	connected bool
	mu        sync.RWMutex
	writeMu   sync.Mutex

	Retries    int
	RetryDelay time.Duration

	nextID  atomic.Uint64
	pendMu  sync.Mutex
	pending map[uint64]chan *hsnet.TimelineResponse

	// Callbacks para o App
	OnStatus func(status *hsnet.ServerStatus)
}

func NewNetworkClient(url string) *NetworkClient {
	return &NetworkClient{
		url:        url,
		Retries:    10,
		RetryDelay: 2 * time.Second,
		pending:    make(map[uint64]chan *hsnet.TimelineResponse),
	}
}

func (c *NetworkClient) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var conn *websocket.Conn
	var err error
	for i := 0; i < c.Retries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, c.Retries, c.url)
		conn, _, err = dialer.Dial(c.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)
		time.Sleep(c.RetryDelay)
	}

	if conn == nil {
		if err == nil {
			err = ErrNotConnected
		}
		log.Printf("[Network] ERRO após %d tentativas: %v", c.Retries, err)
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

func (c *NetworkClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close encerra a conexão; buscas pendentes falham.
func (c *NetworkClient) Close() {
	c.mu.Lock()
	conn := c.conn
	c.connected = false
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// Send serializa msg em um Envelope e envia como frame binário.
func (c *NetworkClient) Send(msgType hsnet.MessageType, msg hsnet.Message) error {
	c.mu.RLock()
	conn, ok := c.conn, c.connected
	c.mu.RUnlock()
	if !ok {
		return ErrNotConnected
	}

	data := hsnet.NewEnvelope(msgType, msg).Marshal()

	c.writeMu.Lock()
	err := conn.WriteMessage(websocket.BinaryMessage, data)
	c.writeMu.Unlock()

	if err != nil {
		log.Printf("[Network] Erro ao enviar mensagem: %v", err)
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}
	return err
}

// Fetch pede a timeline em path ao servidor e espera a resposta ou o
// cancelamento de ctx.
func (c *NetworkClient) Fetch(ctx context.Context, path string) (string, error) {
	id := c.nextID.Add(1)
	ch := make(chan *hsnet.TimelineResponse, 1)

	c.pendMu.Lock()
	c.pending[id] = ch
	c.pendMu.Unlock()
	defer func() {
		c.pendMu.Lock()
		delete(c.pending, id)
		c.pendMu.Unlock()
	}()

	if err := c.Send(hsnet.MsgTimelineRequest, &hsnet.TimelineRequest{RequestID: id, Path: path}); err != nil {
		return "", fmt.Errorf("pedido da timeline %s: %w", path, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return "", fmt.Errorf("timeline %s: %w", path, ErrNotConnected)
		}
		if !resp.Found {
			return "", fmt.Errorf("timeline %s: %s", path, resp.Error)
		}
		return resp.Timeline().Format(), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// SendEvent relata um evento de hotspot ao servidor.
func (c *NetworkClient) SendEvent(ev *hsnet.HotspotEvent) error {
	return c.Send(hsnet.MsgHotspotEvent, ev)
}

func (c *NetworkClient) readLoop(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		conn.Close()

		c.pendMu.Lock()
		for id, ch := range c.pending {
			close(ch)
			delete(c.pending, id)
		}
		c.pendMu.Unlock()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			break
		}

		var env hsnet.Envelope
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[Network] Erro ao desempacotar envelope: %v", err)
			continue
		}

		c.handleMessage(&env)
	}
}

func (c *NetworkClient) handleMessage(env *hsnet.Envelope) {
	switch env.Type {
	case hsnet.MsgServerStatus:
		var status hsnet.ServerStatus
		if err := env.Decode(&status); err == nil && c.OnStatus != nil {
			c.OnStatus(&status)
		}
	case hsnet.MsgTimelineResponse:
		var resp hsnet.TimelineResponse
		if err := env.Decode(&resp); err != nil {
			log.Printf("[Network] %v", err)
			return
		}
		c.pendMu.Lock()
		ch, ok := c.pending[resp.RequestID]
		if ok {
			delete(c.pending, resp.RequestID)
		}
		c.pendMu.Unlock()
		if ok {
			ch <- &resp
		} else {
			log.Printf("[Network] Resposta sem pedido pendente: %s (#%d)", resp.Path, resp.RequestID)
		}
	case hsnet.MsgPong:
		// Ping/Pong handled
	}
}
