// Package notify publica os eventos de hotspot em um broker MQTT.
package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"HotspotVision/shared/config"
	"HotspotVision/shared/util"
)

// MaxPending é o número máximo de eventos guardados sem conexão.
const MaxPending = 256

// Event é o payload JSON publicado para cada evento de hotspot.
type Event struct {
	Key       string    `json:"key"`
	Event     string    `json:"event"`
	VideoTime float64   `json:"video_time"`
	At        time.Time `json:"at"`
}

// Publisher envia eventos ao broker; sem conexão eles ficam em fila e são
// enviados na reconexão.
type Publisher struct {
	client mqtt.Client
	topic  string
	outbox *util.BoundedQueue[[]byte]
}

func init() {
	mqtt.ERROR = log.New(os.Stdout, "[MQTT] ", log.Ltime)
}

// NewPublisher configura o cliente paho a partir da configuração.
func NewPublisher(cfg config.MQTTConfig) *Publisher {
	p := &Publisher{
		topic:  cfg.Topic,
		outbox: util.NewBoundedQueue[[]byte](MaxPending),
	}

	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Printf("[Notify] Conectado ao broker %s", cfg.URL)
			p.Flush()
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("[Notify] Conexão com o broker perdida: %v", err)
		})

	p.client = mqtt.NewClient(options)
	return p
}

// Connect inicia a conexão sem bloquear além de timeout.
func (p *Publisher) Connect(timeout time.Duration) error {
	token := p.client.Connect()
	if !token.WaitTimeout(timeout) {
		log.Printf("[Notify] Broker ainda não respondeu; eventos ficarão em fila")
		return nil
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	return nil
}

// Publish envia o evento ou o guarda para depois.
func (p *Publisher) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Notify] Erro ao serializar evento: %v", err)
		return
	}

	if !p.client.IsConnected() {
		p.enqueue(payload)
		return
	}
	p.client.Publish(p.topic, 0, false, payload)
}

func (p *Publisher) enqueue(payload []byte) {
	if p.outbox.Push(payload) {
		log.Printf("[Notify] Fila cheia (%d); evento mais antigo descartado", MaxPending)
	}
}

// Flush envia os eventos pendentes, na ordem.
func (p *Publisher) Flush() {
	for _, payload := range p.outbox.Drain() {
		p.client.Publish(p.topic, 0, false, payload)
	}
}

// Pending retorna quantos eventos aguardam conexão.
func (p *Publisher) Pending() int {
	return p.outbox.Len()
}

// Close desconecta do broker.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
