package notify

import (
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"HotspotVision/shared/util"
)

type doneToken struct{}

func (doneToken) Wait() bool { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (doneToken) Error() error { return nil }

type fakeClient struct {
	mqtt.Client
	connected bool
	topics    []string
	payloads  [][]byte
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topics = append(c.topics, topic)
	c.payloads = append(c.payloads, payload.([]byte))
	return doneToken{}
}

func newTestPublisher(c *fakeClient) *Publisher {
	return &Publisher{client: c, topic: "hv/events", outbox: util.NewBoundedQueue[[]byte](MaxPending)}
}

func TestPublishWhenConnected(t *testing.T) {
	c := &fakeClient{connected: true}
	p := newTestPublisher(c)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p.Publish(Event{Key: "door", Event: "click", VideoTime: 1.5, At: at})

	if len(c.payloads) != 1 || c.topics[0] != "hv/events" {
		t.Fatalf("publicações = %v", c.topics)
	}
	var got Event
	if err := json.Unmarshal(c.payloads[0], &got); err != nil {
		t.Fatal(err)
	}
	if got.Key != "door" || got.Event != "click" || got.VideoTime != 1.5 || !got.At.Equal(at) {
		t.Errorf("evento = %+v", got)
	}
}

func TestQueueWhileDisconnected(t *testing.T) {
	c := &fakeClient{}
	p := newTestPublisher(c)

	for i := 0; i < MaxPending+10; i++ {
		p.Publish(Event{Key: "k", Event: "click", VideoTime: float64(i)})
	}
	if len(c.payloads) != 0 {
		t.Fatal("nada deveria ser publicado sem conexão")
	}
	if p.Pending() != MaxPending {
		t.Errorf("Pending = %d, esperado %d", p.Pending(), MaxPending)
	}

	c.connected = true
	p.Flush()
	if len(c.payloads) != MaxPending || p.Pending() != 0 {
		t.Fatalf("flush publicou %d, pendentes %d", len(c.payloads), p.Pending())
	}

	var first Event
	_ = json.Unmarshal(c.payloads[0], &first)
	if first.VideoTime != 10 {
		t.Errorf("os eventos mais antigos deveriam ser descartados; primeiro = %v", first.VideoTime)
	}
}
