// Package hsnet define as mensagens trocadas entre cliente e servidor do
// HotspotVision. Cada frame websocket binário carrega um Envelope.
package hsnet

import (
	"fmt"

	"HotspotVision/shared/pkg/protowire"
)

// MessageType identifica o payload de um Envelope.
type MessageType int32

const (
	MsgUnknown MessageType = iota
	MsgPing
	MsgPong
	MsgTimelineRequest
	MsgTimelineResponse
	MsgHotspotEvent
	MsgServerStatus
)

var typeNames = map[MessageType]string{
	MsgUnknown:          "UNKNOWN",
	MsgPing:             "PING",
	MsgPong:             "PONG",
	MsgTimelineRequest:  "TIMELINE_REQUEST",
	MsgTimelineResponse: "TIMELINE_RESPONSE",
	MsgHotspotEvent:     "HOTSPOT_EVENT",
	MsgServerStatus:     "SERVER_STATUS",
}

func (t MessageType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MessageType(%d)", int32(t))
}

// Message é qualquer payload serializável do protocolo.
type Message interface {
	Marshal() []byte
	Unmarshal(data []byte) error
}

// Envelope embrulha um payload com seu tipo.
type Envelope struct {
	Type    MessageType
	Payload []byte
}

// NewEnvelope serializa msg (que pode ser nil) sob o tipo dado.
func NewEnvelope(t MessageType, msg Message) *Envelope {
	env := &Envelope{Type: t}
	if msg != nil {
		env.Payload = msg.Marshal()
	}
	return env
}

func (m *Envelope) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.Type))
	e.EncodeBytes(2, m.Payload)
	return e.Bytes()
}

func (m *Envelope) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Type = MessageType(v)
		case 2:
			v, err := d.ReadBytes()
			if err != nil {
				return err
			}
			m.Payload = append([]byte(nil), v...)
		default:
			if err := d.SkipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decode interpreta o payload em msg.
func (m *Envelope) Decode(msg Message) error {
	if err := msg.Unmarshal(m.Payload); err != nil {
		return fmt.Errorf("payload %v: %w", m.Type, err)
	}
	return nil
}
