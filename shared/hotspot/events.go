package hotspot

import (
	"errors"
	"fmt"
)

// Event é o nome de um evento de ponteiro.
type Event string

const (
	EventClick     Event = "click"
	EventDblClick  Event = "dblclick"
	EventMouseDown Event = "mousedown"
	EventMouseUp   Event = "mouseup"
	EventMouseOver Event = "mouseover"
	EventMouseOut  Event = "mouseout"
)

// ErrUnknownEvent indica um nome de evento fora da lista suportada.
var ErrUnknownEvent = errors.New("evento desconhecido")

// Events retorna todos os eventos suportados.
func Events() []Event {
	return []Event{EventClick, EventDblClick, EventMouseDown, EventMouseUp, EventMouseOver, EventMouseOut}
}

// Valid informa se o evento é suportado.
func (e Event) Valid() bool {
	for _, known := range Events() {
		if e == known {
			return true
		}
	}
	return false
}

// ParseEvent converte um nome em Event.
func ParseEvent(name string) (Event, error) {
	e := Event(name)
	if !e.Valid() {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownEvent)
	}
	return e, nil
}

// Callback recebe a chave do hotspot e o evento disparado.
type Callback func(key string, event Event)

// Pointer é a camada de eventos de ponteiro (hit-testing fica com ela).
type Pointer interface {
	AddEventListener(obj Renderable, event Event, fn func())
}

// Guard embrulha fn para que só execute enquanto obj estiver visível.
// A visibilidade é lida no momento do disparo.
func Guard(obj Renderable, fn func()) func() {
	return func() {
		if obj.Visible() {
			fn()
		}
	}
}
