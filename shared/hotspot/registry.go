package hotspot

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDuplicateKey indica inserção com uma chave já usada no registro.
	ErrDuplicateKey = errors.New("chave já registrada")
	// ErrUnknownKey indica referência a uma chave inexistente.
	ErrUnknownKey = errors.New("chave desconhecida")
)

// Registry é um mapa chave -> valor que nunca sobrescreve entradas.
// Mantém a ordem de inserção para iteração determinística.
type Registry[V any] struct {
	mu    sync.RWMutex
	kind  string
	items map[string]V
	order []string
}

// NewRegistry cria um registro vazio. kind aparece nas mensagens de erro.
func NewRegistry[V any](kind string) *Registry[V] {
	return &Registry[V]{
		kind:  kind,
		items: make(map[string]V),
	}
}

// Add insere um valor. Falha com ErrDuplicateKey se a chave já existir,
// deixando a entrada original intacta.
func (r *Registry[V]) Add(key string, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%s %q: %w", r.kind, key, ErrDuplicateKey)
	}
	r.items[key] = value
	r.order = append(r.order, key)
	return nil
}

// Get retorna o valor da chave ou ErrUnknownKey.
func (r *Registry[V]) Get(key string) (V, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%s %q: %w", r.kind, key, ErrUnknownKey)
	}
	return v, nil
}

// Has verifica se a chave existe.
func (r *Registry[V]) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[key]
	return ok
}

// Keys retorna as chaves na ordem de inserção.
func (r *Registry[V]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len retorna o número de entradas.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
