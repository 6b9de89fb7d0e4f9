package util

import "sync"

// UniqueQueue é uma fila FIFO thread-safe com uma entrada por chave.
// Reenfileirar uma chave pendente só troca o valor, sem mudar a posição.
type UniqueQueue[K comparable, V any] struct {
	mu     sync.Mutex
	order  []K
	values map[K]V
}

// NewUniqueQueue cria uma fila vazia.
func NewUniqueQueue[K comparable, V any]() *UniqueQueue[K, V] {
	return &UniqueQueue[K, V]{values: make(map[K]V)}
}

// Enqueue guarda value sob key. Retorna false se key já estava pendente.
func (q *UniqueQueue[K, V]) Enqueue(key K, value V) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, pending := q.values[key]
	q.values[key] = value
	if !pending {
		q.order = append(q.order, key)
	}
	return !pending
}

// Dequeue remove a chave mais antiga. ok é false com a fila vazia.
func (q *UniqueQueue[K, V]) Dequeue() (key K, value V, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.order) == 0 {
		return key, value, false
	}
	key = q.order[0]
	q.order = q.order[1:]
	value = q.values[key]
	delete(q.values, key)
	return key, value, true
}

// Len retorna quantas chaves estão pendentes.
func (q *UniqueQueue[K, V]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// BoundedQueue é uma fila thread-safe de capacidade fixa: cheia, descarta
// o item mais antigo para aceitar o novo.
type BoundedQueue[T any] struct {
	mu    sync.Mutex
	items []T
	limit int
}

// NewBoundedQueue cria uma fila com até limit itens (mínimo 1).
func NewBoundedQueue[T any](limit int) *BoundedQueue[T] {
	if limit < 1 {
		limit = 1
	}
	return &BoundedQueue[T]{limit: limit}
}

// Push adiciona item ao fim. Retorna true se o mais antigo foi descartado.
func (q *BoundedQueue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := len(q.items) >= q.limit
	if dropped {
		q.items = q.items[1:]
	}
	q.items = append(q.items, item)
	return dropped
}

// Drain esvazia a fila e retorna os itens em ordem de chegada.
func (q *BoundedQueue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
