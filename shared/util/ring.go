package util

// Ring guarda os últimos N itens; ao encher, Push sobrescreve o mais antigo.
// Não é thread-safe.
type Ring[T any] struct {
	entries []T
	mask    uint64
	limit   uint64
	next    uint64
}

// NewRing cria um anel que mantém até capacity itens. O armazenamento é
// arredondado para potência de 2, mas só capacity itens ficam visíveis.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	size := nextPowerOfTwo(capacity)
	return &Ring[T]{
		entries: make([]T, size),
		mask:    uint64(size - 1),
		limit:   uint64(capacity),
	}
}

// Push adiciona um item.
func (r *Ring[T]) Push(item T) {
	r.entries[r.next&r.mask] = item
	r.next++
}

// Len retorna quantos itens estão visíveis.
func (r *Ring[T]) Len() int {
	return int(min(r.next, r.limit))
}

// Total retorna quantos itens já passaram pelo anel.
func (r *Ring[T]) Total() uint64 {
	return r.next
}

// Items retorna uma cópia dos itens, do mais antigo ao mais novo.
func (r *Ring[T]) Items() []T {
	n := uint64(r.Len())
	out := make([]T, 0, n)
	for i := r.next - n; i < r.next; i++ {
		out = append(out, r.entries[i&r.mask])
	}
	return out
}

func nextPowerOfTwo(x int) int {
	res := 1
	for res < x {
		res <<= 1
	}
	return res
}
