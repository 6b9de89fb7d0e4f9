package util

import (
	"reflect"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

func TestVectorConversions(t *testing.T) {
	v := mgl64.Vec3{1.5, -2, 0.25}
	r := ToRL(v)
	if r != (rl.Vector3{X: 1.5, Y: -2, Z: 0.25}) {
		t.Errorf("ToRL = %v", r)
	}
	if back := FromRL(r); back != v {
		t.Errorf("FromRL = %v", back)
	}
	if got := RLFrom32(Vec32(r)); got != r {
		t.Errorf("mgl32 ida e volta = %v", got)
	}
	if s := FormatVec(v); s != "(1.50, -2.00, 0.25)" {
		t.Errorf("FormatVec = %q", s)
	}
}

func TestClampAndLerp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 || Clamp(-1, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp incorreto")
	}
	if Lerp(0, 10, 0.25) != 2.5 {
		t.Error("Lerp incorreto")
	}
	if DistSq(rl.Vector3{}, rl.Vector3{X: 3, Y: 4}) != 25 {
		t.Error("DistSq incorreto")
	}
}

func TestUniqueQueueUpdatesInPlace(t *testing.T) {
	q := NewUniqueQueue[string, int]()
	if !q.Enqueue("a.txt", 1) || !q.Enqueue("b.txt", 2) {
		t.Fatal("chaves novas deveriam ser adicionadas")
	}
	if q.Enqueue("a.txt", 3) {
		t.Error("chave repetida deveria apenas atualizar")
	}
	if q.Len() != 2 {
		t.Errorf("Len = %d", q.Len())
	}

	k, v, ok := q.Dequeue()
	if !ok || k != "a.txt" || v != 3 {
		t.Errorf("Dequeue = %q %d %v", k, v, ok)
	}
	if !q.Enqueue("a.txt", 4) {
		t.Error("a.txt deveria ter saído da fila")
	}
	k, _, _ = q.Dequeue()
	if k != "b.txt" {
		t.Errorf("ordem perdida: %q", k)
	}
	q.Dequeue()
	if _, _, ok := q.Dequeue(); ok {
		t.Error("fila deveria estar vazia")
	}
}

func TestBoundedQueueDropsOldest(t *testing.T) {
	tests := []struct {
		limit   int
		push    int
		want    []int
		dropped int
	}{
		{3, 2, []int{0, 1}, 0},
		{3, 3, []int{0, 1, 2}, 0},
		{3, 5, []int{2, 3, 4}, 2},
		{0, 2, []int{1}, 1},
	}

	for _, tt := range tests {
		q := NewBoundedQueue[int](tt.limit)
		dropped := 0
		for i := 0; i < tt.push; i++ {
			if q.Push(i) {
				dropped++
			}
		}
		if dropped != tt.dropped {
			t.Errorf("limit=%d push=%d: descartados %d, esperado %d", tt.limit, tt.push, dropped, tt.dropped)
		}
		if got := q.Drain(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("limit=%d push=%d: Drain = %v, esperado %v", tt.limit, tt.push, got, tt.want)
		}
		if q.Len() != 0 {
			t.Errorf("limit=%d: fila deveria estar vazia após Drain", tt.limit)
		}
	}
}

func TestRingKeepsLastItems(t *testing.T) {
	tests := []struct {
		capacity int
		push     int
		want     []int
	}{
		{3, 0, []int{}},
		{3, 2, []int{0, 1}},
		{3, 3, []int{0, 1, 2}},
		{3, 7, []int{4, 5, 6}},
		{6, 9, []int{3, 4, 5, 6, 7, 8}},
		{0, 2, []int{1}},
	}

	for _, tt := range tests {
		r := NewRing[int](tt.capacity)
		for i := 0; i < tt.push; i++ {
			r.Push(i)
		}
		if got := r.Items(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("cap=%d push=%d: Items = %v, esperado %v", tt.capacity, tt.push, got, tt.want)
		}
		if r.Total() != uint64(tt.push) {
			t.Errorf("cap=%d push=%d: Total = %d", tt.capacity, tt.push, r.Total())
		}
	}
}
