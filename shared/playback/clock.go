package playback

import (
	"sync"
	"time"
)

// Clock é um Video de relógio de parede com duração fixa. Usado quando não
// há trilha de áudio e nos testes do driver.
type Clock struct {
	mu      sync.Mutex
	length  time.Duration
	start   time.Time
	offset  time.Duration // tempo acumulado enquanto pausado
	playing bool
	timer   *time.Timer
	gen     uint64
	ended   func()
}

// NewClock cria um relógio pausado na posição zero.
func NewClock(length time.Duration) *Clock {
	return &Clock{length: length}
}

// Play inicia ou retoma a contagem.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return
	}
	c.playing = true
	c.start = time.Now()
	c.arm()
}

// Pause congela a posição atual.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.offset = c.elapsed()
	c.playing = false
	c.disarm()
}

// Playing informa se o relógio está contando.
func (c *Clock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// CurrentTime retorna a posição em segundos, limitada à duração.
func (c *Clock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed().Seconds()
}

// Length retorna a duração total.
func (c *Clock) Length() time.Duration {
	return c.length
}

// Restart volta ao zero e começa a tocar.
func (c *Clock) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disarm()
	c.offset = 0
	c.start = time.Now()
	c.playing = true
	c.arm()
}

// OnEnded registra a função chamada quando a posição alcança a duração.
// Ela roda em uma goroutine própria.
func (c *Clock) OnEnded(fn func()) {
	c.mu.Lock()
	c.ended = fn
	c.mu.Unlock()
}

// Close pausa o relógio e descarta o timer pendente.
func (c *Clock) Close() {
	c.Pause()
}

func (c *Clock) elapsed() time.Duration {
	e := c.offset
	if c.playing {
		e += time.Since(c.start)
	}
	if e > c.length {
		e = c.length
	}
	return e
}

func (c *Clock) arm() {
	c.gen++
	gen := c.gen
	remaining := c.length - c.offset
	if remaining < 0 {
		remaining = 0
	}
	c.timer = time.AfterFunc(remaining, func() {
		c.mu.Lock()
		if gen != c.gen || !c.playing {
			c.mu.Unlock()
			return
		}
		c.offset = c.length
		c.playing = false
		fn := c.ended
		c.mu.Unlock()

		if fn != nil {
			fn()
		}
	})
}

func (c *Clock) disarm() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
