// Package media usa uma trilha de áudio do raylib como relógio de mídia.
package media

import (
	"fmt"
	"log"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// endSlack é a folga, em segundos, para considerar a trilha no fim.
const endSlack = 0.05

// Soundtrack implementa playback.Video. As chamadas ao raylib acontecem
// apenas em Update (thread principal); CurrentTime e Restart podem vir da
// goroutine do driver.
type Soundtrack struct {
	Path string

	music  rl.Music
	length float32

	mu       sync.Mutex
	played   float32
	playing  bool
	paused   bool
	finished bool
	restart  bool
	ended    func()
}

// Load abre a trilha. O loop nativo fica desligado: quem repete é o driver.
func Load(path string) (*Soundtrack, error) {
	music := rl.LoadMusicStream(path)
	if music.FrameCount == 0 {
		return nil, fmt.Errorf("falha ao abrir trilha %s", path)
	}
	music.Looping = false

	s := &Soundtrack{
		Path:   path,
		music:  music,
		length: rl.GetMusicTimeLength(music),
	}
	log.Printf("[Media] Trilha carregada: %s (%.1fs)", path, s.length)
	return s, nil
}

// Length retorna a duração em segundos.
func (s *Soundtrack) Length() float64 {
	return float64(s.length)
}

// CurrentTime retorna a posição lida no último Update.
func (s *Soundtrack) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.played)
}

// Restart agenda o reinício do stream para o próximo Update. A posição
// já volta a zero aqui, para o driver não ler o fim do ciclo anterior.
func (s *Soundtrack) Restart() {
	s.mu.Lock()
	s.restart = true
	s.played = 0
	s.mu.Unlock()
}

// OnEnded registra a função chamada quando a trilha termina.
func (s *Soundtrack) OnEnded(fn func()) {
	s.mu.Lock()
	s.ended = fn
	s.mu.Unlock()
}

// Play inicia ou retoma a trilha.
func (s *Soundtrack) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.paused:
		rl.ResumeMusicStream(s.music)
	case !s.playing:
		rl.PlayMusicStream(s.music)
	}
	s.playing, s.paused, s.finished = true, false, false
}

// Pause congela a trilha.
func (s *Soundtrack) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing && !s.paused {
		rl.PauseMusicStream(s.music)
		s.paused = true
	}
}

// Playing informa se a trilha está tocando (não pausada).
func (s *Soundtrack) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing && !s.paused
}

// Update alimenta o stream de áudio e detecta o fim. Chamar a cada frame.
func (s *Soundtrack) Update() {
	s.mu.Lock()
	if s.restart {
		s.restart = false
		rl.StopMusicStream(s.music)
		rl.PlayMusicStream(s.music)
		s.playing, s.paused, s.finished = true, false, false
		s.played = 0
	}

	var fire func()
	if s.playing && !s.paused {
		rl.UpdateMusicStream(s.music)
		s.played = rl.GetMusicTimePlayed(s.music)
		streaming := rl.IsMusicStreamPlaying(s.music)
		if !s.finished && reachedEnd(s.played, s.length, streaming) {
			s.finished = true
			s.playing = false
			s.played = s.length
			fire = s.ended
		}
	}
	s.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// Unload libera o stream.
func (s *Soundtrack) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	rl.StopMusicStream(s.music)
	rl.UnloadMusicStream(s.music)
	s.playing = false
}

// reachedEnd decide se a reprodução terminou: o stream parou sozinho ou a
// posição chegou ao fim.
func reachedEnd(played, length float32, streaming bool) bool {
	if !streaming {
		return true
	}
	return length > 0 && played >= length-endSlack
}
