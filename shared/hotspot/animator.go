package hotspot

import "github.com/go-gl/mathgl/mgl64"

// StepFraction é a fração do deslocamento entre dois instantes somada à
// posição a cada tick do driver (pensado para ticks de ~50ms).
const StepFraction = 0.05

// Repaint avança a animação do hotspot para o tempo atual do vídeo e retorna
// a posição e a visibilidade resultantes do objeto.
//
// Sem timeline (ainda não carregada ou vazia) não faz nada. Ao alcançar um
// instante visível o objeto vai exatamente para a posição dele e o cursor
// avança; o último instante é "grudento". Um instante oculto esconde o
// objeto e só é deixado para trás quando o tempo alcança o instante seguinte.
// Entre dois instantes visíveis a posição deriva um passo fixo por tick.
func (h *Hotspot) Repaint(currentTime float64) (mgl64.Vec3, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	last := len(h.timeline) - 1
	if last < 0 {
		return h.Object.Position(), h.Object.Visible()
	}
	if h.nextPos > last {
		h.nextPos = last
	}

	for {
		inst := h.timeline[h.nextPos]

		if currentTime < inst.Time {
			h.drift(inst)
			break
		}

		if inst.Visible() {
			h.Object.SetPosition(inst.Position)
			h.Object.SetVisible(true)
			if h.nextPos < last {
				h.nextPos++
			}
			break
		}

		h.Object.SetVisible(false)
		if h.nextPos == last || currentTime < h.timeline[h.nextPos+1].Time {
			break
		}
		h.nextPos++
	}

	return h.Object.Position(), h.Object.Visible()
}

// drift aplica um passo de interpolação em direção ao próximo instante.
// Deve ser chamado com h.mu travado.
func (h *Hotspot) drift(next Instant) {
	if h.nextPos == 0 || !next.Visible() {
		return
	}

	prev := h.timeline[h.nextPos-1]
	if !prev.Visible() {
		return
	}

	duration := next.Time - prev.Time
	if duration <= 0 {
		return
	}

	step := next.Position.Sub(prev.Position).Mul(StepFraction / duration)
	h.Object.SetPosition(h.Object.Position().Add(step))
}
