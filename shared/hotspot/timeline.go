package hotspot

import (
	"bufio"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// FieldSeparator separa os campos de uma linha da timeline (time#x#y#z).
const FieldSeparator = "#"

// Instant é uma linha da timeline: o tempo do vídeo (segundos) e a posição do
// hotspot nesse momento. Uma posição com qualquer eixo NaN indica que o
// hotspot fica oculto a partir deste instante.
type Instant struct {
	Time     float64
	Position mgl64.Vec3
}

// Visible informa se o instante carrega uma posição válida.
func (i Instant) Visible() bool {
	return ValidPosition(i.Position)
}

// HiddenPosition retorna a posição sentinela "oculto".
func HiddenPosition() mgl64.Vec3 {
	nan := math.NaN()
	return mgl64.Vec3{nan, nan, nan}
}

// ValidPosition verifica se os três eixos são números finitos.
func ValidPosition(p mgl64.Vec3) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Timeline é a sequência de instantes de um hotspot dinâmico, na ordem do
// arquivo de origem. Não é alterada depois de carregada.
type Timeline []Instant

// Duration retorna o tempo do último instante.
func (tl Timeline) Duration() float64 {
	if len(tl) == 0 {
		return 0
	}
	return tl[len(tl)-1].Time
}

// Format serializa a timeline no formato texto time#x#y#z.
// Eixos ocultos são escritos como NaN.
func (tl Timeline) Format() string {
	var sb strings.Builder
	for _, inst := range tl {
		sb.WriteString(formatFloat(inst.Time))
		for _, v := range inst.Position {
			sb.WriteString(FieldSeparator)
			sb.WriteString(formatFloat(v))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseTimeline lê uma timeline no formato time#x#y#z, uma linha por instante.
//
// Linhas em branco são ignoradas. Linhas cujo tempo está ausente ou não é um
// número finito são descartadas com um aviso no log, nunca abortam a leitura.
// Eixos não numéricos (ou ausentes) viram NaN, ou seja, "oculto".
// O único erro retornado é o de leitura do io.Reader.
func ParseTimeline(r io.Reader) (Timeline, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var tl Timeline
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		inst, ok := parseInstant(line)
		if !ok {
			log.Printf("[Timeline] AVISO: linha %d ignorada (tempo inválido): %q", lineNum, line)
			continue
		}
		tl = append(tl, inst)
	}
	if err := scanner.Err(); err != nil {
		return tl, err
	}
	return tl, nil
}

// ParseTimelineString é um atalho de ParseTimeline para texto em memória.
func ParseTimelineString(text string) Timeline {
	tl, _ := ParseTimeline(strings.NewReader(text))
	return tl
}

func parseInstant(line string) (Instant, bool) {
	fields := strings.Split(line, FieldSeparator)

	t, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		return Instant{}, false
	}

	inst := Instant{Time: t, Position: HiddenPosition()}
	for axis := 0; axis < 3; axis++ {
		if axis+1 >= len(fields) {
			break
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[axis+1]), 64)
		if err != nil {
			continue // token não numérico: eixo permanece NaN
		}
		inst.Position[axis] = v
	}
	return inst, true
}
