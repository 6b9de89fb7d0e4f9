package app

import (
	"fmt"
	"time"

	"HotspotVision/shared/playback"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	a.drawScene()
	a.drawTimebar()
	a.drawHUD()

	if a.State == StatePaused {
		a.drawPauseBanner()
	}
	if a.loading() {
		a.drawLoadingBar()
	}

	rl.EndDrawing()
}

// drawScene renderiza a cena 3D.
func (a *App) drawScene() {
	rl.BeginMode3D(a.Cam.RLCamera)

	if a.Config.ShowGrid {
		rl.DrawGrid(40, 1.0)
	}

	if a.renderer != nil {
		a.renderer.Draw(time.Now())
	}

	rl.EndMode3D()
}

// drawTimebar desenha a posição da mídia na base da tela.
func (a *App) drawTimebar() {
	length := a.mediaLength()
	if length <= 0 {
		return
	}

	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())
	barX := int32(20)
	barY := screenHeight - 24
	barWidth := screenWidth - 40

	progress := float32(a.media.CurrentTime() / length)
	if progress > 1 {
		progress = 1
	}

	rl.DrawRectangle(barX, barY, barWidth, 6, rl.NewColor(60, 60, 70, 255))
	rl.DrawRectangle(barX, barY, int32(float32(barWidth)*progress), 6, rl.Orange)

	label := fmt.Sprintf("%.2f / %.2fs", a.media.CurrentTime(), length)
	rl.DrawText(label, barX, barY-20, 16, rl.LightGray)
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(360)
	height := int32(270)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	state := a.driver.State()
	stateColor := rl.SkyBlue
	if state != playback.Polling {
		stateColor = rl.Gray
	}
	rl.DrawText(state.String(), x+240, y+10, 20, stateColor)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	rl.DrawText("REPRODUÇÃO", x+10, y+45, 12, rl.Gray)
	rl.DrawText(fmt.Sprintf("Tempo: %.2fs  Loop: %v  Ticks: %d", a.media.CurrentTime(), a.driver.Loop(), a.driver.Ticks()), x+10, y+60, 14, rl.White)

	visible := a.renderer.VisibleCount()
	total := len(a.renderer.Spots())
	rl.DrawText(fmt.Sprintf("Hotspots visíveis: %d/%d", visible, total), x+10, y+78, 14, rl.LightGray)

	rl.DrawLine(x+10, y+100, x+width-10, y+100, rl.NewColor(100, 100, 100, 100))

	rl.DrawText("REDE", x+10, y+110, 12, rl.Gray)
	syncStatus := "Offline"
	if a.netClient != nil && a.netClient.IsConnected() {
		syncStatus = "Conectado"
	}
	if st := a.status(); st != nil {
		syncStatus = fmt.Sprintf("%s  v%s  CPU %.0f%%  %d clientes", syncStatus, st.Version, st.CPUPercent, st.Clients)
	}
	rl.DrawText(syncStatus, x+10, y+125, 14, rl.LightGray)

	mqttStatus := "MQTT: desligado"
	if a.publisher != nil {
		mqttStatus = fmt.Sprintf("MQTT: %d pendentes", a.publisher.Pending())
	}
	rl.DrawText(mqttStatus, x+10, y+143, 14, rl.LightGray)

	rl.DrawLine(x+10, y+165, x+width-10, y+165, rl.NewColor(100, 100, 100, 100))

	rl.DrawText(fmt.Sprintf("EVENTOS (%d)", a.events.Total()), x+10, y+175, 12, rl.Gray)
	for i, line := range a.events.Recent() {
		rl.DrawText(line, x+10, y+190+int32(i)*13, 12, rl.Gold)
	}
}

func (a *App) drawPauseBanner() {
	screenWidth := int32(rl.GetScreenWidth())

	text := "PAUSADO (ESPAÇO para retomar)"
	textWidth := rl.MeasureText(text, 24)
	x := (screenWidth - textWidth) / 2

	rl.DrawRectangle(x-20, 14, textWidth+40, 40, rl.NewColor(0, 0, 0, 160))
	rl.DrawText(text, x, 22, 24, rl.Gold)
}

// drawLoadingBar mostra, no canto, as timelines que ainda estão chegando.
// A reprodução segue enquanto isso.
func (a *App) drawLoadingBar() {
	x := int32(10)
	y := int32(10)
	barWidth := int32(220)
	barHeight := int32(10)

	rl.DrawRectangle(x, y, barWidth+20, 46, rl.NewColor(0, 0, 0, 160))
	rl.DrawText(a.LoadingStatus, x+10, y+6, 14, rl.LightGray)

	rl.DrawRectangle(x+10, y+28, barWidth, barHeight, rl.DarkGray)
	rl.DrawRectangle(x+10, y+28, int32(float32(barWidth)*a.loadingProgress()), barHeight, rl.Orange)
	rl.DrawRectangleLines(x+10, y+28, barWidth, barHeight, rl.White)
}

// loadingProgress é a fração de hotspots dinâmicos com timeline.
func (a *App) loadingProgress() float32 {
	if a.spotter == nil {
		return 0
	}
	dynamic := a.spotter.DynamicHotspots()
	if len(dynamic) == 0 {
		return 1
	}
	loaded := 0
	for _, h := range dynamic {
		if h.HasTimeline() {
			loaded++
		}
	}
	return float32(loaded) / float32(len(dynamic))
}

// mediaLength retorna a duração da mídia em segundos.
func (a *App) mediaLength() float64 {
	switch {
	case a.soundtrack != nil:
		return a.soundtrack.Length()
	case a.clock != nil:
		return a.clock.Length().Seconds()
	}
	return 0
}
