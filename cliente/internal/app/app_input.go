package app

import (
	"log"

	"HotspotVision/cliente/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateCamera processa a entrada da câmera.
func (a *App) updateCamera() {
	dt := rl.GetFrameTime()
	a.Cam.HandleInput(dt)
	a.Cam.Update(dt)

	if rl.IsKeyPressed(rl.KeyP) {
		a.Cam.ToggleMode()
		mode := "Perspectiva"
		if a.Cam.Mode == camera.ModeOrthographic {
			mode = "Ortográfica"
		}
		log.Printf("[Camera] Projeção: %s", mode)
	}
}

// updateInput processa os atalhos de reprodução e debug.
func (a *App) updateInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.togglePause()
	}

	if rl.IsKeyPressed(rl.KeyR) {
		a.driver.Rewind()
		a.media.Play()
		a.driver.Start(a.Config.Loop)
		a.State = StateViewing
		log.Println("[App] Reprodução reiniciada")
	}

	if rl.IsKeyPressed(rl.KeyL) {
		a.Config.Loop = !a.Config.Loop
		a.driver.SetLoop(a.Config.Loop)
		log.Printf("[App] Loop: %v", a.Config.Loop)
	}

	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}
}

// togglePause pausa ou retoma a mídia. O driver para junto para que a
// deriva não avance com o tempo congelado; os cursores são mantidos.
func (a *App) togglePause() {
	if a.State == StatePaused {
		a.media.Play()
		a.driver.Start(a.Config.Loop)
		a.State = StateViewing
		log.Println("[App] Reprodução retomada")
		return
	}
	a.media.Pause()
	a.driver.Stop()
	a.State = StatePaused
	log.Println("[App] Reprodução pausada")
}
