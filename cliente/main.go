package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"HotspotVision/cliente/internal/app"
	"HotspotVision/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	configPath := flag.String("config", config.DefaultPath(), "Arquivo de configuração")
	serverURL := flag.String("server", "", "URL do Servidor HotspotVision (padrão: ws://127.0.0.1:8080/ws)")
	scenePath := flag.String("scene", "", "Manifesto da cena (YAML)")
	soundtrack := flag.String("soundtrack", "", "Trilha sonora que conduz a reprodução")
	noLoop := flag.Bool("no-loop", false, "Parar ao fim da mídia em vez de repetir")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	f, err := os.OpenFile("debug_hv.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(f)
		log.Println("--- INICIANDO HOTSPOT VISION ---")
	}

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║        HotspotVision v0.1.0          ║")
	log.Println("║   Hotspots animados sobre vídeo 3D   ║")
	log.Println("╚══════════════════════════════════════╝")

	cfg := config.Load(*configPath)

	// Flags sobrescrevem o config salvo
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *scenePath != "" {
		cfg.ScenePath = *scenePath
	}
	if *soundtrack != "" {
		cfg.SoundtrackPath = *soundtrack
	}
	if *noLoop {
		cfg.Loop = false
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[HotspotVision] Configuração inválida: %v", err)
	}

	application := app.New(cfg, *configPath)
	application.Run()
}
