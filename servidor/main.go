package main

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"HotspotVision/shared/proto/hsnet"
	"HotspotVision/shared/store"
)

func main() {
	// Caminhos relativos (data/, tmp/, timelines/) partem do diretório do executável.
	if exePath, err := os.Executable(); err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	log.SetFlags(log.Ltime | log.Lshortfile)

	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			log.SetOutput(io.MultiWriter(os.Stdout, logFile))
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║    HotspotVision SERVER v" + Version + "       ║")
	log.Println("╚══════════════════════════════════════╝")

	dbPath := getenv("HV_DB", "data/hotspots.db")
	timelineDir := getenv("HV_TIMELINES", "timelines")
	port := getenv("PORT", "8080")

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Erro fatal: não foi possível abrir o banco: %v", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := os.Stat(timelineDir); err == nil {
		n, err := st.ImportDir(ctx, timelineDir, runtime.NumCPU())
		if err != nil {
			log.Printf("[Startup] Importação incompleta: %v", err)
		}
		log.Printf("[Startup] %d timelines novas ou alteradas em %s", n, timelineDir)
	} else {
		log.Printf("[Startup] Diretório %s ausente; servindo apenas o banco", timelineDir)
	}

	hub := newHub()
	go hub.run()
	defer hub.Stop()

	srv := newServer(hub, st)
	go srv.broadcastStatus(ctx, 2*time.Second)

	scanner := NewTimelineScanner(timelineDir, st, 5*time.Second)
	scanner.OnImport = func(int) {
		hub.Broadcast(hsnet.MsgServerStatus, srv.status())
	}
	scanner.Start(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.serveWs)

	addr := "127.0.0.1:" + port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("╔══════════════════════════════════════════════════════════════╗")
		log.Printf("║ ERRO CRÍTICO: Não foi possível abrir a porta %s.      ║", port)
		log.Printf("║ Provavelmente há outra instância do servidor rodando.        ║")
		log.Printf("╚══════════════════════════════════════════════════════════════╝")
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	httpServer := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		log.Println("[Servidor] Encerrando...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("Servidor HotspotVision iniciado em %s", addr)
	if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Erro fatal no servidor HTTP: %v", err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
