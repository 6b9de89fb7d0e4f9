package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

func main() {
	port := flag.String("port", "8080", "Porta do servidor")
	wait := flag.Duration("wait", 15*time.Second, "Tempo máximo de espera pelo servidor")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║       HotspotVision Launcher         ║")
	fmt.Println("╚══════════════════════════════════════╝")

	fmt.Println("[1/2] Iniciando Servidor...")
	serverCmd := serverCommand()
	serverCmd.Dir = "servidor"
	serverCmd.Env = append(os.Environ(), "PORT="+*port)
	if err := serverCmd.Start(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	addr := "127.0.0.1:" + *port
	fmt.Printf("Aguardando o servidor em %s...\n", addr)
	if err := waitForPort(addr, *wait); err != nil {
		fmt.Printf("AVISO: %v; o cliente usará as timelines locais.\n", err)
	}

	fmt.Println("[2/2] Abrindo Cliente...")
	absClientPath, err := filepath.Abs(filepath.Join("cliente", "client"+exeSuffix()))
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do cliente: %v", err)
	}

	clientCmd := exec.Command(absClientPath, "-server", "ws://"+addr+"/ws")
	clientCmd.Dir = "cliente"

	if err := clientCmd.Start(); err != nil {
		fmt.Printf("ERRO CRÍTICO: Não foi possível executar o cliente em %s\n", absClientPath)
		fmt.Printf("Detalhes: %v\n", err)
		fmt.Println("Pressione Enter para sair...")
		fmt.Scanln()
		return
	}

	fmt.Println("\nSucesso! HotspotVision foi iniciado.")
	fmt.Println("O Launcher fechará automaticamente em 2 segundos...")
	time.Sleep(2 * time.Second)
}

// serverCommand abre o servidor em uma janela própria no Windows, para os logs.
func serverCommand() *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/c", "start", "HotspotVision SERVER", "server.exe")
	}
	return exec.Command("./server")
}

// waitForPort tenta conectar em addr até conseguir ou estourar timeout.
func waitForPort(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("servidor não respondeu em %v: %w", timeout, err)
		}
		time.Sleep(250 * time.Millisecond)
	}
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
