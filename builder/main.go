package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// component é um binário produzido pelo builder.
type component struct {
	Name    string
	Dir     string
	Output  string
	Cgo     bool
	LDFlags string
}

func main() {
	runTests := flag.Bool("test", false, "Rodar os testes antes de compilar")
	static := flag.Bool("static", runtime.GOOS == "windows", "Linkar estaticamente os binários CGO")
	pause := flag.Bool("pause", runtime.GOOS == "windows", "Esperar Enter ao terminar")
	flag.Parse()

	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║     HotspotVision Native Builder     ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	start := time.Now()
	setupEnvironment()

	if *runTests {
		if err := run("TESTES", "go", "test", "./shared/...", "./servidor/..."); err != nil {
			fatal(err, *pause)
		}
	}

	for _, c := range components(*static) {
		if err := buildComponent(c); err != nil {
			fatal(err, *pause)
		}
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Println(ColorYellow + "Dica: Execute o 'HotspotVision" + exeSuffix() + "' para abrir servidor e cliente." + ColorReset)

	if *pause {
		fmt.Println("\nPressione Enter para sair...")
		fmt.Scanln()
	}
}

func components(static bool) []component {
	cgoFlags := "-s -w"
	if static {
		cgoFlags = "-extldflags=-static -s -w"
	}
	clientFlags := cgoFlags
	if runtime.GOOS == "windows" {
		clientFlags += " -H=windowsgui"
	}

	return []component{
		{Name: "SERVIDOR (CGO, SQLite)", Dir: "servidor", Output: "servidor/server" + exeSuffix(), Cgo: true, LDFlags: cgoFlags},
		{Name: "CLIENTE (CGO, raylib)", Dir: "cliente", Output: "cliente/client" + exeSuffix(), Cgo: true, LDFlags: clientFlags},
		{Name: "LAUNCHER (Pure Go)", Dir: "launcher", Output: "HotspotVision" + exeSuffix(), LDFlags: "-s -w"},
	}
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0] Configurando ambiente de compilação..." + ColorReset)

	// MSYS2 fornece o gcc no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
		fmt.Println("  - Compilador C: gcc (MSYS2)")
	}
}

func buildComponent(c component) error {
	cgoValue := "0"
	if c.Cgo {
		cgoValue = "1"
	}
	os.Setenv("CGO_ENABLED", cgoValue)

	if err := run(c.Name, "go", "build", "-ldflags", c.LDFlags, "-o", c.Output, "./"+c.Dir); err != nil {
		return err
	}
	fmt.Printf(ColorGreen+"  - %s compilado com sucesso -> %s"+ColorReset+"\n", c.Name, c.Output)
	return nil
}

func run(name string, bin string, args ...string) error {
	fmt.Printf(ColorYellow+"\n[+] %s..."+ColorReset+"\n", name)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha em %s: %w", name, err)
	}
	return nil
}

func fatal(err error, pause bool) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	if pause {
		fmt.Println("Pressione Enter para sair...")
		fmt.Scanln()
	}
	os.Exit(1)
}
