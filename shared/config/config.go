package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// MQTTConfig configura a publicação dos eventos de hotspot.
type MQTTConfig struct {
	URL      string `json:"url"` // vazio desativa
	Topic    string `json:"topic"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Config armazena as configurações do HotspotVision.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Reprodução
	PollIntervalMs int     `json:"poll_interval_ms"`
	Loop           bool    `json:"loop"`
	ClipLength     float64 `json:"clip_length"` // segundos; usado quando não há trilha sonora

	// Conteúdo
	ScenePath      string `json:"scene_path"`
	SoundtrackPath string `json:"soundtrack_path"`
	TimelineDir    string `json:"timeline_dir"` // fallback local quando o servidor não responde

	// HotspotVision Server (Usado pelo Cliente)
	ServerURL string `json:"server_url"`

	MQTT MQTTConfig `json:"mqtt"`

	// Câmera
	FOV               float32 `json:"fov"`
	CameraDistance    float32 `json:"camera_distance"`
	CameraSensitivity float32 `json:"camera_sensitivity"`
	ZoomSpeed         float32 `json:"zoom_speed"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
	ShowGrid      bool `json:"show_grid"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "HotspotVision",
		Fullscreen:   false,
		TargetFPS:    60,

		PollIntervalMs: 50,
		Loop:           true,
		ClipLength:     30,

		ScenePath:      "scene.yaml",
		SoundtrackPath: "",
		TimelineDir:    "timelines",

		ServerURL: "ws://127.0.0.1:8080/ws",

		MQTT: MQTTConfig{
			Topic:    "hotspotvision/events",
			ClientID: "hotspotvision-cliente",
		},

		FOV:               45.0,
		CameraDistance:    20.0,
		CameraSensitivity: 0.3,
		ZoomSpeed:         2.0,

		ShowDebugInfo: true,
		ShowGrid:      true,
	}
}

// PollInterval retorna o período do driver de reprodução.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMs <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Validate verifica valores que impediriam o cliente de iniciar.
func (c *Config) Validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("janela inválida: %dx%d", c.WindowWidth, c.WindowHeight)
	}
	if c.ClipLength < 0 {
		return fmt.Errorf("clip_length negativo: %v", c.ClipLength)
	}
	if c.MQTT.URL != "" && c.MQTT.Topic == "" {
		return fmt.Errorf("mqtt.topic obrigatório quando mqtt.url está definido")
	}
	return nil
}

// DefaultPath retorna o caminho do config.json ao lado do executável.
func DefaultPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Se o arquivo não existir, retorna as configurações padrão; se estiver
// corrompido, registra o erro e também usa o padrão.
func Load(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("[Config] Erro ao ler %s, usando padrão: %v", path, err)
		return DefaultConfig()
	}

	return cfg
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
