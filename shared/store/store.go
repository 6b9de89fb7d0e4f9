// Package store persiste timelines e o log de eventos do servidor em SQLite.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"HotspotVision/shared/hotspot"
)

// ErrNotFound indica uma timeline inexistente no banco.
var ErrNotFound = errors.New("timeline não encontrada")

// TimelineModel é o esquema de uma timeline importada.
type TimelineModel struct {
	Path      string  `gorm:"primaryKey"` // caminho relativo com "/"
	Source    string  // texto normalizado (time#x#y#z por linha)
	Instants  int     // número de instantes
	Duration  float64 // tempo do último instante, em segundos
	MTime     int64   `gorm:"column:mtime;index"` // mtime do arquivo de origem (unix nano)
	UpdatedAt time.Time
}

// EventModel registra um evento de hotspot relatado por um cliente.
type EventModel struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"index"`
	Event     string
	VideoTime float64
	Client    string
	CreatedAt time.Time
}

// Metadata armazena pares chave/valor globais.
type Metadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const CurrentFormatVersion = 1

// Store envolve o banco SQLite.
type Store struct {
	DB   *gorm.DB
	path string
}

// Open abre (ou cria) o banco em dbPath e roda as migrações.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	// SQLite aceita um único escritor; as importações concorrentes passam por aqui.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&TimelineModel{}, &EventModel{}, &Metadata{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	db.Save(&Metadata{Key: "FormatVersion", Value: fmt.Sprint(CurrentFormatVersion)})

	log.Printf("[Store] Banco de dados SQLite aberto: %s", dbPath)
	return &Store{DB: db, path: dbPath}, nil
}

// Close fecha o banco.
func (s *Store) Close() {
	if s.DB == nil {
		return
	}
	if sqlDB, _ := s.DB.DB(); sqlDB != nil {
		log.Println("[Store] Fechando banco de dados SQLite...")
		sqlDB.Close()
	}
}

// NormalizePath converte um caminho de pedido para a chave do banco.
func NormalizePath(path string) string {
	p := filepath.ToSlash(filepath.Clean(filepath.FromSlash(path)))
	return strings.TrimPrefix(p, "./")
}

// PutTimeline grava (ou substitui) a timeline sob path.
func (s *Store) PutTimeline(path string, tl hotspot.Timeline, mtime int64) error {
	model := TimelineModel{
		Path:     NormalizePath(path),
		Source:   tl.Format(),
		Instants: len(tl),
		Duration: tl.Duration(),
		MTime:    mtime,
	}
	if err := s.DB.Save(&model).Error; err != nil {
		return fmt.Errorf("falha ao salvar timeline %s: %w", model.Path, err)
	}
	return nil
}

func (s *Store) model(ctx context.Context, path string) (*TimelineModel, error) {
	var m TimelineModel
	err := s.DB.WithContext(ctx).First(&m, "path = ?", NormalizePath(path)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Timeline retorna a timeline gravada sob path.
func (s *Store) Timeline(ctx context.Context, path string) (hotspot.Timeline, error) {
	m, err := s.model(ctx, path)
	if err != nil {
		return nil, err
	}
	return hotspot.ParseTimelineString(m.Source), nil
}

// Fetch implementa hotspot.DataSource sobre o banco.
func (s *Store) Fetch(ctx context.Context, path string) (string, error) {
	m, err := s.model(ctx, path)
	if err != nil {
		return "", err
	}
	return m.Source, nil
}

// MTime retorna o mtime registrado para path, ou 0 se não existir.
func (s *Store) MTime(path string) int64 {
	var m TimelineModel
	if err := s.DB.Select("mtime").First(&m, "path = ?", NormalizePath(path)).Error; err != nil {
		return 0
	}
	return m.MTime
}

// Paths lista os caminhos das timelines gravadas, em ordem alfabética.
func (s *Store) Paths() ([]string, error) {
	var paths []string
	err := s.DB.Model(&TimelineModel{}).Order("path").Pluck("path", &paths).Error
	return paths, err
}

// SaveEvent anexa um evento ao log.
func (s *Store) SaveEvent(ev *EventModel) error {
	return s.DB.Create(ev).Error
}

// RecentEvents retorna até limit eventos, do mais novo para o mais antigo.
func (s *Store) RecentEvents(limit int) ([]EventModel, error) {
	var events []EventModel
	err := s.DB.Order("id desc").Limit(limit).Find(&events).Error
	return events, err
}

// Counts retorna o número de timelines e de eventos gravados.
func (s *Store) Counts() (timelines, events int64, err error) {
	if err = s.DB.Model(&TimelineModel{}).Count(&timelines).Error; err != nil {
		return
	}
	err = s.DB.Model(&EventModel{}).Count(&events).Error
	return
}
