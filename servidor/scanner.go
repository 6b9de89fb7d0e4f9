package main

import (
	"context"
	"log"
	"time"

	"HotspotVision/shared/store"
	"HotspotVision/shared/util"
)

// TimelineScanner vigia o diretório de timelines e reimporta os arquivos
// cujo mtime mudou.
type TimelineScanner struct {
	dir      string
	store    *store.Store
	interval time.Duration
	queue    *util.UniqueQueue[string, int64]

	// OnImport é chamado após uma varredura que importou algo.
	OnImport func(n int)
}

func NewTimelineScanner(dir string, st *store.Store, interval time.Duration) *TimelineScanner {
	return &TimelineScanner{
		dir:      dir,
		store:    st,
		interval: interval,
		queue:    util.NewUniqueQueue[string, int64](),
	}
}

func (s *TimelineScanner) Start(ctx context.Context) {
	go s.scanLoop(ctx)
}

func (s *TimelineScanner) scanLoop(ctx context.Context) {
	log.Printf("[Scanner] Vigiando %s a cada %v", s.dir, s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Scanner] Recuperado de pânico: %v", r)
				}
			}()
			n, err := s.ScanOnce()
			if err != nil {
				log.Printf("[Scanner] Erro na varredura: %v", err)
			}
			if n > 0 && s.OnImport != nil {
				s.OnImport(n)
			}
		}()
	}
}

// ScanOnce enfileira os arquivos alterados e importa a fila. Retorna
// quantos foram importados.
func (s *TimelineScanner) ScanOnce() (int, error) {
	files, err := store.ScanDir(s.dir)
	if err != nil {
		return 0, err
	}
	for rel, mtime := range files {
		if s.store.MTime(rel) != mtime {
			s.queue.Enqueue(rel, mtime)
		}
	}

	imported := 0
	for {
		rel, mtime, ok := s.queue.Dequeue()
		if !ok {
			break
		}
		if err := s.store.ImportFile(s.dir, rel, mtime); err != nil {
			log.Printf("[Scanner] Falha ao importar %s: %v", rel, err)
			continue
		}
		log.Printf("[Scanner] Timeline atualizada: %s", rel)
		imported++
	}
	return imported, nil
}
