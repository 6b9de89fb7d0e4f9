package store

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"HotspotVision/shared/hotspot"
)

// TimelineExt é a extensão dos arquivos de timeline importados.
const TimelineExt = ".txt"

// ScanDir lista os arquivos de timeline sob dir com seus mtimes, usando
// caminhos relativos com "/".
func ScanDir(dir string) (map[string]int64, error) {
	found := make(map[string]int64)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), TimelineExt) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		found[filepath.ToSlash(rel)] = info.ModTime().UnixNano()
		return nil
	})
	return found, err
}

// ImportFile lê e grava uma única timeline. rel é relativo a dir.
func (s *Store) ImportFile(dir, rel string, mtime int64) error {
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	defer f.Close()

	tl, err := hotspot.ParseTimeline(f)
	if err != nil {
		return err
	}
	return s.PutTimeline(rel, tl, mtime)
}

// ImportDir importa em paralelo os arquivos novos ou alterados sob dir.
// Arquivos com o mesmo mtime já gravado são ignorados. Retorna quantos
// foram importados.
func (s *Store) ImportDir(ctx context.Context, dir string, workers int) (int, error) {
	files, err := ScanDir(dir)
	if err != nil {
		return 0, err
	}
	if workers <= 0 {
		workers = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var imported atomic.Int32
	for rel, mtime := range files {
		if s.MTime(rel) == mtime {
			continue
		}
		rel, mtime := rel, mtime
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.ImportFile(dir, rel, mtime); err != nil {
				log.Printf("[Store] Falha ao importar %s: %v", rel, err)
				return nil
			}
			imported.Add(1)
			return nil
		})
	}

	err = g.Wait()
	n := int(imported.Load())
	if n > 0 {
		log.Printf("[Store] %d timelines importadas de %s", n, dir)
	}
	return n, err
}
