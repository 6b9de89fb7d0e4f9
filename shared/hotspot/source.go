package hotspot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DataSource busca o texto bruto de uma timeline pelo caminho.
// Pode demorar indefinidamente; implementações devem respeitar ctx.
type DataSource interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// SourceFunc adapta uma função para DataSource.
type SourceFunc func(ctx context.Context, path string) (string, error)

func (f SourceFunc) Fetch(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// FileSource lê timelines de um diretório local.
type FileSource struct {
	Dir string
}

func (s FileSource) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(path)))
	if err != nil {
		return "", fmt.Errorf("falha ao ler timeline %s: %w", path, err)
	}
	return string(data), nil
}
