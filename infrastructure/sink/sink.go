package sink

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured indica que o destino não tem credenciais; a execução segue
var ErrNotConfigured = errors.New("destino não configurado")

// Report é o relatório gerado em uma execução
type Report struct {
	RunID       string
	Title       string
	FileName    string
	CSV         []byte
	Rows        [][]string
	GeneratedAt time.Time
}

// Publisher entrega o relatório em um destino externo
type Publisher interface {
	Name() string
	Publish(ctx context.Context, report Report) error
}
