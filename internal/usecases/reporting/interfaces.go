package reporting

import (
	"context"
	"time"

	"github.com/vfg2006/campaign-reporter/internal/domain"
)

// Reporter executa o pipeline de relatório
type Reporter interface {
	// RunDaily processa o dia alvo (ontem em IST por padrão)
	RunDaily(ctx context.Context, opts RunOptions) (*RunResult, error)

	// RunHistorical reprocessa cada dia de [from, to] e publica uma única vez
	RunHistorical(ctx context.Context, from, to time.Time) (*RunResult, error)
}

// SessionProvider garante a sessão do painel antes de qualquer busca
type SessionProvider interface {
	EnsureSession(ctx context.Context) (string, error)
}

// CampaignSource lista campanhas e busca as contagens diárias
type CampaignSource interface {
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	FetchCampaignMetrics(ctx context.Context, campaign domain.Campaign, from, to time.Time) ([]domain.DailyMetric, error)
}

// SheetReader lê a tabela publicada anteriormente
type SheetReader interface {
	Name() string
	ReadAll(ctx context.Context) ([][]string, error)
}

// EventLog é o log em arquivo de rate limit e falhas, truncado a cada execução
type EventLog interface {
	Record(format string, args ...any)
	Reset()
}
