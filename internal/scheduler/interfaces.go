package scheduler

import (
	"context"

	"github.com/vfg2006/campaign-reporter/internal/usecases/reporting"
)

// ReportRunner dispara o relatório com retry e expõe o status do agendador
type ReportRunner interface {
	RunNow(ctx context.Context, req RunRequest) (*reporting.RunResult, error)
	GetStatus() map[string]any
}
