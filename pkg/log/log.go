package log

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Fields = logrus.Fields

type correlationKey struct{}

// CorrelationHeader carrega o id de correlação entre CLI, proxy e API
const CorrelationHeader = "X-Correlation-ID"

// Setup configura o logger global com o formato de texto e o nível informado.
// Nível inválido cai para info.
func Setup(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.WithField("level", level).Warn("Nível de log inválido, usando info")
		return
	}
	logrus.SetLevel(parsed)
}

// WithCorrelationID grava o id no contexto; id vazio gera um novo
func WithCorrelationID(ctx context.Context, id string) (context.Context, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationKey{}, id), id
}

func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

// ForContext devolve um entry com o correlation_id do contexto, quando houver
func ForContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if id := CorrelationID(ctx); id != "" {
		entry = entry.WithField("correlation_id", id)
	}
	return entry
}

// ForRun acrescenta o run_id de uma execução do relatório
func ForRun(ctx context.Context, runID string) *logrus.Entry {
	return ForContext(ctx).WithField("run_id", runID)
}
