package eventlog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const FileName = "rate-limit-log.txt"

// Recorder recebe eventos de rate limit e de falhas que vão para o log em arquivo
type Recorder interface {
	Record(format string, args ...any)
}

// lineFormatter escreve "<timestamp RFC3339>: <mensagem>"
type lineFormatter struct{}

func (lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(entry.Time.UTC().Format(time.RFC3339Nano))
	b.WriteString(": ")
	b.WriteString(entry.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// FileLog é o log append-only em arquivo. Nunca é lido pelo pipeline.
type FileLog struct {
	path   string
	mu     sync.Mutex
	file   *os.File
	logger *logrus.Logger
}

// New abre (ou cria) o arquivo de log. Se não for possível, escreve no stderr.
func New(path string) *FileLog {
	l := &FileLog{path: path}
	l.logger = logrus.New()
	l.logger.SetFormatter(lineFormatter{})
	l.logger.SetLevel(logrus.InfoLevel)
	l.logger.SetOutput(l.open(os.O_APPEND))
	return l
}

func (l *FileLog) open(mode int) io.Writer {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|mode, 0o644)
	if err != nil {
		logrus.WithError(err).WithField("path", l.path).Error("eventlog: não foi possível abrir o arquivo, usando stderr")
		return os.Stderr
	}
	l.file = file
	return file
}

// Record grava uma linha no log
func (l *FileLog) Record(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Info(fmt.Sprintf(format, args...))
}

// Reset trunca o arquivo no início de cada execução
func (l *FileLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
	l.logger.SetOutput(l.open(os.O_TRUNC))
}

func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

type discard struct{}

func (discard) Record(string, ...any) {}

// Discard ignora todos os eventos
var Discard Recorder = discard{}
