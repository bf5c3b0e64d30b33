package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	StateFileName  = "auth.json"
	ExpiryFileName = "session-expiry.json"
)

var ErrNoSession = errors.New("nenhuma sessão persistida")

// Store persiste o artefato de sessão
type Store interface {
	Load() (*domain.Session, error)
	Save(session *domain.Session) error
	Clear() error
	IsValid(now time.Time) bool
}

// storageState segue o formato do snapshot de cookies/armazenamento do navegador
type storageState struct {
	Cookies []domain.Cookie `json:"cookies"`
	Origins []any           `json:"origins"`
}

type expiryFile struct {
	Expiry time.Time `json:"expiry"`
}

// FileStore guarda a sessão em auth.json e a expiração em session-expiry.json.
// Todas as escritas passam pelo mesmo mutex.
type FileStore struct {
	statePath  string
	expiryPath string
	mu         sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{
		statePath:  filepath.Join(dir, StateFileName),
		expiryPath: filepath.Join(dir, ExpiryFileName),
	}
}

// IsValid é verdadeiro sse os dois arquivos existem e a expiração está no futuro.
// Não faz chamadas de rede.
func (s *FileStore) IsValid(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.statePath); err != nil {
		return false
	}

	expiry, err := s.readExpiry()
	if err != nil {
		return false
	}

	return expiry.After(now)
}

func (s *FileStore) Load() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session: erro ao ler %s: %w", s.statePath, err)
	}

	var state storageState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("session: %s corrompido: %w", s.statePath, err)
	}

	session := &domain.Session{Cookies: state.Cookies}
	if expiry, err := s.readExpiry(); err == nil {
		session.ExpiresAt = expiry
	}

	return session, nil
}

// Save substitui por completo o estado anterior
func (s *FileStore) Save(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := storageState{Cookies: session.Cookies, Origins: []any{}}
	if state.Cookies == nil {
		state.Cookies = []domain.Cookie{}
	}

	if err := writeJSON(s.statePath, state); err != nil {
		return err
	}

	if err := writeJSON(s.expiryPath, expiryFile{Expiry: session.ExpiresAt.UTC()}); err != nil {
		return err
	}

	logrus.WithField("expires_at", session.ExpiresAt.Format(time.RFC3339)).Info("session: sessão salva")
	return nil
}

// Clear remove os dois artefatos
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, path := range []string{s.statePath, s.expiryPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		logrus.WithField("path", path).Debug("session: arquivo removido")
	}

	return errors.Join(errs...)
}

func (s *FileStore) readExpiry() (time.Time, error) {
	raw, err := os.ReadFile(s.expiryPath)
	if err != nil {
		return time.Time{}, err
	}

	var expiry expiryFile
	if err := json.Unmarshal(raw, &expiry); err != nil {
		return time.Time{}, err
	}
	if expiry.Expiry.IsZero() {
		return time.Time{}, errors.New("session: expiração ausente")
	}

	return expiry.Expiry, nil
}

// writeJSON grava em arquivo temporário e renomeia
func writeJSON(path string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("session: erro ao serializar %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("session: erro ao gravar %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("session: erro ao renomear %s: %w", tmp, err)
	}

	return nil
}
