package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-reporter/internal/domain"
)

func TestFileStore_IsValid(t *testing.T) {
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
		want  bool
	}{
		{
			name:  "sem arquivos",
			setup: func(t *testing.T, dir string) {},
			want:  false,
		},
		{
			name: "expiração no futuro",
			setup: func(t *testing.T, dir string) {
				store := NewFileStore(dir)
				require.NoError(t, store.Save(&domain.Session{ExpiresAt: now.Add(time.Hour)}))
			},
			want: true,
		},
		{
			name: "expiração no passado",
			setup: func(t *testing.T, dir string) {
				store := NewFileStore(dir)
				require.NoError(t, store.Save(&domain.Session{ExpiresAt: now.Add(-time.Minute)}))
			},
			want: false,
		},
		{
			name: "somente auth.json",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte(`{"cookies":[]}`), 0o600))
			},
			want: false,
		},
		{
			name: "somente session-expiry.json",
			setup: func(t *testing.T, dir string) {
				content := `{"expiry":"` + now.Add(time.Hour).Format(time.RFC3339) + `"}`
				require.NoError(t, os.WriteFile(filepath.Join(dir, ExpiryFileName), []byte(content), 0o600))
			},
			want: false,
		},
		{
			name: "expiração corrompida",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte(`{"cookies":[]}`), 0o600))
				require.NoError(t, os.WriteFile(filepath.Join(dir, ExpiryFileName), []byte(`not json`), 0o600))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)
			assert.Equal(t, tt.want, NewFileStore(dir).IsValid(now))
		})
	}
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	expiresAt := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

	err := store.Save(&domain.Session{
		Cookies: []domain.Cookie{
			{Name: "sid", Value: "abc", Domain: ".aisensy.com", Path: "/"},
			{Name: "token", Value: "jwt-token", Domain: ".aisensy.com", Path: "/"},
		},
		ExpiresAt: expiresAt,
	})
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	token, ok := loaded.Token()
	assert.True(t, ok)
	assert.Equal(t, "jwt-token", token)
	assert.True(t, expiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, store.IsValid(expiresAt.Add(-time.Hour)))

	// remover de novo não é erro
	assert.NoError(t, store.Clear())
}
