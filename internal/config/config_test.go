package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_normalize(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  bool
		validate func(t *testing.T, cfg Config)
	}{
		{
			name: "limita o intervalo entre requisicoes",
			cfg: Config{
				Report: Report{CampaignCreatedAfter: "2025-01-01", RequestDelaySeconds: 30},
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, 10, cfg.Report.RequestDelaySeconds)
				assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Report.CreatedAfter)
			},
		},
		{
			name: "intervalo minimo de um segundo e tentativas minimas",
			cfg: Config{
				Report: Report{CampaignCreatedAfter: "2025-01-01", RequestDelaySeconds: 0},
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, 1, cfg.Report.RequestDelaySeconds)
				assert.Equal(t, 1, cfg.AiSensy.MaxRetries)
				assert.Equal(t, 1, cfg.ReportSync.RunMaxAttempts)
			},
		},
		{
			name: "normaliza destinos e urls",
			cfg: Config{
				Report:  Report{CampaignCreatedAfter: "2025-01-01", RequestDelaySeconds: 2, Sinks: []string{" Slack", "SHEETS ", ""}},
				Proxy:   Proxy{InternalServerURL: "http://localhost:3001/"},
				AiSensy: AiSensy{BaseURL: "https://backend.example/api/"},
				Database: Database{
					Driver:   "postgres",
					User:     "u",
					Password: "p",
					URL:      "db:5432/reports",
				},
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, []string{"slack", "sheets"}, cfg.Report.Sinks)
				assert.True(t, cfg.SinkEnabled("slack"))
				assert.False(t, cfg.SinkEnabled("s3"))
				assert.Equal(t, "http://localhost:3001", cfg.Proxy.InternalServerURL)
				assert.Equal(t, "https://backend.example/api", cfg.AiSensy.BaseURL)
				assert.Equal(t, "postgres://u:p@db:5432/reports", cfg.Database.DSN)
			},
		},
		{
			name:    "data de corte invalida",
			cfg:     Config{Report: Report{CampaignCreatedAfter: "01/01/2025"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.normalize()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestConfig_DataPath(t *testing.T) {
	cfg := Config{App: App{DataDir: "/var/data"}}
	assert.Equal(t, "/var/data/campaign-details.csv", cfg.DataPath("campaign-details.csv"))
}
