package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	AiSensy    AiSensy    `mapstructure:",squash"`
	Report     Report     `mapstructure:",squash"`
	ReportSync ReportSync `mapstructure:",squash"`
	Cron       Cron       `mapstructure:",squash"`
	Slack      Slack      `mapstructure:",squash"`
	Sheets     Sheets     `mapstructure:",squash"`
	Archive    Archive    `mapstructure:",squash"`
	Redis      Redis      `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Proxy      Proxy      `mapstructure:",squash"`
}

type App struct {
	LogLevel       string `mapstructure:"log_level"`
	DataDir        string `mapstructure:"data_dir"`
	DebugArtifacts bool   `mapstructure:"debug_artifacts"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type AiSensy struct {
	BaseURL                string        `mapstructure:"aisensy_base_url"`
	Origin                 string        `mapstructure:"aisensy_origin"`
	LoginURL               string        `mapstructure:"login_url"`
	Email                  string        `mapstructure:"email"`
	Password               string        `mapstructure:"password"`
	AssistantID            string        `mapstructure:"assistant_id"`
	SessionTTLHours        int           `mapstructure:"session_ttl_hours"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout"`
	LoginTimeout           time.Duration `mapstructure:"login_timeout"`
	MaxRetries             int           `mapstructure:"max_retries"`
	InitialRetryDelay      time.Duration `mapstructure:"initial_retry_delay"`
	UnauthorizedRetryDelay time.Duration `mapstructure:"unauthorized_retry_delay"`
	UnauthorizedMaxRetries int           `mapstructure:"unauthorized_max_retries"`
}

type Report struct {
	LookbackDays          int       `mapstructure:"lookback_days"`
	MinConsecutiveDays    int       `mapstructure:"min_consecutive_days"`
	MinMetricDays         int       `mapstructure:"min_metric_days"`
	CampaignCreatedAfter  string    `mapstructure:"campaign_created_after"`
	CreatedAfter          time.Time `mapstructure:"-"`
	RequestDelaySeconds   int       `mapstructure:"request_delay_seconds"`
	Sinks                 []string  `mapstructure:"sinks"`
	HistoricalDefaultDays int       `mapstructure:"historical_default_days"`
	HistoricalMaxDays     int       `mapstructure:"historical_max_days"`
}

type ReportSync struct {
	CronSchedule      string        `mapstructure:"report_sync_cron"`
	Enabled           bool          `mapstructure:"report_sync_enabled"`
	RunOnStartup      bool          `mapstructure:"report_sync_run_on_startup"`
	RunMaxAttempts    int           `mapstructure:"run_max_attempts"`
	RunRetryBaseDelay time.Duration `mapstructure:"run_retry_base_delay"`
}

type Cron struct {
	Secret string `mapstructure:"cron_secret"`
}

type Slack struct {
	BotToken   string `mapstructure:"slack_bot_token"`
	WebhookURL string `mapstructure:"slack_webhook_url"`
	ChannelID  string `mapstructure:"slack_channel_id"`
	APIURL     string `mapstructure:"slack_api_url"`
}

type Sheets struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	Range           string `mapstructure:"sheet_range"`
	CredentialsFile string `mapstructure:"google_credentials_file"`
	APIURL          string `mapstructure:"sheets_api_url"`
}

type Archive struct {
	Bucket string `mapstructure:"s3_bucket"`
	Prefix string `mapstructure:"s3_prefix"`
	Region string `mapstructure:"aws_region"`
}

type Redis struct {
	URL        string        `mapstructure:"redis_url"`
	RunLockTTL time.Duration `mapstructure:"run_lock_ttl"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Enabled  bool   `mapstructure:"database_enabled"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Proxy struct {
	InternalServerURL string `mapstructure:"internal_server_url"`
	Port              string `mapstructure:"external_api_port"`
	Token             string `mapstructure:"external_api_token"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "")
	viper.SetDefault("PORT", 3000)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATA_DIR", ".")
	viper.SetDefault("DEBUG_ARTIFACTS", false)

	viper.SetDefault("AISENSY_BASE_URL", "https://backend.aisensy.com/client/t1/api")
	viper.SetDefault("AISENSY_ORIGIN", "https://www.app.aisensy.com")
	viper.SetDefault("LOGIN_URL", "https://www.app.aisensy.com/login")
	viper.SetDefault("EMAIL", "")
	viper.SetDefault("PASSWORD", "")
	viper.SetDefault("ASSISTANT_ID", "6515621dfe38c80b4d35a1a7")
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("REQUEST_TIMEOUT", "30s")
	viper.SetDefault("LOGIN_TIMEOUT", "60s")
	viper.SetDefault("MAX_RETRIES", 3)            // Total de tentativas em caso de 429
	viper.SetDefault("INITIAL_RETRY_DELAY", "2s") // Atraso inicial do backoff exponencial
	viper.SetDefault("UNAUTHORIZED_RETRY_DELAY", "2s")
	viper.SetDefault("UNAUTHORIZED_MAX_RETRIES", 2)

	// Defaults do relatório de campanhas
	viper.SetDefault("LOOKBACK_DAYS", 9)
	viper.SetDefault("MIN_CONSECUTIVE_DAYS", 4)
	viper.SetDefault("MIN_METRIC_DAYS", 2)
	viper.SetDefault("CAMPAIGN_CREATED_AFTER", "2025-01-01")
	viper.SetDefault("REQUEST_DELAY_SECONDS", 1) // Entre 1 e 10 segundos entre requisições
	viper.SetDefault("SINKS", "slack,sheets")
	viper.SetDefault("HISTORICAL_DEFAULT_DAYS", 7)
	viper.SetDefault("HISTORICAL_MAX_DAYS", 31)

	viper.SetDefault("REPORT_SYNC_CRON", "30 18 * * *") // 00:00 IST
	viper.SetDefault("REPORT_SYNC_ENABLED", true)
	viper.SetDefault("REPORT_SYNC_RUN_ON_STARTUP", false)
	viper.SetDefault("RUN_MAX_ATTEMPTS", 3)
	viper.SetDefault("RUN_RETRY_BASE_DELAY", "30s")

	viper.SetDefault("CRON_SECRET", "")

	viper.SetDefault("SLACK_BOT_TOKEN", "")
	viper.SetDefault("SLACK_WEBHOOK_URL", "")
	viper.SetDefault("SLACK_CHANNEL_ID", "")
	viper.SetDefault("SLACK_API_URL", "https://slack.com/api")

	viper.SetDefault("SPREADSHEET_ID", "")
	viper.SetDefault("SHEET_RANGE", "Sheet1")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("SHEETS_API_URL", "https://sheets.googleapis.com/v4")

	viper.SetDefault("S3_BUCKET", "")
	viper.SetDefault("S3_PREFIX", "campaign-reports/")
	viper.SetDefault("AWS_REGION", "ap-south-1")

	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RUN_LOCK_TTL", "30m")

	viper.SetDefault("DATABASE_ENABLED", false)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/campaign_reporter?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("INTERNAL_SERVER_URL", "http://localhost:3001")
	viper.SetDefault("EXTERNAL_API_PORT", 3002)
	viper.SetDefault("EXTERNAL_API_TOKEN", "")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize valida e completa os campos derivados da configuração
func (c *Config) normalize() error {
	createdAfter, err := time.Parse(time.DateOnly, c.Report.CampaignCreatedAfter)
	if err != nil {
		return fmt.Errorf("config: CAMPAIGN_CREATED_AFTER inválido %q: %w", c.Report.CampaignCreatedAfter, err)
	}
	c.Report.CreatedAfter = createdAfter

	if c.Report.RequestDelaySeconds < 1 {
		logrus.Warnf("REQUEST_DELAY_SECONDS=%d abaixo do mínimo, usando 1", c.Report.RequestDelaySeconds)
		c.Report.RequestDelaySeconds = 1
	}
	if c.Report.RequestDelaySeconds > 10 {
		logrus.Warnf("REQUEST_DELAY_SECONDS=%d acima do máximo, usando 10", c.Report.RequestDelaySeconds)
		c.Report.RequestDelaySeconds = 10
	}

	if c.AiSensy.MaxRetries < 1 {
		c.AiSensy.MaxRetries = 1
	}
	if c.ReportSync.RunMaxAttempts < 1 {
		c.ReportSync.RunMaxAttempts = 1
	}

	sinks := make([]string, 0, len(c.Report.Sinks))
	for _, sink := range c.Report.Sinks {
		sink = strings.ToLower(strings.TrimSpace(sink))
		if sink != "" {
			sinks = append(sinks, sink)
		}
	}
	c.Report.Sinks = sinks

	c.Proxy.InternalServerURL = strings.TrimRight(c.Proxy.InternalServerURL, "/")
	c.AiSensy.BaseURL = strings.TrimRight(c.AiSensy.BaseURL, "/")

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)

	return nil
}

// SinkEnabled indica se um destino de publicação está habilitado
func (c *Config) SinkEnabled(name string) bool {
	for _, sink := range c.Report.Sinks {
		if sink == name {
			return true
		}
	}
	return false
}

// DataPath resolve um arquivo dentro do diretório de dados
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.App.DataDir, name)
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
