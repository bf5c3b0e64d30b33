package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-reporter/infrastructure/repository"
	"github.com/vfg2006/campaign-reporter/internal/domain"
	"github.com/vfg2006/campaign-reporter/internal/scheduler"
	"github.com/vfg2006/campaign-reporter/internal/usecases/reporting"
	"github.com/vfg2006/campaign-reporter/pkg/apiErrors"
	"github.com/vfg2006/campaign-reporter/pkg/log"
	"github.com/vfg2006/campaign-reporter/pkg/utils"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

// RunResponse é o envelope de sucesso dos endpoints que executam o relatório
type RunResponse struct {
	Success        bool                     `json:"success"`
	RunID          string                   `json:"runId"`
	Mode           domain.RunMode           `json:"mode"`
	TargetDates    []string                 `json:"targetDates"`
	Campaigns      []domain.CampaignDetail  `json:"campaigns"`
	Qualified      []string                 `json:"qualified"`
	NewlyQualified []string                 `json:"newlyQualified"`
	PublishErrors  []reporting.PublishError `json:"publishErrors,omitempty"`
	Timestamp      string                   `json:"timestamp"`
}

// HistoricalRange é a configuração de datas do endpoint de backfill
type HistoricalRange struct {
	DefaultDays int
	MaxDays     int
	Now         func() time.Time
}

func newRunResponse(result *reporting.RunResult) RunResponse {
	return RunResponse{
		Success:        true,
		RunID:          result.RunID,
		Mode:           result.Mode,
		TargetDates:    result.TargetDates,
		Campaigns:      result.Details,
		Qualified:      result.Qualified,
		NewlyQualified: result.NewlyQualified,
		PublishErrors:  result.PublishErrors,
		Timestamp:      apiErrors.Timestamp(),
	}
}

// RunCampaigns executa o relatório diário. ?publish=false não envia aos destinos.
func RunCampaigns(runner scheduler.ReportRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("INIT - RunCampaigns")

		publish := true
		if value := r.URL.Query().Get("publish"); value != "" {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				apiErrors.WriteFailure(w, apiErrors.ErrInvalidFormat, "publish deve ser true ou false", value)
				return
			}
			publish = parsed
		}

		runDaily(w, r, runner, reporting.RunOptions{SkipPublish: !publish})
	}
}

// CronCheck é o gatilho do cron externo; o segredo é validado no middleware
func CronCheck(runner scheduler.ReportRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("Running cron job via API endpoint")
		runDaily(w, r, runner, reporting.RunOptions{})
	}
}

func runDaily(w http.ResponseWriter, r *http.Request, runner scheduler.ReportRunner, opts reporting.RunOptions) {
	// A execução não é cancelada se o cliente desconectar
	ctx := context.WithoutCancel(r.Context())

	result, err := runner.RunNow(ctx, scheduler.RunRequest{Mode: domain.RunModeDaily, Options: opts})
	if err != nil {
		writeRunError(w, r, err)
		return
	}

	apiErrors.WriteJSON(w, http.StatusOK, newRunResponse(result))
}

// FetchHistorical reprocessa o intervalo ?from=&to= (padrão: últimos dias até ontem)
func FetchHistorical(runner scheduler.ReportRunner, cfg HistoricalRange) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("INIT - FetchHistorical")

		from, to, err := parseHistoricalRange(r, cfg)
		if err != nil {
			apiErrors.WriteFailure(w, apiErrors.ErrInvalidDateRange, err.Error(), nil)
			return
		}

		logger.WithFields(log.Fields{
			"from": domain.DateKey(from),
			"to":   domain.DateKey(to),
		}).Info("Reprocessando intervalo histórico")

		result, err := runner.RunNow(context.WithoutCancel(r.Context()), scheduler.RunRequest{
			Mode: domain.RunModeHistorical,
			From: from,
			To:   to,
		})
		if err != nil {
			writeRunError(w, r, err)
			return
		}

		apiErrors.WriteJSON(w, http.StatusOK, newRunResponse(result))
	}
}

func parseHistoricalRange(r *http.Request, cfg HistoricalRange) (time.Time, time.Time, error) {
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	to := utils.YesterdayIST(now())
	if value := r.URL.Query().Get("to"); value != "" {
		parsed, err := utils.ParseDate(value)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Errorf("data final inválida %q, use YYYY-MM-DD", value)
		}
		to = *parsed
	}

	days := cfg.DefaultDays
	if days < 1 {
		days = 1
	}
	from := to.AddDate(0, 0, -(days - 1))
	if value := r.URL.Query().Get("from"); value != "" {
		parsed, err := utils.ParseDate(value)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Errorf("data inicial inválida %q, use YYYY-MM-DD", value)
		}
		from = *parsed
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, errors.New("from deve ser anterior ou igual a to")
	}
	if cfg.MaxDays > 0 && len(utils.DaysBetween(from, to)) > cfg.MaxDays {
		return time.Time{}, time.Time{}, errors.Errorf("intervalo maior que %d dias", cfg.MaxDays)
	}

	return from, to, nil
}

// CronStatus retorna o status do agendador
func CronStatus(runner scheduler.ReportRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"scheduler": runner.GetStatus(),
			"timestamp": apiErrors.Timestamp(),
		})
	}
}

// ListRuns retorna o histórico recente de execuções
func ListRuns(runs repository.RunRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRunsLimit
		if value := r.URL.Query().Get("limit"); value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 1 {
				apiErrors.WriteFailure(w, apiErrors.ErrInvalidFormat, "limit deve ser um inteiro positivo", value)
				return
			}
			limit = min(parsed, maxRunsLimit)
		}

		records, err := runs.ListRecent(r.Context(), limit)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao listar execuções")
			apiErrors.WriteFailure(w, apiErrors.ErrDatabaseOperation, "Failed to list runs", nil)
			return
		}

		apiErrors.WriteJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"runs":      records,
			"timestamp": apiErrors.Timestamp(),
		})
	}
}

func writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reporting.ErrRunInProgress):
		apiErrors.WriteFailure(w, apiErrors.ErrRunInProgress, err.Error(), nil)
	case errors.Is(err, reporting.ErrInvalidDateRange), errors.Is(err, reporting.ErrDateRangeTooLarge):
		apiErrors.WriteFailure(w, apiErrors.ErrInvalidDateRange, err.Error(), nil)
	default:
		log.ForContext(r.Context()).WithError(err).Error("Erro ao executar relatório de campanhas")

		var runErr *reporting.RunError
		if errors.As(err, &runErr) {
			apiErrors.WriteFailure(w, apiErrors.ErrInternalServer, "Failed to retrieve campaign details", map[string]string{
				"stage": runErr.Stage,
				"runId": runErr.RunID,
				"cause": runErr.Err.Error(),
			})
			return
		}
		apiErrors.WriteFailure(w, apiErrors.ErrInternalServer, "Internal server error", err.Error())
	}
}
