package handler

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/vfg2006/campaign-reporter/infrastructure/repository"
	"github.com/vfg2006/campaign-reporter/internal/api/handler/router"
	"github.com/vfg2006/campaign-reporter/internal/scheduler"
	"github.com/vfg2006/campaign-reporter/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Campaigns(runner scheduler.ReportRunner) []router.Route {
	return []router.Route{
		{
			Path:    "/campaigns",
			Method:  http.MethodGet,
			Handler: RunCampaigns(runner),
		},
	}
}

func CronJobs(runner scheduler.ReportRunner, runs repository.RunRepository, historical HistoricalRange, cronSecret string) []router.Route {
	guard := []alice.Constructor{middleware.CronSecret(cronSecret)}

	return []router.Route{
		{
			Path:        "/api/cron-check",
			Method:      http.MethodGet,
			Handler:     CronCheck(runner),
			Middlewares: guard,
		},
		{
			Path:        "/api/fetch-historical",
			Method:      http.MethodGet,
			Handler:     FetchHistorical(runner, historical),
			Middlewares: guard,
		},
		{
			Path:        "/api/cron-status",
			Method:      http.MethodGet,
			Handler:     CronStatus(runner),
			Middlewares: guard,
		},
		{
			Path:        "/api/runs",
			Method:      http.MethodGet,
			Handler:     ListRuns(runs),
			Middlewares: guard,
		},
	}
}
