package domain

import "time"

type RunMode string

const (
	RunModeDaily      RunMode = "daily"
	RunModeHistorical RunMode = "historical"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RunRecord registra uma execução do pipeline
type RunRecord struct {
	ID                string     `json:"id"`
	Mode              RunMode    `json:"mode"`
	FromDate          time.Time  `json:"fromDate"`
	ToDate            time.Time  `json:"toDate"`
	Status            RunStatus  `json:"status"`
	CampaignsTotal    int        `json:"campaignsTotal"`
	CampaignsReported int        `json:"campaignsReported"`
	Error             string     `json:"error,omitempty"`
	StartedAt         time.Time  `json:"startedAt"`
	FinishedAt        *time.Time `json:"finishedAt,omitempty"`
}
