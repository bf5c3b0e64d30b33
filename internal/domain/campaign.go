package domain

import "time"

const (
	CampaignTypeAPI    = "API"
	CampaignStatusLive = "LIVE"
)

// Campaign representa uma campanha listada no painel
type Campaign struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsCandidate indica se a campanha entra no relatório (API, LIVE e criada após o corte)
func (c Campaign) IsCandidate(createdAfter time.Time) bool {
	return c.Type == CampaignTypeAPI &&
		c.Status == CampaignStatusLive &&
		!c.CreatedAt.Before(createdAfter)
}

// DailyMetric são os contadores de um dia (calendário IST) para uma campanha
type DailyMetric struct {
	CampaignID   string    `json:"campaignId"`
	CampaignName string    `json:"campaignName"`
	Date         time.Time `json:"date"`
	Sent         uint      `json:"sent"`
	Delivered    uint      `json:"delivered"`
	Read         uint      `json:"read"`
	Failed       uint      `json:"failed"`
}

// Consistent verifica delivered + failed <= sent
func (m DailyMetric) Consistent() bool {
	return m.Delivered+m.Failed <= m.Sent
}

// CampaignDetail é o resultado por campanha devolvido pelos endpoints e enviado no CSV
type CampaignDetail struct {
	CampaignName string    `json:"campaignName"`
	CampaignID   string    `json:"campaignId"`
	Sent         uint      `json:"sent"`
	Delivered    uint      `json:"delivered"`
	Read         uint      `json:"read"`
	Failed       uint      `json:"failed"`
	Qualified    bool      `json:"qualified"`
	Timestamp    time.Time `json:"timestamp"`
	Note         string    `json:"note,omitempty"`
	Error        string    `json:"error,omitempty"`
}
