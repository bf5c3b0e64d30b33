package aisensy

import (
	"github.com/sirupsen/logrus"
	aisensydomain "github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy/domain"
	"github.com/vfg2006/campaign-reporter/internal/domain"
	"github.com/vfg2006/campaign-reporter/pkg/utils"
)

func FactoryCampaign(c aisensydomain.Campaign) domain.Campaign {
	campaign := domain.Campaign{
		ID:     c.ID,
		Name:   c.Name,
		Type:   c.Type,
		Status: c.Status,
	}

	if c.CreatedAt != "" {
		createdAt, err := utils.ParseTimestamp(c.CreatedAt)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"campaign_id": c.ID,
				"created_at":  c.CreatedAt,
			}).Warn("aisensy: createdAt inválido")
		}
		campaign.CreatedAt = createdAt
	}

	return campaign
}

// FactoryDailyMetrics converte os chats em métricas diárias. Chats com
// dayDate inválido são descartados.
func FactoryDailyMetrics(campaign domain.Campaign, chats []aisensydomain.Chat) []domain.DailyMetric {
	metrics := make([]domain.DailyMetric, 0, len(chats))
	for _, chat := range chats {
		day, err := utils.ParseDayDate(chat.DayDate)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"campaign_id": campaign.ID,
				"day_date":    chat.DayDate,
			}).Warn("aisensy: chat ignorado, dayDate inválido")
			continue
		}

		metrics = append(metrics, domain.DailyMetric{
			CampaignID:   campaign.ID,
			CampaignName: campaign.Name,
			Date:         day,
			Sent:         chat.Sent,
			Delivered:    chat.Delivered,
			Read:         chat.Read,
			Failed:       chat.Failed,
		})
	}
	return metrics
}
