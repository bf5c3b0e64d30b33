package aisensy

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy/aisensyclient"
	aisensydomain "github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy/domain"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/internal/domain"
	"github.com/vfg2006/campaign-reporter/pkg/utils"
)

const (
	rowsPerPage = 100
	tabTypeAll  = "all"
)

// SessionRunner executa chamadas autenticadas aplicando a política de 401
type SessionRunner interface {
	WithSession(ctx context.Context, call func(ctx context.Context, token string) error) error
}

type AiSensyIntegrator struct {
	assistantID string
	Client      aisensyclient.Client
	Sessions    SessionRunner
}

func New(cfg *config.Config, client aisensyclient.Client, sessions SessionRunner) *AiSensyIntegrator {
	return &AiSensyIntegrator{
		assistantID: cfg.AiSensy.AssistantID,
		Client:      client,
		Sessions:    sessions,
	}
}

// ListCampaigns percorre todas as páginas. Para quando o total foi atingido
// ou quando newSkip não avança.
func (s *AiSensyIntegrator) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if s.assistantID == "" {
		return nil, ErrMissingAssistantID
	}

	campaigns := make([]domain.Campaign, 0)
	seen := make(map[string]bool)
	skip := 0

	for {
		logrus.WithFields(logrus.Fields{
			"skip":          skip,
			"rows_per_page": rowsPerPage,
		}).Debug("aisensy: fetching campaigns page")

		var page *aisensydomain.ListCampaignsResponse
		err := s.Sessions.WithSession(ctx, func(ctx context.Context, token string) error {
			var err error
			page, err = s.Client.ListCampaigns(ctx, token, aisensydomain.ListCampaignsRequest{
				AssistantID: s.assistantID,
				Skip:        skip,
				RowsPerPage: rowsPerPage,
				NameQuery:   "",
				TabType:     tabTypeAll,
			})
			return err
		})
		if err != nil {
			return nil, err
		}

		if page == nil || page.Campaigns == nil {
			logrus.WithField("skip", skip).Error("aisensy: resposta sem o campo campaigns")
			return nil, ErrInvalidCampaignList
		}

		for _, c := range *page.Campaigns {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			campaigns = append(campaigns, FactoryCampaign(c))
		}

		if len(campaigns) >= page.TotalCampaigns {
			break
		}
		if page.NewSkip <= skip {
			logrus.WithFields(logrus.Fields{
				"skip":     skip,
				"new_skip": page.NewSkip,
				"fetched":  len(campaigns),
				"total":    page.TotalCampaigns,
			}).Warn("aisensy: paginação não avançou, encerrando listagem")
			break
		}
		skip = page.NewSkip
	}

	logrus.WithField("total_campaigns", len(campaigns)).Info("aisensy: campanhas listadas")
	return campaigns, nil
}

// FetchCampaignMetrics busca as contagens diárias de [from, to]. Sem chats o
// resultado é vazio, não um erro.
func (s *AiSensyIntegrator) FetchCampaignMetrics(ctx context.Context, campaign domain.Campaign, from, to time.Time) ([]domain.DailyMetric, error) {
	req := aisensydomain.CampaignChatsRequest{
		AssistantID: s.assistantID,
		CampaignID:  campaign.ID,
		FromDate:    utils.DayIST(from).UTC().Format(time.RFC3339Nano),
		ToDate:      utils.EndOfDayIST(to).UTC().Format(time.RFC3339Nano),
	}

	var res *aisensydomain.CampaignChatsResponse
	err := s.Sessions.WithSession(ctx, func(ctx context.Context, token string) error {
		var err error
		res, err = s.Client.GetCampaignChats(ctx, token, req)
		return err
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"campaign_id":   campaign.ID,
			"campaign_name": campaign.Name,
			"error":         err.Error(),
		}).Error("aisensy: failed to get campaign chats")
		return nil, err
	}

	if res == nil || len(res.Chats) == 0 {
		return []domain.DailyMetric{}, nil
	}

	return FactoryDailyMetrics(campaign, res.Chats), nil
}

// FilterCandidates mantém campanhas API, LIVE e criadas a partir de createdAfter
func FilterCandidates(campaigns []domain.Campaign, createdAfter time.Time) []domain.Campaign {
	candidates := make([]domain.Campaign, 0)
	for _, c := range campaigns {
		if c.IsCandidate(createdAfter) {
			candidates = append(candidates, c)
		}
	}
	return candidates
}
