package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-reporter/internal/domain"
	"github.com/vfg2006/campaign-reporter/pkg/utils"
)

// series cria métricas em dias consecutivos terminando em end
func series(end time.Time, sent ...uint) []domain.DailyMetric {
	metrics := make([]domain.DailyMetric, 0, len(sent))
	start := end.AddDate(0, 0, -(len(sent) - 1))
	for i, s := range sent {
		metrics = append(metrics, domain.DailyMetric{
			CampaignID:   "c1",
			CampaignName: "Promo",
			Date:         start.AddDate(0, 0, i),
			Sent:         s,
		})
	}
	return metrics
}

func TestLongestActiveRun(t *testing.T) {
	end := time.Date(2025, 6, 10, 0, 0, 0, 0, utils.IST)

	tests := []struct {
		name    string
		metrics []domain.DailyMetric
		want    int
	}{
		{name: "sequencia apos zero", metrics: series(end, 1, 0, 2, 3, 4, 5), want: 4},
		{name: "zeros quebram a sequencia", metrics: series(end, 1, 0, 2, 0, 3), want: 1},
		{name: "todos zero", metrics: series(end, 0, 0, 0), want: 0},
		{name: "vazio", metrics: nil, want: 0},
		{
			name: "dia ausente quebra a sequencia",
			metrics: []domain.DailyMetric{
				{Date: end.AddDate(0, 0, -4), Sent: 1},
				{Date: end.AddDate(0, 0, -3), Sent: 1},
				{Date: end.AddDate(0, 0, -1), Sent: 1},
				{Date: end, Sent: 1},
			},
			want: 2,
		},
		{
			name: "ordem de entrada nao importa",
			metrics: []domain.DailyMetric{
				{Date: end, Sent: 3},
				{Date: end.AddDate(0, 0, -2), Sent: 1},
				{Date: end.AddDate(0, 0, -1), Sent: 2},
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestActiveRun(tt.metrics))
		})
	}
}

func TestQualifier_Evaluate(t *testing.T) {
	target := time.Date(2025, 6, 10, 0, 0, 0, 0, utils.IST)
	q := NewQualifier(9, 4, 2)

	tests := []struct {
		name    string
		metrics []domain.DailyMetric
		want    Verdict
	}{
		{name: "quatro dias seguidos qualifica", metrics: series(target, 1, 0, 2, 3, 4, 5), want: VerdictQualified},
		{name: "sequencias curtas nao qualificam", metrics: series(target, 1, 0, 2, 0, 3), want: VerdictNotQualified},
		{name: "menos de dois dias e ignorado", metrics: series(target, 9), want: VerdictSkipped},
		{
			name:    "dias fora da janela nao contam",
			metrics: series(target.AddDate(0, 0, -9), 5, 5, 5, 5, 5),
			want:    VerdictSkipped,
		},
		{
			name:    "sequencia no inicio da janela qualifica",
			metrics: append(series(target.AddDate(0, 0, -5), 1, 1, 1, 1), series(target, 0, 0)...),
			want:    VerdictQualified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, q.Evaluate(tt.metrics, target).Verdict)
		})
	}
}

func TestQualifier_Window(t *testing.T) {
	target := time.Date(2025, 6, 10, 15, 0, 0, 0, utils.IST)
	start, end := NewQualifier(9, 4, 2).Window(target)

	assert.Equal(t, "2025-06-02", domain.DateKey(start))
	assert.Equal(t, "2025-06-10", domain.DateKey(end))
}

func TestQualifiedSet(t *testing.T) {
	set := NewQualifiedSet("A", "B", "A")

	assert.Equal(t, 2, set.Len())
	assert.False(t, set.Add("B"))
	assert.True(t, set.Add("C"))
	assert.False(t, set.Add(""))
	assert.Equal(t, []string{"A", "B", "C"}, set.Names())
	assert.True(t, set.Contains("C"))
	assert.False(t, set.Contains("D"))
}
