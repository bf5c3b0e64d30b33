package reporting

import (
	"sort"
	"time"

	"github.com/vfg2006/campaign-reporter/internal/domain"
	"github.com/vfg2006/campaign-reporter/pkg/utils"
)

// Verdict é a decisão da qualificação para uma campanha
type Verdict int

const (
	VerdictNotQualified Verdict = iota
	VerdictQualified
	VerdictSkipped // menos dias com métricas do que o mínimo
)

func (v Verdict) String() string {
	switch v {
	case VerdictQualified:
		return "qualified"
	case VerdictSkipped:
		return "skipped"
	default:
		return "not_qualified"
	}
}

// QualificationResult traz a decisão e a maior sequência encontrada
type QualificationResult struct {
	Verdict    Verdict
	LongestRun int
	MetricDays int
}

// Qualifier aplica a regra de dias consecutivos com envio
type Qualifier struct {
	LookbackDays       int
	MinConsecutiveDays int
	MinMetricDays      int
}

func NewQualifier(lookbackDays, minConsecutiveDays, minMetricDays int) Qualifier {
	return Qualifier{
		LookbackDays:       lookbackDays,
		MinConsecutiveDays: minConsecutiveDays,
		MinMetricDays:      minMetricDays,
	}
}

// Window retorna o primeiro e o último dia da janela que termina em target
func (q Qualifier) Window(target time.Time) (time.Time, time.Time) {
	end := utils.DayIST(target)
	start := end.AddDate(0, 0, -(q.LookbackDays - 1))
	return start, end
}

// Evaluate decide se a campanha se qualifica na janela que termina em target.
// Métricas fora da janela são ignoradas.
func (q Qualifier) Evaluate(metrics []domain.DailyMetric, target time.Time) QualificationResult {
	start, end := q.Window(target)

	inWindow := make([]domain.DailyMetric, 0, len(metrics))
	seen := make(map[string]bool)
	for _, m := range metrics {
		day := utils.DayIST(m.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		key := domain.DateKey(day)
		if seen[key] {
			continue
		}
		seen[key] = true
		m.Date = day
		inWindow = append(inWindow, m)
	}

	result := QualificationResult{MetricDays: len(inWindow)}
	if len(inWindow) < q.MinMetricDays {
		result.Verdict = VerdictSkipped
		return result
	}

	result.LongestRun = LongestActiveRun(inWindow)
	if result.LongestRun >= q.MinConsecutiveDays {
		result.Verdict = VerdictQualified
	}

	return result
}

// LongestActiveRun retorna a maior sequência de dias calendário consecutivos
// com sent > 0. Um dia com sent == 0 ou um dia ausente zera o contador.
func LongestActiveRun(metrics []domain.DailyMetric) int {
	sorted := append([]domain.DailyMetric(nil), metrics...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	longest, current := 0, 0
	var previous time.Time
	for i, m := range sorted {
		day := utils.DayIST(m.Date)
		if i > 0 && !day.Equal(previous.AddDate(0, 0, 1)) {
			current = 0
		}
		previous = day

		if m.Sent == 0 {
			current = 0
			continue
		}

		current++
		if current > longest {
			longest = current
		}
	}

	return longest
}

// QualifiedSet é o conjunto de campanhas que já se qualificaram alguma vez.
// Só cresce.
type QualifiedSet struct {
	names map[string]struct{}
	order []string
}

func NewQualifiedSet(names ...string) *QualifiedSet {
	s := &QualifiedSet{names: make(map[string]struct{})}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inclui a campanha; retorna true se for nova
func (s *QualifiedSet) Add(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

func (s *QualifiedSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s *QualifiedSet) Len() int {
	return len(s.order)
}

// Names retorna as campanhas na ordem em que entraram no conjunto
func (s *QualifiedSet) Names() []string {
	return append([]string(nil), s.order...)
}
