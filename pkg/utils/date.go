package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IST é o fuso usado pelo painel para agrupar os dias (UTC+05:30)
var IST = time.FixedZone("IST", 5*60*60+30*60)

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.ParseInLocation(time.DateOnly, dateStr, IST)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// DayIST trunca o instante para o início do dia calendário em IST
func DayIST(t time.Time) time.Time {
	t = t.In(IST)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, IST)
}

// YesterdayIST retorna o dia anterior (IST) ao instante informado
func YesterdayIST(now time.Time) time.Time {
	return DayIST(now).AddDate(0, 0, -1)
}

// EndOfDayIST retorna o último instante do dia IST
func EndOfDayIST(day time.Time) time.Time {
	return DayIST(day).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// DaysBetween retorna os dias de from até to, inclusive
func DaysBetween(from, to time.Time) []time.Time {
	from, to = DayIST(from), DayIST(to)
	days := make([]time.Time, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ParseTimestamp interpreta um instante ISO8601 do upstream
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp inválido: %q", value)
}

// ParseDayDate interpreta o dayDate do upstream e converte para o dia IST
func ParseDayDate(value string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return DayIST(t), nil
		}
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, IST); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("dayDate inválido: %q", value)
}

// DateLabel formata o rótulo de exibição "3 June"
func DateLabel(day time.Time) string {
	day = day.In(IST)
	return fmt.Sprintf("%d %s", day.Day(), day.Month().String())
}

// ParseDateLabel resolve um rótulo sem ano para a data mais recente que não
// passa de reference + 1 dia. A folga cobre a virada do dia entre fusos.
func ParseDateLabel(label string, reference time.Time) (time.Time, error) {
	parts := strings.Fields(label)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("rótulo de data inválido: %q", label)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("dia inválido no rótulo %q", label)
	}

	month, ok := parseMonth(parts[1])
	if !ok {
		return time.Time{}, fmt.Errorf("mês inválido no rótulo %q", label)
	}

	limit := DayIST(reference).AddDate(0, 0, 1)
	for year := limit.Year(); year >= limit.Year()-1; year-- {
		candidate := time.Date(year, month, day, 0, 0, 0, 0, IST)
		// time.Date normaliza 31 de fevereiro para março
		if candidate.Day() != day {
			continue
		}
		if !candidate.After(limit) {
			return candidate, nil
		}
	}

	return time.Time{}, fmt.Errorf("não foi possível resolver o rótulo %q", label)
}

func parseMonth(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) || strings.EqualFold(m.String()[:3], name) {
			return m, true
		}
	}
	return 0, false
}
