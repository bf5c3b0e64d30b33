package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayIST(t *testing.T) {
	// 20:00 UTC já é o dia seguinte em IST
	instant := time.Date(2025, time.June, 2, 20, 0, 0, 0, time.UTC)

	day := DayIST(instant)

	assert.Equal(t, time.Date(2025, time.June, 3, 0, 0, 0, 0, IST), day)
	assert.Equal(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, IST), YesterdayIST(instant))
	assert.Equal(t, "2025-06-03T23:59:59.999+05:30", EndOfDayIST(instant).Format("2006-01-02T15:04:05.000Z07:00"))
}

func TestDaysBetween(t *testing.T) {
	days := DaysBetween(
		time.Date(2025, time.February, 27, 0, 0, 0, 0, IST),
		time.Date(2025, time.March, 2, 0, 0, 0, 0, IST),
	)

	require.Len(t, days, 4)
	assert.Equal(t, 28, days[1].Day())
	assert.Equal(t, time.March, days[2].Month())
	assert.Empty(t, DaysBetween(days[3], days[0]))
}

func TestParseDayDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "meia-noite IST em UTC", value: "2025-06-02T18:30:00.000Z", want: time.Date(2025, time.June, 3, 0, 0, 0, 0, IST)},
		{name: "rfc3339 com offset", value: "2025-06-03T00:00:00+05:30", want: time.Date(2025, time.June, 3, 0, 0, 0, 0, IST)},
		{name: "somente data", value: "2025-06-03", want: time.Date(2025, time.June, 3, 0, 0, 0, 0, IST)},
		{name: "invalido", value: "03/06/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestDateLabel(t *testing.T) {
	assert.Equal(t, "3 June", DateLabel(time.Date(2025, time.June, 3, 0, 0, 0, 0, IST)))
	assert.Equal(t, "31 December", DateLabel(time.Date(2024, time.December, 31, 0, 0, 0, 0, IST)))
}

func TestParseDateLabel(t *testing.T) {
	reference := time.Date(2026, time.January, 5, 0, 0, 0, 0, IST)

	tests := []struct {
		name    string
		label   string
		want    time.Time
		wantErr bool
	}{
		{name: "mesmo ano", label: "3 January", want: time.Date(2026, time.January, 3, 0, 0, 0, 0, IST)},
		{name: "dia da referencia", label: "5 January", want: time.Date(2026, time.January, 5, 0, 0, 0, 0, IST)},
		{name: "um dia depois da referencia", label: "6 January", want: time.Date(2026, time.January, 6, 0, 0, 0, 0, IST)},
		{name: "dois dias depois da referencia", label: "7 January", want: time.Date(2025, time.January, 7, 0, 0, 0, 0, IST)},
		{name: "ano anterior", label: "30 December", want: time.Date(2025, time.December, 30, 0, 0, 0, 0, IST)},
		{name: "mes abreviado", label: "2 Jan", want: time.Date(2026, time.January, 2, 0, 0, 0, 0, IST)},
		{name: "29 de fevereiro sem ano bissexto", label: "29 February", wantErr: true},
		{name: "mes invalido", label: "3 Junho", wantErr: true},
		{name: "formato invalido", label: "June", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateLabel(tt.label, reference)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2025-03-01T10:00:00.123Z")
	require.NoError(t, err)
	assert.Equal(t, 123*time.Millisecond, time.Duration(got.Nanosecond()))

	_, err = ParseTimestamp("ontem")
	assert.Error(t, err)
}
