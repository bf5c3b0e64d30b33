package reporting

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/internal/domain"
	"github.com/vfg2006/campaign-reporter/pkg/utils"
)

const (
	campaignHeader  = "Campaign Name"
	sentHeader      = "Sent"
	deliveredHeader = "Delivered"
	failedHeader    = "Failed"
	columnsPerDate  = 3
)

// Merger incorpora as métricas de um dia na tabela larga
type Merger struct{}

func NewMerger() Merger {
	return Merger{}
}

// Merge grava as métricas do dia alvo para as campanhas qualificadas.
// Células de outros dias não são tocadas. Só campanhas em fetched (busca
// concluída nesta execução) têm a célula do dia substituída; as demais
// mantêm o valor já registrado.
func (Merger) Merge(
	table *domain.ReportTable,
	target time.Time,
	metrics []domain.DailyMetric,
	qualified *QualifiedSet,
	fetched map[string]bool,
	resort bool,
) int {
	key := domain.DateKey(utils.DayIST(target))

	if table.AddDate(key) && resort {
		table.SortDates()
	}

	for _, name := range qualified.Names() {
		table.EnsureCampaign(name)
		if fetched[name] {
			// sem registro no dia a célula fica vazia
			table.ClearCell(name, key)
		}
	}

	written := 0
	for _, m := range metrics {
		if !qualified.Contains(m.CampaignName) || !fetched[m.CampaignName] {
			continue
		}
		if !utils.DayIST(m.Date).Equal(utils.DayIST(target)) {
			continue
		}
		if !m.Consistent() {
			logrus.WithFields(logrus.Fields{
				"campaign_name": m.CampaignName,
				"date":          key,
				"sent":          m.Sent,
				"delivered":     m.Delivered,
				"failed":        m.Failed,
			}).Warn("merger: delivered + failed maior que sent")
		}
		table.SetCell(m.CampaignName, key, domain.MetricCell{
			Sent:      m.Sent,
			Delivered: m.Delivered,
			Failed:    m.Failed,
		})
		written++
	}

	return written
}

// Serialize gera a tabela plana: linha 0 com os rótulos de data (cada um
// ocupando três colunas), linha 1 com os sub-rótulos e uma linha por campanha.
func (Merger) Serialize(table *domain.ReportTable) [][]string {
	dates := table.Dates()
	width := 1 + len(dates)*columnsPerDate

	header := make([]string, width)
	subHeader := make([]string, width)
	header[0] = campaignHeader
	for i, key := range dates {
		col := 1 + i*columnsPerDate
		day, err := time.ParseInLocation(time.DateOnly, key, utils.IST)
		if err != nil {
			header[col] = key
		} else {
			header[col] = utils.DateLabel(day)
		}
		subHeader[col] = sentHeader
		subHeader[col+1] = deliveredHeader
		subHeader[col+2] = failedHeader
	}

	rows := [][]string{header, subHeader}
	for _, name := range table.Campaigns() {
		row := make([]string, width)
		row[0] = name
		for i, key := range dates {
			cell, ok := table.Cell(name, key)
			if !ok {
				continue // "sem dados" fica vazio, diferente de zero
			}
			col := 1 + i*columnsPerDate
			row[col] = strconv.FormatUint(uint64(cell.Sent), 10)
			row[col+1] = strconv.FormatUint(uint64(cell.Delivered), 10)
			row[col+2] = strconv.FormatUint(uint64(cell.Failed), 10)
		}
		rows = append(rows, row)
	}

	return rows
}

// Parse reconstrói a tabela a partir das linhas lidas da planilha. Os rótulos
// sem ano são resolvidos para a data mais recente que não passa de reference.
func (Merger) Parse(rows [][]string, reference time.Time) *domain.ReportTable {
	table := domain.NewReportTable()
	if len(rows) == 0 {
		return table
	}

	header := rows[0]
	columns := make(map[int]string)
	for col := 1; col < len(header); col += columnsPerDate {
		label := strings.TrimSpace(header[col])
		if label == "" {
			continue
		}
		day, err := utils.ParseDateLabel(label, reference)
		if err != nil {
			logrus.WithError(err).WithField("label", label).Warn("merger: rótulo de data ignorado")
			continue
		}
		key := domain.DateKey(day)
		columns[col] = key
		table.AddDate(key)
	}
	table.SortDates()

	dataStart := 1
	if len(rows) > 1 && isSubHeader(rows[1]) {
		dataStart = 2
	}

	for _, row := range rows[dataStart:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		table.EnsureCampaign(name)

		for col, key := range columns {
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				continue
			}
			table.SetCell(name, key, domain.MetricCell{
				Sent:      parseCount(row, col),
				Delivered: parseCount(row, col+1),
				Failed:    parseCount(row, col+2),
			})
		}
	}

	return table
}

// ToCSV converte as linhas para CSV
func (Merger) ToCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isSubHeader(row []string) bool {
	for _, value := range row {
		if strings.EqualFold(strings.TrimSpace(value), sentHeader) {
			return true
		}
	}
	return false
}

func parseCount(row []string, col int) uint {
	if col >= len(row) {
		return 0
	}
	value, err := strconv.ParseUint(strings.TrimSpace(row[col]), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}
