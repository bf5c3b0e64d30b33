package domain

import (
	"sort"
	"time"
)

// MetricCell é o trio sent/delivered/failed de uma campanha em um dia
type MetricCell struct {
	Sent      uint `json:"sent"`
	Delivered uint `json:"delivered"`
	Failed    uint `json:"failed"`
}

// ReportTable é a tabela larga campanha × data. As datas são chaveadas pelo
// dia ISO (yyyy-mm-dd); o rótulo "3 June" só existe na serialização.
type ReportTable struct {
	dates     []string
	campaigns []string
	cells     map[string]map[string]MetricCell
}

func NewReportTable() *ReportTable {
	return &ReportTable{
		cells: make(map[string]map[string]MetricCell),
	}
}

// DateKey converte o dia para a chave interna
func DateKey(day time.Time) string {
	return day.Format(time.DateOnly)
}

// Dates retorna as chaves de data na ordem das colunas
func (t *ReportTable) Dates() []string {
	return append([]string(nil), t.dates...)
}

// Campaigns retorna os nomes de campanha na ordem das linhas
func (t *ReportTable) Campaigns() []string {
	return append([]string(nil), t.campaigns...)
}

// Empty indica uma tabela sem campanhas nem datas
func (t *ReportTable) Empty() bool {
	return len(t.dates) == 0 && len(t.campaigns) == 0
}

func (t *ReportTable) HasDate(key string) bool {
	for _, d := range t.dates {
		if d == key {
			return true
		}
	}
	return false
}

func (t *ReportTable) HasCampaign(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// AddDate inclui a coluna no fim; retorna false se já existia
func (t *ReportTable) AddDate(key string) bool {
	if t.HasDate(key) {
		return false
	}
	t.dates = append(t.dates, key)
	return true
}

// SortDates ordena as colunas cronologicamente
func (t *ReportTable) SortDates() {
	sort.Strings(t.dates)
}

// EnsureCampaign cria a linha da campanha se ainda não existir
func (t *ReportTable) EnsureCampaign(name string) {
	if t.HasCampaign(name) {
		return
	}
	t.campaigns = append(t.campaigns, name)
	t.cells[name] = make(map[string]MetricCell)
}

// Cell retorna a célula e se ela existe
func (t *ReportTable) Cell(campaign, dateKey string) (MetricCell, bool) {
	row, ok := t.cells[campaign]
	if !ok {
		return MetricCell{}, false
	}
	cell, ok := row[dateKey]
	return cell, ok
}

// SetCell grava a célula; a campanha e a data precisam existir
func (t *ReportTable) SetCell(campaign, dateKey string, cell MetricCell) {
	t.EnsureCampaign(campaign)
	t.AddDate(dateKey)
	t.cells[campaign][dateKey] = cell
}

// ClearCell remove o valor de (campanha, data)
func (t *ReportTable) ClearCell(campaign, dateKey string) {
	if row, ok := t.cells[campaign]; ok {
		delete(row, dateKey)
	}
}

// CellCount conta as células preenchidas de uma data
func (t *ReportTable) CellCount(dateKey string) int {
	count := 0
	for _, row := range t.cells {
		if _, ok := row[dateKey]; ok {
			count++
		}
	}
	return count
}
