package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/infrastructure/sink"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/pkg/telemetry"
	"golang.org/x/oauth2/google"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	Name           = "sheets"
	scope          = "https://www.googleapis.com/auth/spreadsheets"
	requestTimeout = 60 * time.Second
	lastColumn     = "ZZZ"
)

type valueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values"`
}

// Publisher lê e sobrescreve a aba do relatório na planilha
type Publisher struct {
	client        *resty.Client
	apiURL        string
	spreadsheetID string
	sheetRange    string
	configured    bool
}

// New autentica com a conta de serviço de GOOGLE_CREDENTIALS_FILE. Sem
// planilha ou credenciais o publisher existe mas responde ErrNotConfigured.
func New(ctx context.Context, cfg *config.Config) (*Publisher, error) {
	if cfg.Sheets.SpreadsheetID == "" || cfg.Sheets.CredentialsFile == "" {
		logrus.Warn("sheets: SPREADSHEET_ID ou GOOGLE_CREDENTIALS_FILE ausente, destino desativado")
		return &Publisher{}, nil
	}

	credentials, err := os.ReadFile(cfg.Sheets.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("sheets: erro ao ler credenciais: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentials, scope)
	if err != nil {
		return nil, fmt.Errorf("sheets: credenciais inválidas: %w", err)
	}

	return NewWithHTTPClient(jwtConfig.Client(ctx), cfg.Sheets.APIURL, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range), nil
}

func NewWithHTTPClient(httpClient *http.Client, apiURL, spreadsheetID, sheetRange string) *Publisher {
	client := resty.NewWithClient(httpClient).SetTimeout(requestTimeout)
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	telemetry.InstrumentResty(client, "sink/sheets")

	if sheetRange == "" {
		sheetRange = "Sheet1"
	}

	return &Publisher{
		client:        client,
		apiURL:        strings.TrimRight(apiURL, "/"),
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
		configured:    true,
	}
}

func (p *Publisher) Name() string {
	return Name
}

func (p *Publisher) valuesURL(suffix string) string {
	return fmt.Sprintf("%s/spreadsheets/%s/values/%s%s",
		p.apiURL, url.PathEscape(p.spreadsheetID), url.PathEscape(p.sheetRange), suffix)
}

// ReadAll devolve todas as linhas da aba; aba vazia retorna nil
func (p *Publisher) ReadAll(ctx context.Context) ([][]string, error) {
	if !p.configured {
		return nil, sink.ErrNotConfigured
	}

	res, err := p.client.R().SetContext(ctx).Get(p.valuesURL(""))
	if err != nil {
		return nil, fmt.Errorf("sheets: leitura: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("sheets: leitura respondeu %d: %s", res.StatusCode(), res.String())
	}

	var out valueRange
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return nil, fmt.Errorf("sheets: resposta inválida: %w", err)
	}

	return out.Values, nil
}

// Publish grava a tabela a partir de A1 e só depois limpa o que sobrou da
// versão anterior (linhas abaixo e colunas à direita). Uma falha no meio do
// caminho nunca deixa a aba vazia.
func (p *Publisher) Publish(ctx context.Context, report sink.Report) error {
	if !p.configured {
		return sink.ErrNotConfigured
	}

	res, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("valueInputOption", "RAW").
		SetBody(valueRange{Range: p.sheetRange, MajorDimension: "ROWS", Values: report.Rows}).
		Put(p.valuesURL(""))
	if err != nil {
		return fmt.Errorf("sheets: update: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("sheets: update respondeu %d: %s", res.StatusCode(), res.String())
	}

	res, err = p.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"ranges": p.trailingRanges(report.Rows)}).
		Post(fmt.Sprintf("%s/spreadsheets/%s/values:batchClear", p.apiURL, url.PathEscape(p.spreadsheetID)))
	if err != nil {
		return fmt.Errorf("sheets: clear: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("sheets: clear respondeu %d: %s", res.StatusCode(), res.String())
	}

	logrus.WithFields(logrus.Fields{
		"run_id": report.RunID,
		"rows":   len(report.Rows),
	}).Info("sheets: planilha atualizada")

	return nil
}

// trailingRanges cobre tudo fora do retângulo recém-gravado
func (p *Publisher) trailingRanges(rows [][]string) []string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	sheet := p.sheetName()
	return []string{
		fmt.Sprintf("%s!A%d:%s", sheet, len(rows)+1, lastColumn),
		fmt.Sprintf("%s!%s1:%s", sheet, columnName(width+1), lastColumn),
	}
}

func (p *Publisher) sheetName() string {
	name, _, _ := strings.Cut(p.sheetRange, "!")
	if strings.ContainsAny(name, " '") && !strings.HasPrefix(name, "'") {
		name = "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}

// columnName converte o índice 1-based para a notação A1 (1 -> A, 27 -> AA)
func columnName(index int) string {
	name := ""
	for index > 0 {
		index--
		name = string(rune('A'+index%26)) + name
		index /= 26
	}
	return name
}
