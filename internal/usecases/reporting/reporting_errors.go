package reporting

import (
	"errors"
	"fmt"
)

var (
	ErrRunInProgress     = errors.New("já existe uma execução do relatório em andamento")
	ErrInvalidDateRange  = errors.New("intervalo de datas inválido")
	ErrDateRangeTooLarge = errors.New("intervalo de datas maior que o permitido")
)

// Etapas do pipeline, usadas para contextualizar erros
const (
	StageSession    = "session"
	StageListing    = "listing"
	StageFiltering  = "filtering"
	StageFetching   = "fetching"
	StageMerging    = "merging"
	StagePublishing = "publishing"
)

// RunError é um erro que aborta a execução, com a etapa em que ocorreu
type RunError struct {
	Err   error
	Stage string
	RunID string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("execução %s falhou na etapa %s: %s", e.RunID, e.Stage, e.Err.Error())
}

func (e *RunError) Unwrap() error {
	return e.Err
}

func newRunError(runID, stage string, err error) error {
	return &RunError{Err: err, Stage: stage, RunID: runID}
}

// PublishError registra a falha de um destino sem abortar a execução
type PublishError struct {
	Sink string `json:"sink"`
	Err  string `json:"error"`
}
