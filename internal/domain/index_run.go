package domain

import "time"

// Modality — модальность индексируемых данных.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

// PassState — состояние одного прохода индексации.
type PassState string

const (
	PassNotStarted          PassState = "not_started"
	PassRunning             PassState = "running"
	PassCompleted           PassState = "completed"
	PassCompletedWithErrors PassState = "completed_with_errors"
	PassAborted             PassState = "aborted"
)

// ItemFailure — ошибка обработки одного элемента прохода.
type ItemFailure struct {
	ItemID  string
	Kind    string
	Message string
}

// PassReport — итог прохода: счетчики и список отказов по элементам.
// Attempted = Succeeded + Failed + Skipped.
type PassReport struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
	Failures  []ItemFailure
}

// IndexRun описывает один запуск прохода индексации.
type IndexRun struct {
	ID         string // uuid
	Modality   Modality
	State      PassState
	Report     PassReport
	Error      string // текст фатальной ошибки при State == PassAborted
	StartedAt  time.Time
	FinishedAt *time.Time
}

func NewIndexRun(id string, modality Modality) *IndexRun {
	return &IndexRun{
		ID:        id,
		Modality:  modality,
		State:     PassNotStarted,
		StartedAt: time.Now().UTC(),
	}
}
