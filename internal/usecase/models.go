package usecase

import (
	"errors"
	"time"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	IndexRunFinished OutboxEventType = "index_run_finished"
)

// OutboxEvent — событие о завершении прохода, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string // uuid
	EventType   OutboxEventType
	RunID       string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	RunID   string
	Payload []byte
}

// Виды ошибок обработки элемента в итоговом отчете прохода.
const (
	KindInputError        = "input_error"
	KindDecodeError       = "decode_error"
	KindModelUnavailable  = "model_unavailable"
	KindDimensionMismatch = "dimension_mismatch"
	KindStoreUnavailable  = "store_unavailable"
	KindInternalError     = "internal_error"
)

// ErrorKind классифицирует ошибку элемента для отчета прохода.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, e.ErrEmptyText), errors.Is(err, e.ErrMissingItemID):
		return KindInputError
	case errors.Is(err, e.ErrDecodeImage):
		return KindDecodeError
	case errors.Is(err, e.ErrModelUnavailable):
		return KindModelUnavailable
	case errors.Is(err, e.ErrDimensionMismatch):
		return KindDimensionMismatch
	case errors.Is(err, e.ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindInternalError
	}
}

// MAPPERS

func NewOutboxEvent(eventID string, eventType OutboxEventType, runID string, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		RunID:     runID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}
}

func NewWriteRawMessageReq(runID string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		RunID:   runID,
		Payload: payload,
	}
}

func NewItemFailure(itemID string, err error) domain.ItemFailure {
	return domain.ItemFailure{
		ItemID:  itemID,
		Kind:    ErrorKind(err),
		Message: err.Error(),
	}
}
