package converter

import (
	"encoding/json"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/internal/usecase"
)

// failureModel — элемент jsonb-массива failures в index_runs
type failureModel struct {
	ItemID  string `json:"item_id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// IndexRunConverter преобразует сущности IndexRun между domain и моделью
// PostgreSQL. Список отказов сериализуется в jsonb.
type IndexRunConverter struct{}

func (IndexRunConverter) ToModel(entity *domain.IndexRun) (*IndexRunModel, error) {
	failures := make([]failureModel, 0, len(entity.Report.Failures))
	for _, f := range entity.Report.Failures {
		failures = append(failures, failureModel{
			ItemID:  f.ItemID,
			Kind:    f.Kind,
			Message: f.Message,
		})
	}

	raw, err := json.Marshal(failures)
	if err != nil {
		return nil, err
	}

	model := &IndexRunModel{
		ID:         entity.ID,
		Modality:   string(entity.Modality),
		State:      string(entity.State),
		Attempted:  entity.Report.Attempted,
		Succeeded:  entity.Report.Succeeded,
		Failed:     entity.Report.Failed,
		Skipped:    entity.Report.Skipped,
		Failures:   raw,
		StartedAt:  entity.StartedAt,
		FinishedAt: entity.FinishedAt,
	}
	if entity.Error != "" {
		model.Error = &entity.Error
	}

	return model, nil
}

func (IndexRunConverter) ToEntity(model *IndexRunModel) (*domain.IndexRun, error) {
	var failures []failureModel
	if len(model.Failures) > 0 {
		if err := json.Unmarshal(model.Failures, &failures); err != nil {
			return nil, err
		}
	}

	entity := &domain.IndexRun{
		ID:       model.ID,
		Modality: domain.Modality(model.Modality),
		State:    domain.PassState(model.State),
		Report: domain.PassReport{
			Attempted: model.Attempted,
			Succeeded: model.Succeeded,
			Failed:    model.Failed,
			Skipped:   model.Skipped,
		},
		StartedAt:  model.StartedAt,
		FinishedAt: model.FinishedAt,
	}
	if model.Error != nil {
		entity.Error = *model.Error
	}

	for _, f := range failures {
		entity.Report.Failures = append(entity.Report.Failures, domain.ItemFailure{
			ItemID:  f.ItemID,
			Kind:    f.Kind,
			Message: f.Message,
		})
	}

	return entity, nil
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и
// моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		RunID:       entity.RunID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		RunID:       model.RunID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	entities := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		entities = append(entities, c.ToEntity(model))
	}
	return entities
}
