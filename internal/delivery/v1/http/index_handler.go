package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/internal/usecase"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
	"github.com/DRSN-tech/indexer-backend/pkg/logger"
)

// IndexHandler обслуживает запуск проходов индексации и просмотр их итогов.
// Проходы выполняются в фоне на контексте жизни приложения, а не запроса:
// обрыв HTTP-соединения не прерывает индексацию.
type IndexHandler struct {
	indexerUsecase usecase.IndexerUC
	shutdownCtx    context.Context
	logger         logger.Logger
}

func NewIndexHandler(indexerUsecase usecase.IndexerUC, shutdownCtx context.Context, logger logger.Logger) *IndexHandler {
	return &IndexHandler{
		indexerUsecase: indexerUsecase,
		shutdownCtx:    shutdownCtx,
		logger:         logger,
	}
}

type StartPassResponse struct {
	RunID string `json:"run_id"`
}

type StartIndexResponse struct {
	RunIDs map[string]string `json:"run_ids"`
}

type ItemFailureResponse struct {
	ItemID  string `json:"item_id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ReportResponse struct {
	Attempted int                   `json:"attempted"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	Skipped   int                   `json:"skipped"`
	Failures  []ItemFailureResponse `json:"failures,omitempty"`
}

type RunResponse struct {
	ID         string         `json:"id"`
	Modality   string         `json:"modality"`
	State      string         `json:"state"`
	Report     ReportResponse `json:"report"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// startTextPass
//
//	@Summary		Запуск текстового прохода индексации
//	@Description	Запускает фоновый проход по текстовому фиду каталога
//	@Tags			index
//	@Produce		json
//	@Success		202	{object}	StartPassResponse	"Проход запущен"
//	@Failure		409	{object}	ErrorResponse		"Проход уже идет"
//	@Router			/index/text [post]
func (h *IndexHandler) startTextPass(w http.ResponseWriter, r *http.Request) {
	h.startPass(w, domain.ModalityText)
}

// startImagePass
//
//	@Summary		Запуск прохода индексации изображений
//	@Description	Запускает фоновый проход по источнику изображений каталога
//	@Tags			index
//	@Produce		json
//	@Success		202	{object}	StartPassResponse	"Проход запущен"
//	@Failure		409	{object}	ErrorResponse		"Проход уже идет"
//	@Router			/index/image [post]
func (h *IndexHandler) startImagePass(w http.ResponseWriter, r *http.Request) {
	h.startPass(w, domain.ModalityImage)
}

// startFullIndex
//
//	@Summary		Запуск полной индексации
//	@Description	Запускает текстовый проход и проход по изображениям параллельно
//	@Tags			index
//	@Produce		json
//	@Success		202	{object}	StartIndexResponse	"Проходы запущены"
//	@Failure		409	{object}	ErrorResponse		"Оба прохода уже идут"
//	@Router			/index [post]
func (h *IndexHandler) startFullIndex(w http.ResponseWriter, r *http.Request) {
	runIDs := make(map[string]string, 2)
	var lastErr error

	for _, modality := range []domain.Modality{domain.ModalityText, domain.ModalityImage} {
		runID, err := h.indexerUsecase.StartPass(h.shutdownCtx, modality)
		if err != nil {
			h.logger.Warnf("failed to start %s pass: %v", modality, err)
			lastErr = err
			continue
		}
		runIDs[string(modality)] = runID
	}

	if len(runIDs) == 0 {
		WriteError(w, lastErr)
		return
	}

	WriteSuccess(w, http.StatusAccepted, StartIndexResponse{RunIDs: runIDs})
}

// getRun
//
//	@Summary		Итог прохода индексации
//	@Description	Возвращает состояние и отчет прохода по идентификатору
//	@Tags			runs
//	@Produce		json
//	@Param			id	path		string			true	"Идентификатор запуска"
//	@Success		200	{object}	RunResponse		"Найденный запуск"
//	@Failure		404	{object}	ErrorResponse	"Запуск не найден"
//	@Router			/runs/{id} [get]
func (h *IndexHandler) getRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.indexerUsecase.GetRun(r.Context(), id)
	if err != nil {
		h.logger.Warnf("get run %s failed: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRunResponse(run))
}

// listRuns
//
//	@Summary		Список запусков индексации
//	@Description	Возвращает последние запуски, от новых к старым
//	@Tags			runs
//	@Produce		json
//	@Param			limit	query		int				false	"Максимум записей (по умолчанию 20)"
//	@Success		200		{array}		RunResponse		"Список запусков"
//	@Failure		500		{object}	ErrorResponse	"Внутренняя ошибка"
//	@Router			/runs [get]
func (h *IndexHandler) listRuns(w http.ResponseWriter, r *http.Request) {
	const defaultLimit = 20

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.logger.Warnf("invalid limit %q", raw)
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.indexerUsecase.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Warnf("list runs failed: %v", err)
		WriteError(w, err)
		return
	}

	result := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		result = append(result, toRunResponse(run))
	}

	WriteSuccess(w, http.StatusOK, result)
}

func (h *IndexHandler) startPass(w http.ResponseWriter, modality domain.Modality) {
	runID, err := h.indexerUsecase.StartPass(h.shutdownCtx, modality)
	if err != nil {
		h.logger.Warnf("failed to start %s pass: %v", modality, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusAccepted, StartPassResponse{RunID: runID})
}

func toRunResponse(run *domain.IndexRun) RunResponse {
	failures := make([]ItemFailureResponse, 0, len(run.Report.Failures))
	for _, failure := range run.Report.Failures {
		failures = append(failures, ItemFailureResponse{
			ItemID:  failure.ItemID,
			Kind:    failure.Kind,
			Message: failure.Message,
		})
	}

	return RunResponse{
		ID:       run.ID,
		Modality: string(run.Modality),
		State:    string(run.State),
		Report: ReportResponse{
			Attempted: run.Report.Attempted,
			Succeeded: run.Report.Succeeded,
			Failed:    run.Report.Failed,
			Skipped:   run.Report.Skipped,
			Failures:  failures,
		},
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}
