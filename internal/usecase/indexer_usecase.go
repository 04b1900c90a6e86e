package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/indexer-backend/internal/cfg"
	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
	"github.com/DRSN-tech/indexer-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IndexerUseCase реализует пайплайн индексации каталога: два независимых
// прохода (текст и изображения), каждый обрабатывает элементы последовательно.
// Ошибка отдельного элемента не прерывает проход: элемент пропускается,
// отказ попадает в итоговый отчет. Проход прерывается целиком только
// при фатальной ошибке вне элемента (хранилище недоступно на старте,
// фид каталога не читается).
type IndexerUseCase struct {
	catalogRepo CatalogRepository
	imageSource ImageSource
	textGen     TextGeneratorInfra
	imageGen    ImageGeneratorInfra
	store       VectorStore
	runRepo     IndexRunRepository
	outboxRepo  OutboxRepository
	fpRepo      FingerprintRepository
	producer    MessageProducer
	dbPool      transaction.Transactional
	cfg         *cfg.IndexerCfg
	logger      logger.Logger

	mu      sync.Mutex
	running map[domain.Modality]bool
	active  map[string]*domain.IndexRun
}

func NewIndexerUC(
	catalogRepo CatalogRepository,
	imageSource ImageSource,
	textGen TextGeneratorInfra,
	imageGen ImageGeneratorInfra,
	store VectorStore,
	runRepo IndexRunRepository,
	outboxRepo OutboxRepository,
	fpRepo FingerprintRepository,
	producer MessageProducer,
	dbPool transaction.Transactional,
	cfg *cfg.IndexerCfg,
	logger logger.Logger,
) *IndexerUseCase {
	return &IndexerUseCase{
		catalogRepo: catalogRepo,
		imageSource: imageSource,
		textGen:     textGen,
		imageGen:    imageGen,
		store:       store,
		runRepo:     runRepo,
		outboxRepo:  outboxRepo,
		fpRepo:      fpRepo,
		producer:    producer,
		dbPool:      dbPool,
		cfg:         cfg,
		logger:      logger,
		running:     make(map[domain.Modality]bool),
		active:      make(map[string]*domain.IndexRun),
	}
}

// RunTextPass выполняет текстовый проход: для каждой записи каталога строит
// составной текст, получает вектор и делает upsert в текстовую коллекцию.
// Порядок обработки = порядок фида; при дублях ID побеждает поздняя запись
// за счет upsert-семантики.
func (i *IndexerUseCase) RunTextPass(ctx context.Context) (*domain.IndexRun, error) {
	const op = "IndexerUseCase.RunTextPass"

	run, err := i.beginRun(domain.ModalityText)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return i.runTextPass(ctx, run)
}

func (i *IndexerUseCase) runTextPass(ctx context.Context, run *domain.IndexRun) (*domain.IndexRun, error) {
	const op = "IndexerUseCase.RunTextPass"

	if err := i.store.GetOrCreateCollection(ctx, i.cfg.TextCollection); err != nil {
		return i.abortRun(ctx, run, e.Wrap(op, err))
	}

	items, err := i.catalogRepo.ListItems(ctx)
	if err != nil {
		return i.abortRun(ctx, run, e.Wrap(op, err))
	}

	for idx := range items {
		item := &items[idx]

		skipped, err := i.indexTextItem(ctx, item)
		i.recordOutcome(run, item.ID, skipped, err)
		if err != nil {
			i.logger.Warnf("text item failed, id: %s, kind: %s, error: %v", item.ID, ErrorKind(err), err)
		}
	}

	return i.finishRun(ctx, run), nil
}

// RunImagePass выполняет проход по изображениям: обходит источник изображений,
// получает вектор каждого изображения и делает upsert в коллекцию изображений.
func (i *IndexerUseCase) RunImagePass(ctx context.Context) (*domain.IndexRun, error) {
	const op = "IndexerUseCase.RunImagePass"

	run, err := i.beginRun(domain.ModalityImage)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return i.runImagePass(ctx, run)
}

func (i *IndexerUseCase) runImagePass(ctx context.Context, run *domain.IndexRun) (*domain.IndexRun, error) {
	const op = "IndexerUseCase.RunImagePass"

	if err := i.store.GetOrCreateCollection(ctx, i.cfg.ImageCollection); err != nil {
		return i.abortRun(ctx, run, e.Wrap(op, err))
	}

	walkErr := i.imageSource.Walk(ctx, func(asset *domain.ImageAsset) error {
		skipped, err := i.indexImageAsset(ctx, asset)
		i.recordOutcome(run, asset.ImageID, skipped, err)
		if err != nil {
			i.logger.Warnf("image asset failed, id: %s, kind: %s, error: %v", asset.ImageID, ErrorKind(err), err)
		}

		return nil
	})
	if walkErr != nil {
		return i.abortRun(ctx, run, e.Wrap(op, walkErr))
	}

	return i.finishRun(ctx, run), nil
}

// StartPass запускает проход в фоне и сразу возвращает идентификатор запуска.
// Проход живет на переданном контексте: отмена контекста прерывает обход,
// но не откатывает уже записанные векторы.
func (i *IndexerUseCase) StartPass(ctx context.Context, modality domain.Modality) (string, error) {
	const op = "IndexerUseCase.StartPass"

	if modality != domain.ModalityText && modality != domain.ModalityImage {
		return "", e.Wrap(op, e.ErrUnknownModality)
	}

	run, err := i.beginRun(modality)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	go func() {
		switch modality {
		case domain.ModalityText:
			_, _ = i.runTextPass(ctx, run)
		case domain.ModalityImage:
			_, _ = i.runImagePass(ctx, run)
		}
	}()

	return run.ID, nil
}

// GetRun возвращает проход по идентификатору: сначала активные, затем сохраненные.
func (i *IndexerUseCase) GetRun(ctx context.Context, id string) (*domain.IndexRun, error) {
	const op = "IndexerUseCase.GetRun"

	i.mu.Lock()
	if run, ok := i.active[id]; ok {
		snapshot := *run
		// копия среза отказов: проход продолжает дописывать в оригинал
		snapshot.Report.Failures = append([]domain.ItemFailure(nil), run.Report.Failures...)
		i.mu.Unlock()
		return &snapshot, nil
	}
	i.mu.Unlock()

	run, err := i.runRepo.Get(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return run, nil
}

func (i *IndexerUseCase) ListRuns(ctx context.Context, limit int) ([]*domain.IndexRun, error) {
	const op = "IndexerUseCase.ListRuns"

	runs, err := i.runRepo.List(ctx, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return runs, nil
}

// indexTextItem обрабатывает одну запись каталога.
// Возвращает skipped=true, если запись не изменилась с прошлого прохода.
func (i *IndexerUseCase) indexTextItem(ctx context.Context, item *domain.CatalogItem) (bool, error) {
	if strings.TrimSpace(item.ID) == "" {
		return false, e.ErrMissingItemID
	}
	if strings.TrimSpace(item.Description) == "" {
		return false, e.ErrEmptyText
	}

	composite := item.CompositeText()
	fp := fingerprint([]byte(composite))

	if i.cfg.SkipUnchanged {
		if known, err := i.fpRepo.Get(ctx, domain.ModalityText, item.ID); err == nil && known == fp {
			return true, nil
		}
	}

	vector, err := i.textGen.Generate(ctx, composite)
	if err != nil {
		return false, err
	}

	entry := domain.NewIndexEntry(item.ID, vector, domain.NewTextMetadata(item), composite)
	if err := i.store.Upsert(ctx, i.cfg.TextCollection, entry); err != nil {
		return false, err
	}

	i.saveFingerprint(ctx, domain.ModalityText, item.ID, fp)

	return false, nil
}

// indexImageAsset обрабатывает одно изображение каталога.
func (i *IndexerUseCase) indexImageAsset(ctx context.Context, asset *domain.ImageAsset) (bool, error) {
	if strings.TrimSpace(asset.ImageID) == "" {
		return false, e.ErrMissingItemID
	}

	fp := fingerprint(asset.Bytes)

	if i.cfg.SkipUnchanged {
		if known, err := i.fpRepo.Get(ctx, domain.ModalityImage, asset.ImageID); err == nil && known == fp {
			return true, nil
		}
	}

	vector, err := i.imageGen.Generate(ctx, asset.Bytes)
	if err != nil {
		return false, err
	}

	entry := domain.NewIndexEntry(asset.ImageID, vector, domain.NewImageMetadata(asset), "")
	if err := i.store.Upsert(ctx, i.cfg.ImageCollection, entry); err != nil {
		return false, err
	}

	i.saveFingerprint(ctx, domain.ModalityImage, asset.ImageID, fp)

	return false, nil
}

// recordOutcome фиксирует итог обработки одного элемента в отчете прохода.
// Отчет мутируется только здесь и только под мьютексом: GetRun снимает
// снимок активного прохода конкурентно с проходом.
func (i *IndexerUseCase) recordOutcome(run *domain.IndexRun, itemID string, skipped bool, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	run.Report.Attempted++
	switch {
	case err != nil:
		run.Report.Failed++
		run.Report.Failures = append(run.Report.Failures, NewItemFailure(itemID, err))
	case skipped:
		run.Report.Skipped++
	default:
		run.Report.Succeeded++
	}
}

// beginRun регистрирует новый проход, не допуская двух одновременных
// проходов одной модальности. Проходы разных модальностей независимы
// и могут идти параллельно: каждый пишет в свою коллекцию.
func (i *IndexerUseCase) beginRun(modality domain.Modality) (*domain.IndexRun, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.running[modality] {
		return nil, e.ErrPassInProgress
	}

	run := domain.NewIndexRun(uuid.NewString(), modality)
	run.State = domain.PassRunning

	i.running[modality] = true
	i.active[run.ID] = run

	return run, nil
}

// abortRun завершает проход фатальной ошибкой вне элемента.
// Отчет сохраняет счетчики, накопленные до прерывания.
func (i *IndexerUseCase) abortRun(ctx context.Context, run *domain.IndexRun, fatal error) (*domain.IndexRun, error) {
	i.mu.Lock()
	run.State = domain.PassAborted
	run.Error = fatal.Error()
	i.mu.Unlock()

	i.logger.Errorf(fatal, "index pass aborted, run_id: %s, modality: %s", run.ID, run.Modality)

	i.closeRun(ctx, run)

	return run, fatal
}

// finishRun завершает успешный проход и фиксирует итоговое состояние.
func (i *IndexerUseCase) finishRun(ctx context.Context, run *domain.IndexRun) *domain.IndexRun {
	i.mu.Lock()
	if run.Report.Failed > 0 {
		run.State = domain.PassCompletedWithErrors
	} else {
		run.State = domain.PassCompleted
	}
	i.mu.Unlock()

	i.logger.Infof(
		"index pass finished, run_id: %s, modality: %s, state: %s, attempted: %d, succeeded: %d, failed: %d, skipped: %d",
		run.ID, run.Modality, run.State,
		run.Report.Attempted, run.Report.Succeeded, run.Report.Failed, run.Report.Skipped,
	)

	i.closeRun(ctx, run)

	return run
}

// closeRun сохраняет итог прохода и затем снимает блокировку модальности.
// Проход остается в active до завершения сохранения, чтобы GetRun всегда
// видел его: либо среди активных, либо уже в хранилище, без окна между ними.
// Сбой сохранения не отменяет уже записанные в индекс векторы:
// он логируется, источником истины остается само хранилище.
func (i *IndexerUseCase) closeRun(ctx context.Context, run *domain.IndexRun) {
	i.mu.Lock()
	now := time.Now().UTC()
	run.FinishedAt = &now
	i.mu.Unlock()

	if err := i.persistRun(ctx, run); err != nil {
		i.logger.Warnf("failed to persist index run %s: %v", run.ID, err)
	}

	i.mu.Lock()
	delete(i.running, run.Modality)
	delete(i.active, run.ID)
	i.mu.Unlock()
}

// persistRun сохраняет итог прохода и outbox-событие в одной транзакции.
func (i *IndexerUseCase) persistRun(ctx context.Context, run *domain.IndexRun) error {
	const op = "IndexerUseCase.persistRun"

	payload, err := i.producer.GetPayloadBytes(run)
	if err != nil {
		return e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, i.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = i.runRepo.Create(ctx, run); err != nil {
		return e.Wrap(op, err)
	}

	if _, err = i.outboxRepo.Create(ctx, NewOutboxEvent(uuid.NewString(), IndexRunFinished, run.ID, payload)); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// saveFingerprint запоминает отпечаток содержимого элемента; сбой не фатален.
func (i *IndexerUseCase) saveFingerprint(ctx context.Context, modality domain.Modality, id string, fp string) {
	if !i.cfg.SkipUnchanged {
		return
	}

	if err := i.fpRepo.Set(ctx, modality, id, fp); err != nil {
		i.logger.Warnf("failed to save fingerprint, modality: %s, id: %s: %v", modality, id, err)
	}
}

func fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
