package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/indexer-backend/internal/cfg"
	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
	"github.com/DRSN-tech/indexer-backend/pkg/logger"
)

// FAKES

type fakeCatalogRepo struct {
	items []domain.CatalogItem
	err   error
}

func (f *fakeCatalogRepo) ListItems(context.Context) ([]domain.CatalogItem, error) {
	return f.items, f.err
}

type fakeImageSource struct {
	assets  []*domain.ImageAsset
	walkErr error
}

func (f *fakeImageSource) Walk(_ context.Context, fn func(*domain.ImageAsset) error) error {
	for _, asset := range f.assets {
		if err := fn(asset); err != nil {
			return err
		}
	}
	return f.walkErr
}

type fakeGenerator struct {
	mu     sync.Mutex
	inputs []string
	fn     func(input string) ([]float32, error)
}

func (f *fakeGenerator) Generate(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, text)
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(text)
	}
	return []float32{1, 0, 0}, nil
}

type fakeImageGenerator struct {
	fn func(data []byte) ([]float32, error)
}

func (f *fakeImageGenerator) Generate(_ context.Context, data []byte) ([]float32, error) {
	if f.fn != nil {
		return f.fn(data)
	}
	return []float32{0, 1, 0}, nil
}

type fakeVectorStore struct {
	mu          sync.Mutex
	collections map[string]map[string]*domain.IndexEntry
	createErr   error
	upsertErr   func(entry *domain.IndexEntry) error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{collections: make(map[string]map[string]*domain.IndexEntry)}
}

func (f *fakeVectorStore) GetOrCreateCollection(_ context.Context, name string) error {
	if f.createErr != nil {
		return f.createErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.collections[name]; !ok {
		f.collections[name] = make(map[string]*domain.IndexEntry)
	}
	return nil
}

func (f *fakeVectorStore) Upsert(_ context.Context, collection string, entry *domain.IndexEntry) error {
	if f.upsertErr != nil {
		if err := f.upsertErr(entry); err != nil {
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.collections[collection]; !ok {
		f.collections[collection] = make(map[string]*domain.IndexEntry)
	}
	f.collections[collection][entry.ID] = entry
	return nil
}

func (f *fakeVectorStore) Query(context.Context, string, []float32, int) ([]domain.QueryHit, error) {
	return nil, nil
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs map[string]*domain.IndexRun
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[string]*domain.IndexRun)}
}

func (f *fakeRunRepo) Create(_ context.Context, run *domain.IndexRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunRepo) Get(_ context.Context, id string) (*domain.IndexRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return nil, e.ErrRunNotFound
	}
	return run, nil
}

func (f *fakeRunRepo) List(context.Context, int) ([]*domain.IndexRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.IndexRun, 0, len(f.runs))
	for _, run := range f.runs {
		result = append(result, run)
	}
	return result, nil
}

type fakeOutboxRepo struct{}

func (fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	return event, nil
}
func (fakeOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}
func (fakeOutboxRepo) MarkAsProcessed(context.Context, int64) error { return nil }

type fakeFingerprintRepo struct {
	mu    sync.Mutex
	known map[string]string
}

func newFakeFingerprintRepo() *fakeFingerprintRepo {
	return &fakeFingerprintRepo{known: make(map[string]string)}
}

func (f *fakeFingerprintRepo) Get(_ context.Context, modality domain.Modality, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.known[string(modality)+":"+id], nil
}

func (f *fakeFingerprintRepo) Set(_ context.Context, modality domain.Modality, id string, fp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.known[string(modality)+":"+id] = fp
	return nil
}

type fakeProducer struct{}

func (fakeProducer) WriteRawMessage(context.Context, *WriteRawMessageReq) error { return nil }
func (fakeProducer) GetPayloadBytes(*domain.IndexRun) ([]byte, error)           { return []byte("payload"), nil }

// fakeTx покрывает ровно те методы pgx.Tx, которые трогает менеджер
// транзакций; репозитории-фейки транзакцию из контекста не читают.
type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(context.Context) error   { return nil }
func (fakeTx) Rollback(context.Context) error { return nil }

type fakeTxBeginner struct{}

func (fakeTxBeginner) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return fakeTx{}, nil
}

type fixture struct {
	catalog *fakeCatalogRepo
	images  *fakeImageSource
	textGen *fakeGenerator
	imgGen  *fakeImageGenerator
	store   *fakeVectorStore
	runRepo *fakeRunRepo
	fpRepo  *fakeFingerprintRepo
	cfg     *cfg.IndexerCfg
	uc      *IndexerUseCase
}

func newFixture() *fixture {
	f := &fixture{
		catalog: &fakeCatalogRepo{},
		images:  &fakeImageSource{},
		textGen: &fakeGenerator{},
		imgGen:  &fakeImageGenerator{},
		store:   newFakeVectorStore(),
		runRepo: newFakeRunRepo(),
		fpRepo:  newFakeFingerprintRepo(),
		cfg: &cfg.IndexerCfg{
			TextCollection:  "text",
			ImageCollection: "image",
		},
	}

	f.uc = NewIndexerUC(
		f.catalog,
		f.images,
		f.textGen,
		f.imgGen,
		f.store,
		f.runRepo,
		fakeOutboxRepo{},
		f.fpRepo,
		fakeProducer{},
		fakeTxBeginner{},
		f.cfg,
		logger.NewSlogLogger(),
	)

	return f
}

func item(id, name, description string) domain.CatalogItem {
	return domain.CatalogItem{ID: id, Name: name, Description: description}
}

// TESTS

func TestRunTextPass_AllSucceed(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{
		item("1", "Atlas", "A map"),
		item("2", "Globe", "A sphere"),
	}

	run, err := f.uc.RunTextPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PassCompleted, run.State)
	assert.Equal(t, 2, run.Report.Attempted)
	assert.Equal(t, 2, run.Report.Succeeded)
	assert.Equal(t, 0, run.Report.Failed)
	assert.Empty(t, run.Report.Failures)
	require.NotNil(t, run.FinishedAt)

	assert.Len(t, f.store.collections["text"], 2)
}

func TestRunTextPass_CompositeText(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{item("1", "Atlas", "A map")}

	_, err := f.uc.RunTextPass(context.Background())
	require.NoError(t, err)

	require.Len(t, f.textGen.inputs, 1)
	assert.Equal(t, "Name: Atlas\nDescription: A map", f.textGen.inputs[0])

	entry := f.store.collections["text"]["1"]
	require.NotNil(t, entry)
	assert.Equal(t, "Name: Atlas\nDescription: A map", entry.Document)
	assert.Equal(t, domain.Metadata{"id": "1", "name": "Atlas", "description": "A map"}, entry.Metadata)
}

func TestRunTextPass_PartialFailureDoesNotAbort(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{
		item("1", "a", "d1"),
		item("2", "b", "d2"),
		item("3", "c", "d3"),
		item("4", "d", "d4"),
		item("5", "e", "d5"),
	}
	f.textGen.fn = func(input string) ([]float32, error) {
		if input == "Name: c\nDescription: d3" {
			return nil, e.ErrModelUnavailable
		}
		return []float32{1}, nil
	}

	run, err := f.uc.RunTextPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PassCompletedWithErrors, run.State)
	assert.Equal(t, 5, run.Report.Attempted)
	assert.Equal(t, 4, run.Report.Succeeded)
	assert.Equal(t, 1, run.Report.Failed)

	require.Len(t, run.Report.Failures, 1)
	assert.Equal(t, "3", run.Report.Failures[0].ItemID)
	assert.Equal(t, KindModelUnavailable, run.Report.Failures[0].Kind)
}

func TestRunTextPass_InvalidItemsRecordedAsInputErrors(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{
		item("", "NoID", "has description"),
		item("2", "NoDescription", "  "),
		item("3", "Fine", "ok"),
	}

	run, err := f.uc.RunTextPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PassCompletedWithErrors, run.State)
	assert.Equal(t, 3, run.Report.Attempted)
	assert.Equal(t, 1, run.Report.Succeeded)
	assert.Equal(t, 2, run.Report.Failed)

	for _, failure := range run.Report.Failures {
		assert.Equal(t, KindInputError, failure.Kind)
	}
}

func TestRunTextPass_DuplicateIDLastWins(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{
		item("1", "Old", "old description"),
		item("1", "New", "new description"),
	}

	run, err := f.uc.RunTextPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, run.Report.Succeeded)
	require.Len(t, f.store.collections["text"], 1)
	assert.Equal(t, "Name: New\nDescription: new description", f.store.collections["text"]["1"].Document)
}

func TestRunTextPass_StoreUnavailableAborts(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{item("1", "a", "d")}
	f.store.createErr = e.ErrStoreUnavailable

	run, err := f.uc.RunTextPass(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrStoreUnavailable))

	require.NotNil(t, run)
	assert.Equal(t, domain.PassAborted, run.State)
	assert.NotEmpty(t, run.Error)
	assert.Equal(t, 0, run.Report.Attempted)
}

func TestRunTextPass_FeedErrorAborts(t *testing.T) {
	f := newFixture()
	f.catalog.err = errors.New("feed unreachable")

	run, err := f.uc.RunTextPass(context.Background())
	require.Error(t, err)

	require.NotNil(t, run)
	assert.Equal(t, domain.PassAborted, run.State)
}

func TestRunTextPass_MidPassStoreErrorIsPerItem(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{
		item("1", "a", "d1"),
		item("2", "b", "d2"),
	}
	f.store.upsertErr = func(entry *domain.IndexEntry) error {
		if entry.ID == "1" {
			return e.ErrStoreUnavailable
		}
		return nil
	}

	run, err := f.uc.RunTextPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PassCompletedWithErrors, run.State)
	assert.Equal(t, 1, run.Report.Succeeded)
	assert.Equal(t, 1, run.Report.Failed)
	assert.Equal(t, KindStoreUnavailable, run.Report.Failures[0].Kind)
}

func TestRunTextPass_SkipUnchanged(t *testing.T) {
	f := newFixture()
	f.cfg.SkipUnchanged = true
	f.catalog.items = []domain.CatalogItem{item("1", "Atlas", "A map")}

	first, err := f.uc.RunTextPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Report.Succeeded)
	assert.Equal(t, 0, first.Report.Skipped)

	second, err := f.uc.RunTextPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Report.Succeeded)
	assert.Equal(t, 1, second.Report.Skipped)
	assert.Equal(t, domain.PassCompleted, second.State)

	// генератор вызывался только в первом проходе
	assert.Len(t, f.textGen.inputs, 1)
}

func TestRunImagePass_MetadataAndReport(t *testing.T) {
	f := newFixture()
	f.images.assets = []*domain.ImageAsset{
		domain.NewImageAsset("42", "front", []byte("img-a")),
		domain.NewImageAsset("42", "back", []byte("img-b")),
	}

	run, err := f.uc.RunImagePass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PassCompleted, run.State)
	assert.Equal(t, 2, run.Report.Succeeded)

	entry := f.store.collections["image"]["front"]
	require.NotNil(t, entry)
	assert.Equal(t, domain.Metadata{"product_id": "42", "image_id": "front"}, entry.Metadata)
	assert.Empty(t, entry.Document)
}

func TestRunImagePass_DecodeErrorIsPerItem(t *testing.T) {
	f := newFixture()
	f.images.assets = []*domain.ImageAsset{
		domain.NewImageAsset("1", "good", []byte("ok")),
		domain.NewImageAsset("1", "bad", []byte("corrupt")),
	}
	f.imgGen.fn = func(data []byte) ([]float32, error) {
		if string(data) == "corrupt" {
			return nil, e.ErrDecodeImage
		}
		return []float32{1}, nil
	}

	run, err := f.uc.RunImagePass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PassCompletedWithErrors, run.State)
	assert.Equal(t, 1, run.Report.Succeeded)
	assert.Equal(t, 1, run.Report.Failed)
	assert.Equal(t, KindDecodeError, run.Report.Failures[0].Kind)
	assert.Equal(t, "bad", run.Report.Failures[0].ItemID)
}

func TestRunImagePass_WalkErrorAborts(t *testing.T) {
	f := newFixture()
	f.images.walkErr = errors.New("directory vanished")

	run, err := f.uc.RunImagePass(context.Background())
	require.Error(t, err)

	require.NotNil(t, run)
	assert.Equal(t, domain.PassAborted, run.State)
}

func TestConcurrentSameModalityRejected(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{item("1", "a", "d")}

	release := make(chan struct{})
	started := make(chan struct{})
	f.textGen.fn = func(string) ([]float32, error) {
		close(started)
		<-release
		return []float32{1}, nil
	}

	runID, err := f.uc.StartPass(context.Background(), domain.ModalityText)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	<-started
	_, err = f.uc.RunTextPass(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrPassInProgress))

	close(release)

	require.Eventually(t, func() bool {
		run, err := f.uc.GetRun(context.Background(), runID)
		return err == nil && run.State == domain.PassCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDifferentModalitiesRunConcurrently(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{item("1", "a", "d")}
	f.images.assets = []*domain.ImageAsset{domain.NewImageAsset("1", "x", []byte("b"))}

	release := make(chan struct{})
	started := make(chan struct{})
	f.textGen.fn = func(string) ([]float32, error) {
		close(started)
		<-release
		return []float32{1}, nil
	}

	_, err := f.uc.StartPass(context.Background(), domain.ModalityText)
	require.NoError(t, err)
	<-started

	run, err := f.uc.RunImagePass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PassCompleted, run.State)

	close(release)
}

func TestStartPass_UnknownModality(t *testing.T) {
	f := newFixture()

	_, err := f.uc.StartPass(context.Background(), domain.Modality("audio"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrUnknownModality))
}

func TestGetRun_ActiveThenPersisted(t *testing.T) {
	f := newFixture()
	f.catalog.items = []domain.CatalogItem{item("1", "a", "d")}

	release := make(chan struct{})
	started := make(chan struct{})
	f.textGen.fn = func(string) ([]float32, error) {
		close(started)
		<-release
		return []float32{1}, nil
	}

	runID, err := f.uc.StartPass(context.Background(), domain.ModalityText)
	require.NoError(t, err)
	<-started

	active, err := f.uc.GetRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, domain.PassRunning, active.State)

	close(release)

	require.Eventually(t, func() bool {
		run, err := f.uc.GetRun(context.Background(), runID)
		return err == nil && run.State == domain.PassCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

// Снимки GetRun во время фонового прохода: счетчики согласованы
// (Attempted = Succeeded + Failed + Skipped) в каждый момент, и проход
// виден от старта до появления в хранилище без провала между ними.
func TestGetRun_SnapshotConsistentDuringPass(t *testing.T) {
	f := newFixture()
	for n := 0; n < 50; n++ {
		id := strconv.Itoa(n)
		f.catalog.items = append(f.catalog.items, item(id, id, "description"))
	}
	f.textGen.fn = func(input string) ([]float32, error) {
		time.Sleep(time.Millisecond)
		if input == "Name: 25\nDescription: description" {
			return nil, e.ErrModelUnavailable
		}
		return []float32{1}, nil
	}

	runID, err := f.uc.StartPass(context.Background(), domain.ModalityText)
	require.NoError(t, err)

	for {
		run, err := f.uc.GetRun(context.Background(), runID)
		require.NoError(t, err)

		sum := run.Report.Succeeded + run.Report.Failed + run.Report.Skipped
		require.Equal(t, run.Report.Attempted, sum)
		require.Len(t, run.Report.Failures, run.Report.Failed)

		if run.State != domain.PassRunning {
			assert.Equal(t, domain.PassCompletedWithErrors, run.State)
			assert.Equal(t, 50, run.Report.Attempted)
			assert.Equal(t, 49, run.Report.Succeeded)
			assert.Equal(t, 1, run.Report.Failed)
			break
		}
	}
}

func TestGetRun_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrRunNotFound))
}
