package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/timshannon/badgerhold/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	config "github.com/DRSN-tech/indexer-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/indexer-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/indexer-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/indexer-backend/internal/infrastructure/mlservice"
	"github.com/DRSN-tech/indexer-backend/internal/proto"
	badgerRepo "github.com/DRSN-tech/indexer-backend/internal/repository/badger"
	fsRepo "github.com/DRSN-tech/indexer-backend/internal/repository/fs"
	s3Repo "github.com/DRSN-tech/indexer-backend/internal/repository/minio"
	"github.com/DRSN-tech/indexer-backend/internal/repository/pgdb"
	"github.com/DRSN-tech/indexer-backend/internal/repository/pgdb/converter"
	qdrantRepo "github.com/DRSN-tech/indexer-backend/internal/repository/qdrant"
	"github.com/DRSN-tech/indexer-backend/internal/repository/redis"
	"github.com/DRSN-tech/indexer-backend/internal/usecase"
	"github.com/DRSN-tech/indexer-backend/pkg/clients"
	"github.com/DRSN-tech/indexer-backend/pkg/closer"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
	"github.com/DRSN-tech/indexer-backend/pkg/logger"
	"github.com/DRSN-tech/indexer-backend/pkg/postgres"
)

// App собирает зависимости сервиса индексации и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	outboxWorker *kafka.OutboxWorker

	appCtx    context.Context
	appCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	appCtx, appCancel := context.WithCancel(context.Background())

	a := &App{
		cfg:       cfg,
		logger:    log,
		closer:    closer.NewCloser(2 * time.Second),
		appCtx:    appCtx,
		appCancel: appCancel,
	}

	db, err := initPGDB(log, cfg)
	if err != nil {
		appCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(context.Context) error {
		db.Close()
		return nil
	})

	store, err := a.initVectorStore()
	if err != nil {
		appCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	imageSource, err := a.initImageSource()
	if err != nil {
		appCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	if cfg.Indexer.SkipUnchanged {
		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(redisCtx)
		redisCancel()
		if err != nil {
			appCancel()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}
	a.closer.Add(func(context.Context) error {
		return redisClient.Client.Close()
	})
	fpRepo := redis.NewFingerprintRepo(redisClient, cfg.Redis)

	conn, err := grpc.NewClient(
		cfg.Ml.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()), // ML-сервис живет в одной сети с индексатором
	)
	if err != nil {
		appCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(context.Context) error {
		return conn.Close()
	})

	embedderClient := proto.NewEmbedderServiceClient(conn)
	textGen := mlservice.NewTextGenerator(embedderClient, cfg.Ml.MaxRetries, log)
	imageGen := mlservice.NewImageGenerator(embedderClient, cfg.Ml.MaxRetries, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		appCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		appCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(context.Context) error {
		return producer.Close()
	})

	catalogRepo := pgdb.NewCatalogRepo(db.Pool)
	runRepo := pgdb.NewIndexRunRepo(db.Pool, converter.IndexRunConverter{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, converter.OutboxEventConverter{})

	indexerUC := usecase.NewIndexerUC(
		catalogRepo,
		imageSource,
		textGen,
		imageGen,
		store,
		runRepo,
		outboxRepo,
		fpRepo,
		producer,
		db.Pool,
		cfg.Indexer,
		log,
	)

	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(indexerUC, appCtx)

	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return a, nil
}

// Run запускает HTTP-сервер и outbox-worker и блокируется до сигнала
// завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	a.outboxWorker.Start(a.appCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.appCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	a.outboxWorker.Stop()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown error: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// initVectorStore выбирает драйвер векторного хранилища.
// qdrant — внешний сервис, badger — встроенное хранилище без внешних
// зависимостей, данные переживают перезапуск.
func (a *App) initVectorStore() (usecase.VectorStore, error) {
	switch a.cfg.Store.Driver {
	case "qdrant":
		qdrantClient, err := clients.NewQdrantClient(a.cfg.Qdrant)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add(func(context.Context) error {
			return qdrantClient.Client.Close()
		})
		return qdrantRepo.NewVectorStore(qdrantClient.Client), nil

	case "badger":
		store, err := badgerhold.Open(badgerRepo.DefaultOptions(a.cfg.Store.BadgerPath))
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add(func(context.Context) error {
			return store.Close()
		})
		return badgerRepo.NewVectorStore(store), nil

	default:
		return nil, fmt.Errorf("unknown vector store driver %q", a.cfg.Store.Driver)
	}
}

// initImageSource выбирает источник изображений: локальная директория
// или bucket MinIO с той же структурой ключей.
func (a *App) initImageSource() (usecase.ImageSource, error) {
	switch a.cfg.Indexer.ImageSource {
	case "fs":
		return fsRepo.NewImageSource(a.cfg.Indexer), nil

	case "minio":
		minioClient, err := clients.NewMinIOClient(a.cfg)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer minioCancel()
		if err := clients.EnsureBucket(minioCtx, minioClient, a.cfg.Minio.BucketName); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		return s3Repo.NewImageSource(minioClient, a.cfg.Minio, a.cfg.Indexer), nil

	default:
		return nil, fmt.Errorf("unknown image source %q", a.cfg.Indexer.ImageSource)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
