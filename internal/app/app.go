package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"

	config "github.com/DRSN-tech/petshop-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/petshop-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/petshop-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/petshop-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/petshop-backend/internal/infrastructure/webhook"
	s3Repo "github.com/DRSN-tech/petshop-backend/internal/repository/minio"
	mongoRepo "github.com/DRSN-tech/petshop-backend/internal/repository/mongodb"
	"github.com/DRSN-tech/petshop-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/petshop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/petshop-backend/internal/repository/redis"
	"github.com/DRSN-tech/petshop-backend/internal/scheduler"
	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/clients"
	"github.com/DRSN-tech/petshop-backend/pkg/closer"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/DRSN-tech/petshop-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout    = 15 * time.Second
	forcedCloseTimeout = 3 * time.Second
	startupTimeout     = 10 * time.Second
)

// App собирает зависимости сервиса и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv   *v1Http.Server
	grpcSrv   *v1Grpc.GRPCServer
	worker    *kafka.OutboxWorker
	scheduler *scheduler.Scheduler
}

// NewApp подключается к внешним системам; ресурсы, открытые до ошибки, закрываются.
func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(forcedCloseTimeout),
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(ctx); cerr != nil {
			logger.Warnf("cleanup after failed start: %v", cerr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	db, err := initPGDB(a.logger, a.cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("postgres", db.Close)

	trManager := manager.Must(trmpgx.NewDefaultFactory(db.Pool))

	productConsRepo := pgdb.NewProductConsumptionRepo(db.Pool, pgdbConv.ProductConsumptionConverter{})
	serviceConsRepo := pgdb.NewServiceConsumptionRepo(db.Pool, pgdbConv.ServiceConsumptionConverter{})
	clientRepo := pgdb.NewClientRepo(db.Pool, pgdbConv.ReferenceConverter{})
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ReferenceConverter{})
	serviceRepo := pgdb.NewServiceRepo(db.Pool, pgdbConv.ReferenceConverter{})
	petRepo := pgdb.NewPetRepo(db.Pool, pgdbConv.ReferenceConverter{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{})

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })
	statsCache := redis.NewStatisticsCache(redisClient, a.cfg.Redis, a.logger.Named("cache"))

	producer := kafka.NewProducer(a.logger.Named("kafka"), a.cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })
	if err := producer.EnsureTopic(startupTimeout); err != nil {
		a.logger.Errorf(err, "failed to ensure kafka topic")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	archive, err := a.initArchive()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	var notifier usecase.StockNotifier
	if a.cfg.Stock.WebhookURL != "" {
		notifier = webhook.NewStockNotifier(a.cfg.Stock)
	}

	ledgerUC := usecase.NewLedgerUC(
		trManager,
		productConsRepo,
		serviceConsRepo,
		clientRepo,
		productRepo,
		serviceRepo,
		outboxRepo,
		statsCache,
		a.logger.Named("ledger"),
	)
	stockUC := usecase.NewStockUC(
		trManager,
		productRepo,
		outboxRepo,
		notifier,
		a.cfg.Stock.LowStockThreshold,
		a.logger.Named("stock"),
	)
	statsUC := usecase.NewStatisticsUC(
		trManager,
		clientRepo,
		productRepo,
		serviceRepo,
		petRepo,
		productConsRepo,
		serviceConsRepo,
		statsCache,
		archive,
		a.logger.Named("statistics"),
	)
	a.closer.AddSimple("background notifications", stockUC.Wait)
	a.closer.AddSimple("background cache writes", statsUC.Wait)

	a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger.Named("outbox"), producer, db.Dsn, a.cfg.Kafka.OutboxBatchSize)

	if archive != nil {
		a.scheduler = scheduler.NewScheduler(a.cfg.Archive, statsUC, a.logger.Named("scheduler"))
	}

	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger.Named("grpc"))
	a.grpcSrv.RegisterServices(statsUC)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger.Named("http")).Init(ledgerUC, stockUC, statsUC)
	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)

	return nil
}

// initArchive возвращает nil, если архивирование отключено.
func (a *App) initArchive() (usecase.ReportArchive, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	switch a.cfg.Archive.Backend {
	case config.ArchiveMinio:
		minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
		if err != nil {
			a.logger.Errorf(err, "failed to initialize minio client")
			return nil, err
		}
		if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
			a.logger.Errorf(err, "failed to initialize MinIO bucket")
			return nil, err
		}
		return s3Repo.NewReportRepo(minioClient, a.cfg.Minio), nil

	case config.ArchiveMongo:
		repo, err := mongoRepo.NewReportRepo(ctx, a.cfg.Mongo)
		if err != nil {
			a.logger.Errorf(err, "failed to connect to mongodb")
			return nil, err
		}
		a.closer.Add("mongodb", repo.Close)
		return repo, nil

	default:
		a.logger.Infof("Statistics archive disabled")
		return nil, nil
	}
}

// Run запускает серверы и фоновые задачи и блокируется до сигнала остановки
// или фатальной ошибки одного из серверов.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.worker.Start(ctx)
	a.closer.AddSimple("outbox worker", a.worker.Stop)

	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			a.logger.Errorf(err, "failed to start scheduler")
			a.shutdown()
			return err
		}
		a.closer.Add("scheduler", a.scheduler.Stop)
	}

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	httpErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on %s", a.httpSrv.Addr())
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrCh <- err
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-httpErrCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("Received %s, stopping gracefully...", sig)
	}

	a.shutdown()
	return appErr
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	} else {
		a.logger.Infof("Application shutdown complete")
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
