package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insect-control-api/infrastructure/cache"
	"github.com/vfg2006/insect-control-api/infrastructure/database/firestore"
	"github.com/vfg2006/insect-control-api/infrastructure/database/postgres"
	"github.com/vfg2006/insect-control-api/infrastructure/repository"
	"github.com/vfg2006/insect-control-api/internal/api"
	"github.com/vfg2006/insect-control-api/internal/config"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/internal/scheduler"
	"github.com/vfg2006/insect-control-api/internal/usecases/authenticating"
	"github.com/vfg2006/insect-control-api/internal/usecases/client"
	"github.com/vfg2006/insect-control-api/internal/usecases/reporting"
	"github.com/vfg2006/insect-control-api/internal/usecases/servicerecord"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	domain.SetDateLocation(cfg.Reporting.Location)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(cfg.Database.DSN); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
		logrus.Info("Migrações aplicadas com sucesso")
	}

	pgConn := pgconn(ctx, cfg.Database)
	closers := []func() error{pgConn.Close}

	userRepo := repository.NewUserRepository(pgConn)
	clientRepo := repository.NewClientRepository(pgConn)
	serviceRepo := repository.NewServiceRecordRepository(pgConn)

	var verifier authenticating.FirebaseVerifier
	if cfg.Firebase.Enabled {
		app := firebaseApp(ctx, cfg.Firebase)
		closers = append(closers, app.Close)
		verifier = app.Auth

		if cfg.Store.Backend == config.StoreBackendFirestore {
			clientRepo = repository.NewFirestoreClientRepository(app.Firestore)
			serviceRepo = repository.NewFirestoreServiceRecordRepository(app.Firestore)
		}
	}
	logrus.WithField("backend", cfg.Store.Backend).Info("Armazenamento de clientes e serviços configurado")

	summaryCache := cache.NewNoopSummaryCache()
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("Redis indisponível, resumo será calculado sem cache")
		} else {
			closers = append(closers, redisClient.Close)
			summaryCache = cache.NewRedisSummaryCache(redisClient, cfg.Redis.TTL)
		}
	}

	policy := domain.NewSettlementPolicy(cfg.Reporting.SettledStatuses...)

	authenticator := authenticating.NewService(userRepo, verifier, cfg)
	clientService := client.NewService(clientRepo, serviceRepo, summaryCache)
	recordService := servicerecord.NewService(serviceRepo, clientRepo, summaryCache, policy)
	reporter := reporting.NewService(clientRepo, serviceRepo, summaryCache, policy)

	summaryWarmupService := scheduler.NewSummaryWarmupService(serviceRepo, reporter, cfg)
	if err := summaryWarmupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de pré-cálculo do resumo")
	} else {
		logrus.Info("Agendador de pré-cálculo do resumo iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Clients:       clientService,
		Records:       recordService,
		Reporter:      reporter,
		SummaryWarmup: summaryWarmupService,
	}, closers...)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

func firebaseApp(ctx context.Context, cfg config.Firebase) *firestore.App {
	app, err := firestore.NewApp(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar o Firebase")
	}
	return app
}
