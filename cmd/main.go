package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkEligibilityHandler "github.com/m04kA/ShareIt-BookingService/internal/api/handlers/check_comment_eligibility"
	createBookingHandler "github.com/m04kA/ShareIt-BookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/ShareIt-BookingService/internal/api/handlers/delete_booking"
	getBookerBookingsHandler "github.com/m04kA/ShareIt-BookingService/internal/api/handlers/get_booker_bookings"
	getBookingHandler "github.com/m04kA/ShareIt-BookingService/internal/api/handlers/get_booking"
	getItemSummaryHandler "github.com/m04kA/ShareIt-BookingService/internal/api/handlers/get_item_summary"
	getOwnerBookingsHandler "github.com/m04kA/ShareIt-BookingService/internal/api/handlers/get_owner_bookings"
	patchBookingHandler "github.com/m04kA/ShareIt-BookingService/internal/api/handlers/patch_booking"
	"github.com/m04kA/ShareIt-BookingService/internal/api/middleware"
	"github.com/m04kA/ShareIt-BookingService/internal/config"
	"github.com/m04kA/ShareIt-BookingService/internal/domain"
	"github.com/m04kA/ShareIt-BookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/ShareIt-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/ShareIt-BookingService/internal/infra/storage/bookingdynamo"
	"github.com/m04kA/ShareIt-BookingService/internal/infra/storage/bookingmemory"
	itemServiceClient "github.com/m04kA/ShareIt-BookingService/internal/integrations/itemservice"
	userServiceClient "github.com/m04kA/ShareIt-BookingService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/ShareIt-BookingService/internal/service/bookings"
	createBookingUC "github.com/m04kA/ShareIt-BookingService/internal/usecase/create_booking"
	getItemSummaryUC "github.com/m04kA/ShareIt-BookingService/internal/usecase/get_item_summary"
	patchBookingUC "github.com/m04kA/ShareIt-BookingService/internal/usecase/patch_booking"
	"github.com/m04kA/ShareIt-BookingService/pkg/auth"
	"github.com/m04kA/ShareIt-BookingService/pkg/dbmetrics"
	"github.com/m04kA/ShareIt-BookingService/pkg/dynamoclient"
	"github.com/m04kA/ShareIt-BookingService/pkg/keylock"
	"github.com/m04kA/ShareIt-BookingService/pkg/logger"
	"github.com/m04kA/ShareIt-BookingService/pkg/metrics"
	"github.com/m04kA/ShareIt-BookingService/pkg/mq"
	"github.com/m04kA/ShareIt-BookingService/pkg/obs"
	"github.com/m04kA/ShareIt-BookingService/pkg/txmanager"
)

const serviceVersion = "1.0.0"

// bookingStore общий набор методов всех драйверов хранилища
type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	GetByItemID(ctx context.Context, itemID int64) ([]*domain.Booking, error)
	GetByBookerID(ctx context.Context, bookerID int64, limit, offset uint64) ([]*domain.Booking, error)
	GetByItemIDs(ctx context.Context, itemIDs []int64) ([]*domain.Booking, error)
	GetByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]*domain.Booking, error)
}

// txManager то, что нужно use cases от менеджера транзакций
type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting ShareIt-BookingService (storage=%s)...", cfg.Storage.Driver)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Трассировка (OTLP gRPC)
	shutdownTracer := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdownTracer, err = obs.InitTracer(context.Background(), cfg.Metrics.ServiceName, serviceVersion,
			cfg.Tracing.Endpoint, cfg.Tracing.Environment)
		if err != nil {
			log.Fatal("Failed to initialize tracer: %v", err)
		}
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Хранилище бронирований и менеджер транзакций
	var (
		store bookingStore
		txMgr txManager
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		var wrappedDB *dbmetrics.DB
		if cfg.Metrics.Enabled {
			wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
			log.Info("Database metrics collection started")
		} else {
			wrappedDB = dbmetrics.Wrap(db, nil, cfg.Database.DBName)
		}

		store = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)

	case config.DriverDynamoDB:
		client, err := dynamoclient.New(context.Background(), dynamoclient.Options{
			Region:          cfg.DynamoDB.Region,
			Endpoint:        cfg.DynamoDB.Endpoint,
			AccessKeyID:     cfg.DynamoDB.AccessKeyID,
			SecretAccessKey: cfg.DynamoDB.SecretAccessKey,
		})
		if err != nil {
			log.Fatal("Failed to create DynamoDB client: %v", err)
		}
		if err := bookingdynamo.EnsureTable(context.Background(), client, cfg.DynamoDB.Table); err != nil {
			log.Fatal("Failed to ensure DynamoDB table %s: %v", cfg.DynamoDB.Table, err)
		}
		log.Info("Using DynamoDB table %s (region=%s)", cfg.DynamoDB.Table, cfg.DynamoDB.Region)

		store = bookingdynamo.NewRepository(client, cfg.DynamoDB.Table)
		txMgr = bookingdynamo.NewTxManager()

	case config.DriverMemory:
		log.Warn("Using in-memory booking store, data is lost on restart")
		store = bookingmemory.NewRepository()
		txMgr = txmanager.Noop{}
	}

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	itemClient := itemServiceClient.NewClient(
		cfg.ItemService.URL,
		time.Duration(cfg.ItemService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, ItemService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.ItemService.URL, cfg.ItemService.Timeout)

	// События бронирований (RabbitMQ)
	var broker interface {
		events.MessagePublisher
		Close() error
	} = mq.NoopPublisher{}

	if cfg.Events.Enabled {
		p, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		broker = p
		log.Info("Booking events are published to exchange %s", cfg.Events.Exchange)
	}
	defer broker.Close()

	eventPublisher := events.NewPublisher(broker, metricsCollector, log)
	itemLocker := keylock.New()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		store,
		userClient,
		itemClient,
		eventPublisher,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store,
		userClient,
		itemClient,
		txMgr,
		itemLocker,
		eventPublisher,
		log,
	)
	patchBookingUseCase := patchBookingUC.NewUseCase(
		store,
		itemClient,
		txMgr,
		itemLocker,
		eventPublisher,
		log,
	)
	getItemSummaryUseCase := getItemSummaryUC.NewUseCase(
		store,
		itemClient,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	patchBooking := patchBookingHandler.NewHandler(patchBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getBookerBookings := getBookerBookingsHandler.NewHandler(bookingSvc, log)
	getOwnerBookings := getOwnerBookingsHandler.NewHandler(bookingSvc, log)
	getItemSummary := getItemSummaryHandler.NewHandler(getItemSummaryUseCase, log)
	checkEligibility := checkEligibilityHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(cfg.Metrics.ServiceName))
	}

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// INTERNAL ROUTES (межсервисные вызовы, без пользователя)
	// ============================================================

	// Может ли пользователь комментировать вещь (вызывает ItemService)
	r.HandleFunc("/internal/items/{itemId}/bookers/{userId}/eligibility",
		checkEligibility.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (X-Sharer-User-Id за gateway, либо только Bearer JWT при заданном jwt_secret)
	// ============================================================

	var verifier middleware.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier = auth.NewVerifier(cfg.Auth.JWTSecret)
		log.Info("Bearer token authentication enabled")
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(verifier))

	// --- Бронирования ---
	// Список бронирований вещей владельца (регистрируется раньше /bookings/{bookingId})
	api.HandleFunc("/bookings/owner", getOwnerBookings.Handle).Methods(http.MethodGet)

	// Список бронирований пользователя
	api.HandleFunc("/bookings", getBookerBookings.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение, изменение/подтверждение и удаление бронирования
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", patchBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Вещи ---
	// Последнее и ближайшее бронирование вещи (для владельца)
	api.HandleFunc("/items/{itemId}/bookings/summary", getItemSummary.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
