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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/create_booking"
	createGroundHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/create_ground"
	directBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/direct_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_booking"
	getGroundBookingsHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_ground_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/get_user_bookings"
	listGroundsHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/list_grounds"
	markPaidHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/mark_paid"
	purgeBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/purge_booking"
	rejectBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/reject_booking"
	rescheduleBookingHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/reschedule_booking"
	updateGroundHandler "github.com/m04kA/SMC-GroundBooking/internal/api/handlers/update_ground"
	"github.com/m04kA/SMC-GroundBooking/internal/api/middleware"
	"github.com/m04kA/SMC-GroundBooking/internal/config"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/cache/availability"
	bookingRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/booking"
	groundRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/ground"
	"github.com/m04kA/SMC-GroundBooking/internal/integrations/identity"
	"github.com/m04kA/SMC-GroundBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduler"
	bookingsService "github.com/m04kA/SMC-GroundBooking/internal/service/bookings"
	groundsService "github.com/m04kA/SMC-GroundBooking/internal/service/grounds"
	changeStatusUC "github.com/m04kA/SMC-GroundBooking/internal/usecase/change_status"
	"github.com/m04kA/SMC-GroundBooking/internal/usecase/claim"
	completeElapsedUC "github.com/m04kA/SMC-GroundBooking/internal/usecase/complete_elapsed"
	createBookingUC "github.com/m04kA/SMC-GroundBooking/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-GroundBooking/internal/usecase/get_availability"
	rescheduleBookingUC "github.com/m04kA/SMC-GroundBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-GroundBooking/migrations"
	"github.com/m04kA/SMC-GroundBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroundBooking/pkg/keymutex"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/metrics"
	"github.com/m04kA/SMC-GroundBooking/pkg/txmanager"
)

// AvailabilityCache кэш проекции доступности (Redis или no-op)
type AvailabilityCache interface {
	Get(ctx context.Context, groundID int64, date time.Time) ([]*domain.Booking, bool, error)
	Set(ctx context.Context, groundID int64, date time.Time, bookings []*domain.Booking) error
	Invalidate(ctx context.Context, groundID int64, dates ...time.Time) error
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-GroundBooking...")
	log.Info("Configuration loaded from %s", configPath)

	location := cfg.Location()
	pricing := domain.Pricing{
		DayHourPrice:   cfg.Pricing.DayHourPrice,
		NightHourPrice: cfg.Pricing.NightHourPrice,
	}

	// Инициализируем метрики (если включены). nil *metrics.Metrics безопасен для вызова.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории и транзакции
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	groundRepository := groundRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	guard := claim.NewGuard(
		keymutex.New(),
		bookingRepository,
		txMgr,
		time.Duration(cfg.Booking.ClaimTimeout)*time.Second,
	)

	// Кэш проекции доступности
	var availabilityCache AvailabilityCache = availability.NopCache{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unreachable, availability cache disabled: %v", err)
		} else {
			availabilityCache = availability.NewCache(
				redisClient,
				cfg.Redis.Prefix,
				time.Duration(cfg.Redis.TTLSeconds)*time.Second,
			)
			log.Info("Availability cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
		}
		cancel()
	}

	// Уведомления о смене статуса
	var emitter notifier.Emitter = notifier.NewLogEmitter(log)
	if cfg.RabbitMQ.Enabled {
		amqpEmitter, err := notifier.NewAMQPEmitter(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			time.Duration(cfg.RabbitMQ.Timeout)*time.Second,
		)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer amqpEmitter.Close()
		emitter = amqpEmitter
		log.Info("Booking events are published to exchange %s", cfg.RabbitMQ.Exchange)
	}
	bookingNotifier := notifier.NewNotifier(emitter, metricsCollector, log)

	// Определение роли пользователя
	var actorResolver middleware.ActorResolver = identity.HeaderResolver{}
	if cfg.Identity.URL != "" {
		actorResolver = identity.NewClient(
			cfg.Identity.URL,
			time.Duration(cfg.Identity.Timeout)*time.Second,
			log,
		)
		log.Info("Identity provider initialized (url=%s, timeout=%ds)", cfg.Identity.URL, cfg.Identity.Timeout)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		bookingNotifier,
		availabilityCache,
		log,
	)
	groundSvc := groundsService.NewService(groundRepository, log)

	// Инициализируем use cases
	bookingSettings := createBookingUC.Settings{
		Pricing:            pricing,
		Location:           location,
		AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
	}

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		groundRepository,
		guard,
		bookingNotifier,
		availabilityCache,
		metricsCollector,
		bookingSettings,
		log,
	)

	changeStatusUseCase := changeStatusUC.NewUseCase(
		bookingRepository,
		guard,
		txMgr,
		bookingNotifier,
		availabilityCache,
		metricsCollector,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		groundRepository,
		guard,
		bookingNotifier,
		availabilityCache,
		metricsCollector,
		rescheduleBookingUC.Settings{
			Pricing:            pricing,
			Location:           location,
			AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
		},
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		groundRepository,
		availabilityCache,
		metricsCollector,
		pricing,
		location,
		log,
	)

	completeElapsedUseCase := completeElapsedUC.NewUseCase(
		bookingRepository,
		bookingNotifier,
		availabilityCache,
		metricsCollector,
		location,
		log,
	)

	// Инициализируем handlers
	listGrounds := listGroundsHandler.NewHandler(groundSvc, log)
	createGround := createGroundHandler.NewHandler(groundSvc, log)
	updateGround := updateGroundHandler.NewHandler(groundSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	directBooking := directBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(changeStatusUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(changeStatusUseCase, log)
	rejectBooking := rejectBookingHandler.NewHandler(changeStatusUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getGroundBookings := getGroundBookingsHandler.NewHandler(bookingSvc, log)
	markPaid := markPaidHandler.NewHandler(bookingSvc, log)
	purgeBooking := purgeBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (X-User-ID опционален)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth(actorResolver, log))

	// Список активных площадок
	public.HandleFunc("/grounds", listGrounds.Handle).Methods(http.MethodGet)

	// Сетка слотов площадки на дату
	public.HandleFunc("/grounds/{groundId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-User-ID + роль admin)
	// ============================================================
	// Регистрируются раньше protected: пути /admin/... не должны совпасть с /bookings/{bookingId}

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(actorResolver, log))
	admin.Use(middleware.AdminOnly)

	// --- Площадки ---
	admin.HandleFunc("/grounds", createGround.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/grounds/{groundId}", updateGround.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/grounds/{groundId}/bookings", getGroundBookings.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	// Бронирование на месте (сразу confirmed)
	admin.HandleFunc("/bookings", directBooking.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId}/paid", markPaid.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId}", purgeBooking.Handle).Methods(http.MethodDelete)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(actorResolver, log))

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования (владелец или администратор)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос бронирования на другой интервал
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Фоновый sweep завершённых и просроченных бронирований
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	if cfg.Scheduler.Enabled {
		sweepScheduler := scheduler.New(
			completeElapsedUseCase,
			time.Duration(cfg.Scheduler.IntervalSeconds)*time.Second,
			log,
		)
		go sweepScheduler.Start(appCtx)
		log.Info("Sweep scheduler started (interval=%ds)", cfg.Scheduler.IntervalSeconds)
	}

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

	// Останавливаем sweep
	stopApp()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
