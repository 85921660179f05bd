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
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applyPaymentHandler "github.com/m04kA/barber-booking/internal/api/handlers/apply_payment"
	createBookingHandler "github.com/m04kA/barber-booking/internal/api/handlers/create_booking"
	deleteScheduleHandler "github.com/m04kA/barber-booking/internal/api/handlers/delete_schedule"
	getAvailableSlotsHandler "github.com/m04kA/barber-booking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/barber-booking/internal/api/handlers/get_booking"
	getProviderHandler "github.com/m04kA/barber-booking/internal/api/handlers/get_provider"
	getProviderBookingsHandler "github.com/m04kA/barber-booking/internal/api/handlers/get_provider_bookings"
	getScheduleHandler "github.com/m04kA/barber-booking/internal/api/handlers/get_schedule"
	getUserBookingsHandler "github.com/m04kA/barber-booking/internal/api/handlers/get_user_bookings"
	listProvidersHandler "github.com/m04kA/barber-booking/internal/api/handlers/list_providers"
	listSchedulesHandler "github.com/m04kA/barber-booking/internal/api/handlers/list_schedules"
	listSchedulesByDateHandler "github.com/m04kA/barber-booking/internal/api/handlers/list_schedules_by_date"
	listServicesHandler "github.com/m04kA/barber-booking/internal/api/handlers/list_services"
	rescheduleBookingHandler "github.com/m04kA/barber-booking/internal/api/handlers/reschedule_booking"
	saveProviderHandler "github.com/m04kA/barber-booking/internal/api/handlers/save_provider"
	saveScheduleHandler "github.com/m04kA/barber-booking/internal/api/handlers/save_schedule"
	updateBookingStatusHandler "github.com/m04kA/barber-booking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/barber-booking/internal/api/middleware"
	"github.com/m04kA/barber-booking/internal/config"
	"github.com/m04kA/barber-booking/internal/domain"
	bookingRepo "github.com/m04kA/barber-booking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/barber-booking/internal/infra/storage/catalog"
	"github.com/m04kA/barber-booking/internal/infra/storage/memory"
	providerRepo "github.com/m04kA/barber-booking/internal/infra/storage/provider"
	scheduleRepo "github.com/m04kA/barber-booking/internal/infra/storage/schedule"
	"github.com/m04kA/barber-booking/internal/jobs/pendingexpiry"
	bookingsService "github.com/m04kA/barber-booking/internal/service/bookings"
	catalogService "github.com/m04kA/barber-booking/internal/service/catalog"
	providersService "github.com/m04kA/barber-booking/internal/service/providers"
	schedulesService "github.com/m04kA/barber-booking/internal/service/schedules"
	createBookingUC "github.com/m04kA/barber-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/barber-booking/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/barber-booking/internal/usecase/reschedule_booking"
	"github.com/m04kA/barber-booking/pkg/dbmetrics"
	"github.com/m04kA/barber-booking/pkg/logger"
	"github.com/m04kA/barber-booking/pkg/metrics"
	"github.com/m04kA/barber-booking/pkg/txmanager"
)

// bookingStore общий контракт postgres и in-memory репозиториев бронирований
type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Booking, error)
	Reschedule(ctx context.Context, change domain.Reschedule) error
	UpdateStatus(ctx context.Context, change domain.StatusChange) error
}

type scheduleStore interface {
	GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*domain.WorkingSchedule, error)
	ListByProvider(ctx context.Context, providerID string, from, to *time.Time) ([]*domain.WorkingSchedule, error)
	ListByDate(ctx context.Context, date time.Time) ([]*domain.WorkingSchedule, error)
	Upsert(ctx context.Context, schedule *domain.WorkingSchedule) (*domain.WorkingSchedule, error)
	Delete(ctx context.Context, providerID string, date time.Time) error
}

type catalogStore interface {
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context) ([]*domain.Service, error)
}

type providerStore interface {
	GetByID(ctx context.Context, id string) (*domain.Provider, error)
	ListActive(ctx context.Context) ([]*domain.Provider, error)
	Upsert(ctx context.Context, provider *domain.Provider) (*domain.Provider, error)
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	bookings  bookingStore
	schedules scheduleStore
	catalog   catalogStore
	providers providerStore
	tx        txManager
	close     func()
}

func main() {
	// .env опционален, переменные окружения переопределяют секреты из config.toml
	_ = godotenv.Load()

	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting barber-booking...")
	log.Info("Configuration loaded from config.toml, storage driver=%s", cfg.Storage.Driver)

	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	stopCh := make(chan struct{})

	txOpts := txmanager.Options{
		Timeout:    time.Duration(cfg.Booking.TxTimeoutSeconds) * time.Second,
		MaxRetries: cfg.Booking.TxMaxRetries,
		Metrics:    metricsCollector,
	}

	var store *storage
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store = newMemoryStorage(txOpts)
		log.Warn("In-memory storage selected: data is lost on restart")
	default:
		store, err = newPostgresStorage(cfg.Database, txOpts, metricsCollector, stopCh)
		if err != nil {
			log.Fatal("Failed to initialize postgres storage: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}
	defer store.close()

	// Сервисы
	bookingSvc := bookingsService.NewService(store.bookings, log)
	scheduleSvc := schedulesService.NewService(store.schedules, store.providers, log)
	catalogSvc := catalogService.NewService(store.catalog, log)
	providerSvc := providersService.NewService(store.providers, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(store.bookings, store.schedules, store.catalog, store.providers, store.tx, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(store.bookings, store.schedules, store.catalog, store.providers, log)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(store.bookings, store.schedules, store.tx, log)

	// Истечение неоплаченных бронирований
	expiryJob, err := pendingexpiry.New(
		bookingSvc,
		time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute,
		cfg.Booking.ExpirySchedule,
		log,
	)
	if err != nil {
		log.Fatal("Failed to initialize pending expiry job: %v", err)
	}
	expiryJob.Start()

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	listSchedules := listSchedulesHandler.NewHandler(scheduleSvc, log)
	listSchedulesByDate := listSchedulesByDateHandler.NewHandler(scheduleSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	listProviders := listProvidersHandler.NewHandler(providerSvc, log)
	getProvider := getProviderHandler.NewHandler(providerSvc, log)
	saveProvider := saveProviderHandler.NewHandler(providerSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	applyPayment := applyPaymentHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	saveSchedule := saveScheduleHandler.NewHandler(scheduleSvc, log)
	deleteSchedule := deleteScheduleHandler.NewHandler(scheduleSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/providers", listProviders.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}", getProvider.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/schedules", listSchedules.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/schedules/{date}", getSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedules", listSchedulesByDate.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Изменяющие запросы ограничиваются по частоте на клиента
	mutating := protected.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go limiter.Cleanup(time.Minute, stopCh)
		mutating.Use(limiter.Middleware)
		log.Info("Rate limiting enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// --- Бронирования ---
	mutating.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	mutating.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	mutating.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	mutating.HandleFunc("/bookings/{bookingId}/payment", applyPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Для мастеров ---
	mutating.HandleFunc("/providers/{providerId}", saveProvider.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)
	mutating.HandleFunc("/providers/{providerId}/schedules/{date}", saveSchedule.Handle).Methods(http.MethodPut)
	mutating.HandleFunc("/providers/{providerId}/schedules/{date}", deleteSchedule.Handle).Methods(http.MethodDelete)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	expiryJob.Stop()
	close(stopCh)

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

func newPostgresStorage(cfg config.DatabaseConfig, txOpts txmanager.Options, m *metrics.Metrics, stop <-chan struct{}) (*storage, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	// m может быть nil: обёртка тогда не пишет метрики
	wrapped := dbmetrics.WrapWithDefault(db, m, stop)

	return &storage{
		bookings:  bookingRepo.NewRepository(wrapped),
		schedules: scheduleRepo.NewRepository(wrapped),
		catalog:   catalogRepo.NewRepository(wrapped),
		providers: providerRepo.NewRepository(wrapped),
		tx:        txmanager.NewTransactionManager(wrapped, txOpts),
		close:     func() { _ = db.Close() },
	}, nil
}

func newMemoryStorage(txOpts txmanager.Options) *storage {
	store := memory.NewStore(txOpts,
		memory.WithServices(memory.DefaultServices()...),
		memory.WithProviders(memory.DefaultProviders()...),
	)
	return &storage{
		bookings:  store.Bookings(),
		schedules: store.Schedules(),
		catalog:   store.Catalog(),
		providers: store.Providers(),
		tx:        store,
		close:     func() {},
	}
}
