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

	cancelBookingHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/create_booking"
	createTemplateHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/create_template"
	deleteSlotHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/delete_slot"
	deleteTemplateHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/delete_template"
	generateSlotsHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/generate_slots"
	getAvailableSlotsHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/get_booking"
	getPatientBookingsHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/get_patient_bookings"
	getTherapistBookingsHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/get_therapist_bookings"
	getTherapistSlotsHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/get_therapist_slots"
	getTherapistTemplatesHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/get_therapist_templates"
	updateBookingStatusHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/update_booking_status"
	updateSlotHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/update_slot"
	updateTemplateHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/update_template"
	"github.com/m04kA/TMS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/TMS-SchedulingService/internal/config"
	bookingRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/booking"
	templateRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/template"
	timeslotRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/timeslot"
	userServiceClient "github.com/m04kA/TMS-SchedulingService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/TMS-SchedulingService/internal/service/bookings"
	templatesService "github.com/m04kA/TMS-SchedulingService/internal/service/templates"
	timeslotsService "github.com/m04kA/TMS-SchedulingService/internal/service/timeslots"
	createBookingUC "github.com/m04kA/TMS-SchedulingService/internal/usecase/create_booking"
	generateSlotsUC "github.com/m04kA/TMS-SchedulingService/internal/usecase/generate_slots"
	"github.com/m04kA/TMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/TMS-SchedulingService/pkg/logger"
	"github.com/m04kA/TMS-SchedulingService/pkg/metrics"
	"github.com/m04kA/TMS-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/TMS-SchedulingService/pkg/txmanager"
)

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

	log.Info("Starting TMS-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
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

	// Инициализируем клиента UserService
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("UserService client initialized (url=%s, timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Интерфейс transaction manager: с метриками и без используются разные реализации
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	var (
		templateRepository *templateRepo.Repository
		timeslotRepository *timeslotRepo.Repository
		bookingRepository  *bookingRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		templateRepository = templateRepo.NewRepository(wrappedDB)
		timeslotRepository = timeslotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		templateRepository = templateRepo.NewRepository(db)
		timeslotRepository = timeslotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	templateSvc := templatesService.NewService(templateRepository, log)
	timeslotSvc := timeslotsService.NewService(timeslotRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, timeslotRepository, txMgr, log)

	// Инициализируем use cases
	generateSlotsUseCase := generateSlotsUC.NewUseCase(templateRepository, timeslotRepository, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		timeslotRepository,
		userClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createTemplate := createTemplateHandler.NewHandler(templateSvc, log)
	getTherapistTemplates := getTherapistTemplatesHandler.NewHandler(templateSvc, log)
	updateTemplate := updateTemplateHandler.NewHandler(templateSvc, log)
	deleteTemplate := deleteTemplateHandler.NewHandler(templateSvc, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(timeslotSvc, log)
	getTherapistSlots := getTherapistSlotsHandler.NewHandler(timeslotSvc, log)
	updateSlot := updateSlotHandler.NewHandler(timeslotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(timeslotSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getPatientBookings := getPatientBookingsHandler.NewHandler(bookingSvc, log)
	getTherapistBookings := getTherapistBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты терапевта для записи
	api.HandleFunc("/therapists/{therapistId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Шаблоны доступности ---
	protected.HandleFunc("/templates", createTemplate.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/therapists/{therapistId}/templates", getTherapistTemplates.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/templates/{templateId}", updateTemplate.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/templates/{templateId}", deleteTemplate.Handle).Methods(http.MethodDelete)

	// --- Слоты времени ---
	protected.HandleFunc("/templates/{templateId}/generate-slots", generateSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/therapists/{therapistId}/slots", getTherapistSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/number/{bookingNumber}", getBooking.HandleByNumber).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/patients/{patientId}/bookings", getPatientBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/therapists/{therapistId}/bookings", getTherapistBookings.Handle).Methods(http.MethodGet)

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
