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

	acceptBookingHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/accept_booking"
	cancelBookingHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/create_booking"
	findVehiclesHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/find_available_vehicles"
	getBookingHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/get_booking"
	getMerchantBookingsHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/get_merchant_bookings"
	getRenterBookingsHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/get_renter_bookings"
	getSystemConfigHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/get_system_config"
	logoutHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/logout"
	merchantStatsHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/merchant_stats"
	refreshTokenHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/refresh_token"
	rejectBookingHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/reject_booking"
	sendOTPHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/send_otp"
	updateSystemConfigHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/update_system_config"
	verifyOTPHandler "github.com/rentmyvroom/RMV-CoreService/internal/api/handlers/verify_otp"
	"github.com/rentmyvroom/RMV-CoreService/internal/api/middleware"
	"github.com/rentmyvroom/RMV-CoreService/internal/config"
	bookingRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/booking"
	otpRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/otp"
	refreshTokenRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/refreshtoken"
	systemConfigRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/systemconfig"
	userRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/user"
	vehicleRepo "github.com/rentmyvroom/RMV-CoreService/internal/infra/storage/vehicle"
	mailerClient "github.com/rentmyvroom/RMV-CoreService/internal/integrations/mailer"
	whatsappClient "github.com/rentmyvroom/RMV-CoreService/internal/integrations/whatsapp"
	authService "github.com/rentmyvroom/RMV-CoreService/internal/service/auth"
	bookingsService "github.com/rentmyvroom/RMV-CoreService/internal/service/bookings"
	notificationsService "github.com/rentmyvroom/RMV-CoreService/internal/service/notifications"
	otpService "github.com/rentmyvroom/RMV-CoreService/internal/service/otp"
	systemConfigService "github.com/rentmyvroom/RMV-CoreService/internal/service/systemconfig"
	createBookingUC "github.com/rentmyvroom/RMV-CoreService/internal/usecase/create_booking"
	findVehiclesUC "github.com/rentmyvroom/RMV-CoreService/internal/usecase/find_available_vehicles"
	"github.com/rentmyvroom/RMV-CoreService/pkg/dbmetrics"
	"github.com/rentmyvroom/RMV-CoreService/pkg/logger"
	"github.com/rentmyvroom/RMV-CoreService/pkg/metrics"
	"github.com/rentmyvroom/RMV-CoreService/pkg/simpletxmanager"
	"github.com/rentmyvroom/RMV-CoreService/pkg/txmanager"
)

// sweepInterval период фоновой очистки истёкших OTP и refresh токенов
const sweepInterval = time.Hour

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

	log.Info("Starting RMV-CoreService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем интеграционных клиентов
	whatsapp := whatsappClient.NewClient(
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.PhoneNumberID,
		cfg.WhatsApp.APIVersion,
		cfg.WhatsApp.TemplateName,
		time.Duration(cfg.WhatsApp.Timeout)*time.Second,
		log,
	)
	mailer := mailerClient.NewClient(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		log,
	)
	log.Info("Integration clients initialized (WhatsApp timeout=%ds, SMTP host=%s)",
		cfg.WhatsApp.Timeout, cfg.SMTP.Host)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		otpRepository          *otpRepo.Repository
		refreshTokenRepository *refreshTokenRepo.Repository
		systemConfigRepository *systemConfigRepo.Repository
		userRepository         *userRepo.Repository
		vehicleRepository      *vehicleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		otpRepository = otpRepo.NewRepository(wrappedDB)
		refreshTokenRepository = refreshTokenRepo.NewRepository(wrappedDB)
		systemConfigRepository = systemConfigRepo.NewRepository(wrappedDB)
		userRepository = userRepo.NewRepository(wrappedDB)
		vehicleRepository = vehicleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		otpRepository = otpRepo.NewRepository(db)
		refreshTokenRepository = refreshTokenRepo.NewRepository(db)
		systemConfigRepository = systemConfigRepo.NewRepository(db)
		userRepository = userRepo.NewRepository(db)
		vehicleRepository = vehicleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	notificationsSvc := notificationsService.NewService(
		mailer,
		whatsapp,
		time.Duration(cfg.Notifications.Timeout)*time.Second,
		log,
	)
	systemConfigSvc := systemConfigService.NewService(systemConfigRepository, log)

	// Генератор кодов: фиксированный в тестовом режиме, иначе случайный
	var codeGenerator otpService.CodeGenerator
	if cfg.OTP.TestCode != "" {
		codeGenerator = otpService.NewFixedGenerator(cfg.OTP.TestCode)
		log.Warn("OTP test mode enabled: fixed code, no cooldown, no delivery")
	} else {
		codeGenerator = otpService.NewRandomGenerator()
	}

	otpSvc := otpService.NewService(
		otpRepository,
		systemConfigSvc,
		notificationsSvc,
		codeGenerator,
		log,
	)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		userRepository,
		vehicleRepository,
		systemConfigSvc,
		notificationsSvc,
		log,
	)

	tokenManager := authService.NewTokenManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTokenTTLDays)*24*time.Hour,
	)
	authSvc := authService.NewService(
		userRepository,
		otpSvc,
		refreshTokenRepository,
		tokenManager,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		userRepository,
		vehicleRepository,
		txMgr,
		notificationsSvc,
		log,
	)
	findVehiclesUseCase := findVehiclesUC.NewUseCase(vehicleRepository, log)

	// Инициализируем handlers
	sendOTP := sendOTPHandler.NewHandler(authSvc, log)
	verifyOTP := verifyOTPHandler.NewHandler(authSvc, log)
	refreshToken := refreshTokenHandler.NewHandler(authSvc, log)
	logout := logoutHandler.NewHandler(authSvc, log)
	findVehicles := findVehiclesHandler.NewHandler(findVehiclesUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	acceptBooking := acceptBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getRenterBookings := getRenterBookingsHandler.NewHandler(bookingSvc, log)
	getMerchantBookings := getMerchantBookingsHandler.NewHandler(bookingSvc, log)
	merchantStats := merchantStatsHandler.NewHandler(bookingSvc, log)
	getSystemConfig := getSystemConfigHandler.NewHandler(systemConfigSvc, log)
	updateSystemConfig := updateSystemConfigHandler.NewHandler(systemConfigSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Вход по номеру телефона
	api.HandleFunc("/auth/otp/send", sendOTP.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/otp/verify", verifyOTP.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", refreshToken.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", logout.Handle).Methods(http.MethodPost)

	// Поиск доступных автомобилей
	api.HandleFunc("/vehicles/available", findVehicles.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokenManager))

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/accept", acceptBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Личные списки и статистика ---
	protected.HandleFunc("/renters/me/bookings", getRenterBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/merchants/me/bookings", getMerchantBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/merchants/me/stats", merchantStats.Handle).Methods(http.MethodGet)

	// --- Администрирование бизнес-политик ---
	protected.HandleFunc("/admin/config", getSystemConfig.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/config", updateSystemConfig.Handle).Methods(http.MethodPut)

	// Фоновая очистка истёкших OTP и refresh токенов
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n, err := otpSvc.SweepExpired(sweepCtx); err != nil {
					log.Error("OTP sweep failed: %v", err)
				} else if n > 0 {
					log.Info("OTP sweep removed %d expired codes", n)
				}

				if n, err := authSvc.SweepExpiredTokens(sweepCtx); err != nil {
					log.Error("Refresh token sweep failed: %v", err)
				} else if n > 0 {
					log.Info("Refresh token sweep removed %d expired tokens", n)
				}
			}
		}
	}()

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

	stopSweep()

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

	// Дожидаемся завершения уведомлений в полёте
	notificationsSvc.Wait()

	log.Info("Server stopped gracefully")
}
