package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/config"
	"github.com/fleetcrm/fleet-backend-go/internal/fixtures"
	appHTTP "github.com/fleetcrm/fleet-backend-go/internal/handler/http"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/cache"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/cron"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/jwt"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/metrics"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/storage"
	"github.com/fleetcrm/fleet-backend-go/internal/repository/postgresql"
	accidentService "github.com/fleetcrm/fleet-backend-go/internal/service/accident"
	advanceService "github.com/fleetcrm/fleet-backend-go/internal/service/advance"
	serviceAuth "github.com/fleetcrm/fleet-backend-go/internal/service/auth"
	driverService "github.com/fleetcrm/fleet-backend-go/internal/service/driver"
	dutyService "github.com/fleetcrm/fleet-backend-go/internal/service/duty"
	fastagService "github.com/fleetcrm/fleet-backend-go/internal/service/fastag"
	"github.com/fleetcrm/fleet-backend-go/internal/service/file"
	fuelService "github.com/fleetcrm/fleet-backend-go/internal/service/fuel"
	parkingService "github.com/fleetcrm/fleet-backend-go/internal/service/parking"
	salaryService "github.com/fleetcrm/fleet-backend-go/internal/service/salary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			log.Fatal("Failed to apply schema: ", err)
		}
	}

	cacheClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Failed to connect to redis: ", err)
	}
	defer cacheClient.Close()

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	driverRepo := postgresql.NewDriverRepository(db)
	dutyRepo := postgresql.NewDutyRepository(db)
	parkingRepo := postgresql.NewParkingRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	fuelRepo := postgresql.NewFuelRepository(db)
	fastagRepo := postgresql.NewFastagRepository(db)
	accidentRepo := postgresql.NewAccidentRepository(db)

	err = fixtures.EnsureOwner(ctx, tx, companyRepo, userRepo, fixtures.Owner{
		CompanyName: cfg.Bootstrap.CompanyName,
		Email:       cfg.Bootstrap.AdminEmail,
		Password:    cfg.Bootstrap.AdminPassword,
	})
	if err != nil {
		log.Fatal("Failed to seed owner account: ", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cache.NewRevocationStore(cacheClient))

	var localStorage *storage.LocalStorage
	switch cfg.Storage.Type {
	case "local":
		localStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}
	fileService := file.NewFileService(localStorage)

	calc := salaryService.NewCalculator(salaryService.BonusRules{
		SameDay:   cfg.Payroll.SameDayBonus,
		NightStay: cfg.Payroll.NightStayBonus,
	})

	authSvc := serviceAuth.NewAuthService(tx, userRepo, JWTService, refreshTokenRepo)
	driverSvc := driverService.NewDriverService(tx, driverRepo, userRepo)
	dutySvc := dutyService.NewDutyService(tx, dutyRepo, driverRepo, parkingRepo, fileService, dutyService.Options{
		Location:       cfg.Location(),
		AutoCloseAfter: cfg.Duty.AutoCloseAfter,
	})
	parkingSvc := parkingService.NewParkingService(parkingRepo, driverRepo, dutyRepo, fileService)
	advanceSvc := advanceService.NewAdvanceService(advanceRepo, driverRepo)
	salarySvc := salaryService.NewSalaryService(driverRepo, dutyRepo, parkingRepo, advanceRepo, calc)
	fuelSvc := fuelService.NewFuelService(fuelRepo, driverRepo, fileService)
	fastagSvc := fastagService.NewFastagService(fastagRepo)
	accidentSvc := accidentService.NewAccidentService(accidentRepo, driverRepo, fileService)

	appMetrics := metrics.New("fleet")

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Env:            cfg.App.Env,
		LogLevel:       cfg.App.LogLevel,
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadsDir:     localStorage.Dir(),
		UploadsURL:     cfg.Storage.BaseURL,
	}, JWTService, appHTTP.Handlers{
		Auth:     appHTTP.NewAuthHandler(JWTService, authSvc),
		Driver:   appHTTP.NewDriverHandler(driverSvc),
		Duty:     appHTTP.NewDutyHandler(dutySvc),
		Parking:  appHTTP.NewParkingHandler(parkingSvc),
		Advance:  appHTTP.NewAdvanceHandler(advanceSvc),
		Salary:   appHTTP.NewSalaryHandler(salarySvc, cfg.Location()),
		Fuel:     appHTTP.NewFuelHandler(fuelSvc),
		Fastag:   appHTTP.NewFastagHandler(fastagSvc),
		Accident: appHTTP.NewAccidentHandler(accidentSvc),
		Upload:   appHTTP.NewUploadHandler(fileService),
	}, appMetrics)

	scheduler := cron.NewScheduler(appMetrics)
	cron.NewDutyJobs(dutySvc, cacheClient, appMetrics, cfg.Duty.CronInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
