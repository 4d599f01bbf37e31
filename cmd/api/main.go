package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/config"
	appHTTP "github.com/cmlabs-hris/biometric-sync/internal/handler/http"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/cron"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/jwt"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/metrics"
	"github.com/cmlabs-hris/biometric-sync/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/biometric-sync/internal/service/attendance"
	checkinService "github.com/cmlabs-hris/biometric-sync/internal/service/checkin"
	repairService "github.com/cmlabs-hris/biometric-sync/internal/service/repair"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return 1
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		return 1
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	locker := postgresql.NewAdvisoryLocker(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	checkinRepo := postgresql.NewCheckinRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)
	shiftTypeRepo := postgresql.NewShiftTypeRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	commentRepo := postgresql.NewCommentRepository(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		locker,
		attendanceRepo,
		checkinRepo,
		deviceRepo,
		shiftTypeRepo,
		employeeRepo,
		holidayRepo,
		commentRepo,
		m,
	)
	checkinSvc := checkinService.NewCheckinService(transactor, checkinRepo, deviceRepo, employeeRepo, shiftTypeRepo, m)
	repairSvc := repairService.NewRepairService(transactor, locker, checkinRepo, attendanceRepo, commentRepo, m)

	router := appHTTP.NewRouter(
		JWTService,
		registry,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewCheckinHandler(checkinSvc),
		appHTTP.NewRepairHandler(repairSvc),
		appHTTP.RouterOptions{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       cfg.SlogLevel(),
		},
	)

	scheduler := cron.NewScheduler(ctx)
	jobs := cron.NewAttendanceJobs(attendanceSvc, repairSvc, cron.AttendanceJobsConfig{
		SyncInterval:   cfg.Sync.Interval,
		SyncTimeout:    cfg.Sync.Timeout,
		RepairInterval: cfg.Sync.RepairInterval,
		RepairLookback: cfg.Sync.RepairLookback,
	})
	jobs.RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
	slog.Info("Server stopped")
	return 0
}
