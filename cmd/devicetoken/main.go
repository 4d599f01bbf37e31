package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/config"
	"github.com/cmlabs-hris/biometric-sync/internal/domain/user"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/jwt"
	"github.com/cmlabs-hris/biometric-sync/internal/repository/postgresql"
)

// devicetoken mints the access token a biometric device integration uses to
// push check-ins. The token subject is the device id.
func main() {
	os.Exit(run())
}

func run() int {
	deviceID := flag.String("device", "", "biometric device id (token subject)")
	companyID := flag.String("company", "", "company id the device belongs to")
	flag.Parse()

	if *deviceID == "" || *companyID == "" {
		fmt.Fprintln(os.Stderr, "usage: devicetoken -device <id> -company <id>")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 1})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		return 1
	}
	defer db.Close()

	if _, err := postgresql.NewDeviceRepository(db).GetByID(ctx, *deviceID); err != nil {
		slog.Error("Unknown device", "device_id", *deviceID, "error", err)
		return 1
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*deviceID, companyID, user.RoleDevice)
	if err != nil {
		slog.Error("Error generating token", "error", err)
		return 1
	}

	slog.Info("Device token minted", "device_id", *deviceID, "expires_at", time.Unix(expiresAt, 0).UTC())
	fmt.Println(token)
	return 0
}
