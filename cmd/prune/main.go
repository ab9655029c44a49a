// Command prune removes enrollments whose member no longer exists and trims
// expired system logs. Orphans that own payments are reported, not deleted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/services"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	clk := clock.New(cfg.LocalUTCOffsetHours)
	enrollments := services.NewEnrollmentService(db, clk, nil, services.EnrollmentOptions{
		CashDiscountPercent: cfg.CashDiscountPercent,
		ConfirmPolicy:       cfg.PaymentConfirmPolicy,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pruned, err := enrollments.PruneOrphans(ctx)
	if err != nil {
		slog.Error("orphan prune failed", "error", err)
		os.Exit(1)
	}

	cutoff := clk.Now().AddDate(0, 0, -cfg.LogRetentionDays)
	logs, err := logging.PruneSystemLogs(db.WithContext(ctx), cutoff)
	if err != nil {
		slog.Error("system log prune failed", "error", err)
		os.Exit(1)
	}

	if pruned.Removed == 0 && pruned.Kept == 0 {
		fmt.Println("No orphan enrollments found.")
	} else {
		fmt.Printf("Removed %d orphan enrollment(s).\n", pruned.Removed)
	}
	if pruned.Kept > 0 {
		fmt.Printf("Kept %d orphan enrollment(s) that own payment history.\n", pruned.Kept)
	}
	fmt.Printf("Removed %d system log(s) older than %d days.\n", logs, cfg.LogRetentionDays)
}
