// cmd/reputation/main.go
// Maintenance tool for the reputation ledger
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"Cignito/internal/config"
	"Cignito/internal/core/reputation"
	"Cignito/internal/db/migrations"
	postgresRepo "Cignito/internal/db/postgres"
)

var (
	repair     bool
	jsonOutput bool
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "reputation",
	Short: "Inspect and repair the Cignito reputation ledger",
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Replay votes and acceptances and compare them with stored reputation",
	Long: `Recomputes every user's reputation from the votes and acceptance bonuses
behind it and reports users whose stored counter has drifted.

With --repair the drift is applied as a delta, so votes cast during the run
are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		svc := reputation.NewService(postgresRepo.NewLedgerStore(db), nil, slog.Default(), reputation.Options{})
		report, err := svc.Reconcile(ctx, repair)
		if err != nil {
			return err
		}
		return printReport(report)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.Up(db); err != nil {
			return err
		}
		log.Println("Migrations completed successfully")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Abort the run after this long")

	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().BoolVar(&repair, "repair", false, "Rewrite drifted counters")
	reconcileCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func printReport(report *reputation.ReconcileReport) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("Checked %d users, %d drifted\n", report.Checked, len(report.Drifts))
	for _, d := range report.Drifts {
		fmt.Printf("  %s: stored %d, expected %d\n", d.UserID, d.Stored, d.Expected)
	}
	if report.Repaired {
		fmt.Println("Drifted counters repaired")
	} else if len(report.Drifts) > 0 {
		fmt.Println("Run with --repair to fix")
	}
	return nil
}
