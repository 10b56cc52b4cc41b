//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"palms-analytics/internal/services/analysis"
	"palms-analytics/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("=== PALMS Analytics - Local Test ===")
	fmt.Println()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Warning: Could not load .env file: %v\n", err)
	}

	if err := utils.InitLogger("warn"); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Logger.Sync()

	// Run the pipeline over a small in-memory chapter
	fmt.Println("📖 Running analysis over sample data...")

	memberGrid := [][]string{
		{"First Name", "Last Name"},
		{"Alice", "Anderson"},
		{"Bob", "Brown"},
		{"Carol", "Clark"},
	}
	slipGrid := [][]string{
		{"From", "To", "Slip Type", "", "Amount", "", "Detail"},
		{"Alice Anderson", "Bob Brown", "Referral", "", "", "", ""},
		{"Bob Brown", "Carol Clark", "One to One", "", "", "", ""},
		{"Carol Clark", "Alice Anderson", "TYFCB", "", "1,500", "", ""},
	}

	svc := analysis.NewService()
	report := svc.Run([][][]string{memberGrid}, [][][]string{slipGrid})
	if !report.Success {
		fmt.Printf("❌ Analysis failed: %v\n", report.Errors)
		os.Exit(1)
	}

	fmt.Printf("✅ Analysis complete: %d members, %d referrals, %d one-to-ones, %d TYFCBs\n",
		report.Roster.Len(), len(report.Referrals), len(report.Meetings), len(report.ThankYous))
	for _, w := range report.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}

	// Persist the run if a database is configured
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Println()
		fmt.Println("⚠️  DATABASE_URL not set, skipping persistence test")
		fmt.Println("🎉 Local test complete!")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)
	fmt.Println("✅ Connected to database")

	fmt.Println()
	fmt.Println("📥 Inserting run summary...")
	_, err = conn.Exec(ctx, `
		INSERT INTO analysis_runs (run_id, members, referrals, one_to_ones, tyfcbs, warnings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		report.RunID,
		report.Roster.Len(),
		len(report.Referrals),
		len(report.Meetings),
		len(report.ThankYous),
		len(report.Warnings),
		time.Now().UTC(),
	)
	if err != nil {
		fmt.Printf("❌ Failed to insert run: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Run %s persisted\n", report.RunID)

	fmt.Println()
	fmt.Println("🎉 Local test complete!")
}
