//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("=== Database Initialization Script ===")
	fmt.Println()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Warning: Could not load .env file: %v\n", err)
	}

	// Get database URL
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Println("❌ DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// First connect to the default 'postgres' database to create ours
	postgresURL := strings.Replace(databaseURL, "/palms_analytics", "/postgres", 1)
	fmt.Println("📡 Connecting to PostgreSQL server...")

	adminConn, err := pgx.Connect(ctx, postgresURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}

	// Check if database exists
	var exists bool
	err = adminConn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = 'palms_analytics')").Scan(&exists)
	if err != nil {
		fmt.Printf("❌ Failed to check database existence: %v\n", err)
		adminConn.Close(ctx)
		os.Exit(1)
	}

	if !exists {
		fmt.Println("📦 Creating 'palms_analytics' database...")
		_, err = adminConn.Exec(ctx, "CREATE DATABASE palms_analytics")
		if err != nil {
			fmt.Printf("❌ Failed to create database: %v\n", err)
			adminConn.Close(ctx)
			os.Exit(1)
		}
		fmt.Println("✅ Database 'palms_analytics' created!")
	} else {
		fmt.Println("✅ Database 'palms_analytics' already exists")
	}
	adminConn.Close(ctx)

	// Now connect to the palms_analytics database
	fmt.Println("📡 Connecting to palms_analytics database...")
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	fmt.Println("✅ Connected to database successfully!")
	fmt.Println()

	// Read SQL file
	fmt.Println("📖 Reading SQL schema file...")
	sqlBytes, err := os.ReadFile("scripts/init_database.sql")
	if err != nil {
		fmt.Printf("❌ Failed to read SQL file: %v\n", err)
		os.Exit(1)
	}

	// Execute SQL
	fmt.Println("🚀 Executing database schema...")
	_, err = conn.Exec(ctx, string(sqlBytes))
	if err != nil {
		fmt.Printf("❌ Failed to execute SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Database schema executed successfully!")
	fmt.Println()

	// Verify by counting stored runs
	fmt.Println("🔍 Verifying database setup...")

	var runCount int
	err = conn.QueryRow(ctx, "SELECT COUNT(*) FROM analysis_runs").Scan(&runCount)
	if err != nil {
		fmt.Printf("⚠️  Warning: Could not count runs: %v\n", err)
	} else {
		fmt.Printf("   📦 Analysis runs in database: %d\n", runCount)
	}

	var slipCount int
	err = conn.QueryRow(ctx, "SELECT COUNT(*) FROM tyfcb_slips").Scan(&slipCount)
	if err != nil {
		fmt.Printf("⚠️  Warning: Could not count TYFCB slips: %v\n", err)
	} else {
		fmt.Printf("   📦 TYFCB slips in database: %d\n", slipCount)
	}

	fmt.Println()
	fmt.Println("🎉 Database initialization complete!")
}
