package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/transops/transops/internal/config"
	"github.com/transops/transops/internal/infra"
	"github.com/transops/transops/internal/logging"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id UUID PRIMARY KEY,
        email TEXT NOT NULL UNIQUE,
        name TEXT NOT NULL DEFAULT '',
        role TEXT NOT NULL,
        phone TEXT NOT NULL DEFAULT '',
        fleet_owner_id UUID REFERENCES users(id),
        password_hash BYTEA NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS wallets (
        id UUID PRIMARY KEY,
        driver_id UUID NOT NULL UNIQUE REFERENCES users(id),
        balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
        fuel_limit BIGINT NOT NULL DEFAULT 0,
        toll_limit BIGINT NOT NULL DEFAULT 0,
        food_limit BIGINT NOT NULL DEFAULT 0,
        lodging_limit BIGINT NOT NULL DEFAULT 0,
        repair_limit BIGINT NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS vehicles (
        id UUID PRIMARY KEY,
        owner_id UUID NOT NULL REFERENCES users(id),
        registration_number TEXT NOT NULL UNIQUE,
        model TEXT NOT NULL DEFAULT '',
        capacity_tons DOUBLE PRECISION NOT NULL DEFAULT 0,
        status TEXT NOT NULL DEFAULT 'available',
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS trips (
        id UUID PRIMARY KEY,
        fleet_owner_id UUID NOT NULL REFERENCES users(id),
        driver_id UUID NOT NULL REFERENCES users(id),
        vehicle_id UUID NOT NULL REFERENCES vehicles(id),
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        cargo_details TEXT,
        estimated_distance DOUBLE PRECISION NOT NULL DEFAULT 0,
        status TEXT NOT NULL DEFAULT 'planned',
        total_expenses BIGINT NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        started_at TIMESTAMPTZ,
        completed_at TIMESTAMPTZ
    )`,
	`CREATE TABLE IF NOT EXISTS expenses (
        id UUID PRIMARY KEY,
        trip_id UUID NOT NULL REFERENCES trips(id),
        driver_id UUID NOT NULL REFERENCES users(id),
        category TEXT NOT NULL,
        amount BIGINT NOT NULL CHECK (amount > 0),
        description TEXT,
        location TEXT,
        status TEXT NOT NULL DEFAULT 'approved',
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_trip ON expenses (trip_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_driver ON expenses (driver_id)`,
	`CREATE TABLE IF NOT EXISTS return_loads (
        id UUID PRIMARY KEY,
        posted_by UUID NOT NULL REFERENCES users(id),
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        cargo_type TEXT NOT NULL DEFAULT '',
        weight_tons DOUBLE PRECISION NOT NULL DEFAULT 0,
        price BIGINT NOT NULL DEFAULT 0,
        status TEXT NOT NULL DEFAULT 'available',
        booked_by UUID REFERENCES users(id),
        booked_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS driver_performance (
        id UUID PRIMARY KEY,
        driver_id UUID NOT NULL UNIQUE REFERENCES users(id),
        total_trips INTEGER NOT NULL DEFAULT 0,
        total_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
        safety_score DOUBLE PRECISION NOT NULL DEFAULT 100,
        reward_points BIGINT NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS payment_transactions (
        id UUID PRIMARY KEY,
        user_id UUID NOT NULL REFERENCES users(id),
        session_id TEXT NOT NULL UNIQUE,
        amount BIGINT NOT NULL CHECK (amount > 0),
        currency TEXT NOT NULL,
        package TEXT,
        payment_status TEXT NOT NULL DEFAULT 'pending',
        status TEXT NOT NULL DEFAULT 'initiated',
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			logger.Error("apply statement", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("schema up to date", "statements", len(statements))
}
