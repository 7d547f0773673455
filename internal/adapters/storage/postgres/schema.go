package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema crea las tablas del record store si no existen.
// Las columnas siguen los nombres JSON de las filas de records.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id text PRIMARY KEY,
		full_name text NOT NULL DEFAULT '',
		email text NOT NULL DEFAULT '',
		phone text NOT NULL DEFAULT '',
		city text NOT NULL DEFAULT '',
		role text NOT NULL DEFAULT 'user',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS hospitals (
		id text PRIMARY KEY,
		name text NOT NULL,
		address text NOT NULL DEFAULT '',
		city text NOT NULL DEFAULT '',
		phone text NOT NULL DEFAULT '',
		email text NOT NULL DEFAULT '',
		specialities text[],
		emergency_services boolean NOT NULL DEFAULT false,
		rating double precision NOT NULL DEFAULT 0,
		latitude double precision,
		longitude double precision,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		id text PRIMARY KEY,
		hospital_id text NOT NULL REFERENCES hospitals(id),
		name text NOT NULL,
		specialization text NOT NULL DEFAULT '',
		phone text NOT NULL DEFAULT '',
		email text NOT NULL DEFAULT '',
		rating double precision NOT NULL DEFAULT 0,
		qualification text NOT NULL DEFAULT '',
		experience_years integer NOT NULL DEFAULT 0,
		consultation_fee double precision NOT NULL DEFAULT 0,
		available_hours text NOT NULL DEFAULT '',
		available_days text[],
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS medical_stores (
		id text PRIMARY KEY,
		name text NOT NULL,
		address text NOT NULL DEFAULT '',
		city text NOT NULL DEFAULT '',
		phone text NOT NULL DEFAULT '',
		email text NOT NULL DEFAULT '',
		license_number text NOT NULL DEFAULT '',
		operating_hours text NOT NULL DEFAULT '',
		rating double precision NOT NULL DEFAULT 0,
		latitude double precision,
		longitude double precision,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS blood_donors (
		id text PRIMARY KEY,
		user_id text NOT NULL UNIQUE,
		name text NOT NULL,
		blood_type text NOT NULL,
		age integer NOT NULL,
		weight double precision NOT NULL,
		last_donation_date date,
		medical_conditions text NOT NULL DEFAULT '',
		emergency_contact text NOT NULL DEFAULT '',
		location text NOT NULL DEFAULT '',
		is_available boolean NOT NULL DEFAULT true,
		latitude double precision,
		longitude double precision,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS blood_requests (
		id text PRIMARY KEY,
		requester_id text NOT NULL,
		patient_name text NOT NULL,
		blood_type text NOT NULL,
		units_needed integer NOT NULL,
		urgency text NOT NULL DEFAULT 'medium',
		hospital_name text NOT NULL,
		hospital_address text NOT NULL DEFAULT '',
		contact_phone text NOT NULL,
		additional_info text NOT NULL DEFAULT '',
		status text NOT NULL DEFAULT 'pending',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS medicine_reminders (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		medicine_name text NOT NULL,
		dosage text NOT NULL DEFAULT '',
		frequency text NOT NULL,
		reminder_times text[] NOT NULL,
		start_date date NOT NULL,
		end_date date,
		notes text NOT NULL DEFAULT '',
		is_active boolean NOT NULL DEFAULT true,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS medicine_reminders_user_idx ON medicine_reminders (user_id)`,
	`CREATE INDEX IF NOT EXISTS doctors_hospital_idx ON doctors (hospital_id)`,
	`CREATE INDEX IF NOT EXISTS blood_donors_type_idx ON blood_donors (blood_type, is_available)`,
}

// Migrate es idempotente; se corre al arrancar con STORE_BACKEND=postgres.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
	}
	return nil
}
