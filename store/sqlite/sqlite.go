/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements trips.Store (one trip document per vehicle) and
  vehicle.ProfileStore using SQLite. The same patterns apply to any SQL
  backend - only dialect details differ.

KEY TABLES:
  vehicle_trips: One row per vehicle holding the serialized trips document.
                 Save is a single upsert, so each mutation commits the full
                 snapshot atomically.
  vehicles:      Vehicle profiles (timezone, charging power, battery data).

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time, better crash
  recovery.

USAGE:
  store, err := sqlite.New("./data/trips.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - trips/store.go: Interface and wire document definitions
  - trips/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/trip-engine/trips"
	"github.com/warp/trip-engine/vehicle"
)

// Store implements trips.Store and vehicle.ProfileStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- One serialized trip document per vehicle
	CREATE TABLE IF NOT EXISTS vehicle_trips (
		vehicle_id TEXT PRIMARY KEY,
		document   TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Vehicle profiles
	CREATE TABLE IF NOT EXISTS vehicles (
		id                    TEXT PRIMARY KEY,
		name                  TEXT NOT NULL,
		vehicle_type          TEXT NOT NULL,
		timezone              TEXT NOT NULL DEFAULT '',
		battery_capacity_kwh  REAL NOT NULL DEFAULT 0,
		charging_power_kw     REAL NOT NULL,
		kwh_per_km            REAL NOT NULL,
		safety_margin_percent REAL NOT NULL,
		created_at            TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRIPS.STORE
// =============================================================================

// Load returns the vehicle's trip document, or an empty document when the
// vehicle has no row yet.
func (s *Store) Load(ctx context.Context, vehicleID string) (trips.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM vehicle_trips WHERE vehicle_id = ?`, vehicleID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return trips.Document{}, nil
	}
	if err != nil {
		return trips.Document{}, fmt.Errorf("loading trips for %s: %w", vehicleID, err)
	}

	var doc trips.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return trips.Document{}, fmt.Errorf("decoding trips document for %s: %w", vehicleID, err)
	}
	return doc, nil
}

// Save upserts the full document in a single statement.
func (s *Store) Save(ctx context.Context, vehicleID string, doc trips.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding trips document for %s: %w", vehicleID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vehicle_trips (vehicle_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(vehicle_id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`, vehicleID, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving trips for %s: %w", vehicleID, err)
	}
	return nil
}

// =============================================================================
// VEHICLE.PROFILESTORE
// =============================================================================

// SaveProfile upserts a vehicle profile.
func (s *Store) SaveProfile(ctx context.Context, p vehicle.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := p.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vehicles
			(id, name, vehicle_type, timezone, battery_capacity_kwh,
			 charging_power_kw, kwh_per_km, safety_margin_percent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			vehicle_type = excluded.vehicle_type,
			timezone = excluded.timezone,
			battery_capacity_kwh = excluded.battery_capacity_kwh,
			charging_power_kw = excluded.charging_power_kw,
			kwh_per_km = excluded.kwh_per_km,
			safety_margin_percent = excluded.safety_margin_percent
	`, p.ID, p.Name, string(p.Type), p.Timezone, p.BatteryCapacityKWh,
		p.ChargingPowerKW, p.KWhPerKM, p.SafetyMarginPercent,
		created.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving vehicle %s: %w", p.ID, err)
	}
	return nil
}

// LoadProfiles returns all stored vehicle profiles.
func (s *Store) LoadProfiles(ctx context.Context) ([]vehicle.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, vehicle_type, timezone, battery_capacity_kwh,
		       charging_power_kw, kwh_per_km, safety_margin_percent, created_at
		FROM vehicles ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("loading vehicles: %w", err)
	}
	defer rows.Close()

	var out []vehicle.Profile
	for rows.Next() {
		var p vehicle.Profile
		var vtype, createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &vtype, &p.Timezone, &p.BatteryCapacityKWh,
			&p.ChargingPowerKW, &p.KWhPerKM, &p.SafetyMarginPercent, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning vehicle row: %w", err)
		}
		p.Type = vehicle.Type(vtype)
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			p.Created = t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var (
	_ trips.Store          = (*Store)(nil)
	_ vehicle.ProfileStore = (*Store)(nil)
)
