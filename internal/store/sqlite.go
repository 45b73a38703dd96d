// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"math"
	"sync"

	"github.com/zeebo/blake3"
)

// Current schema version
const SchemaVersion = "1"

// language tags databases written by this package, so a foreign SQLite
// file that happens to carry a metadata table is refused.
const language = "minipas"

// SQLite is a SQLite-backed store. Every assignment that changes a value
// becomes a new row in bindings; the highest version is the current value.
// Values are stored as float32 bit patterns so NaN and infinities survive.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens or creates a SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	version, err := s.getMetadata("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}

	switch version {
	case "":
		if err := s.migrateToV1(); err != nil {
			db.Close()
			return nil, err
		}
		if err := s.setMetadata("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	if err := s.checkLanguage(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// checkLanguage stamps an untagged database and rejects one tagged by
// another program.
func (s *SQLite) checkLanguage() error {
	tag, err := s.getMetadata("language")
	if err != nil {
		return err
	}
	switch tag {
	case "":
		return s.setMetadata("language", language)
	case language:
		return nil
	}
	return fmt.Errorf("database belongs to %q, not %s", tag, language)
}

// migrateToV1 creates the binding and run tables.
func (s *SQLite) migrateToV1() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS bindings (
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			bits INTEGER NOT NULL,
			ts TEXT NOT NULL,
			PRIMARY KEY (name, version)
		);
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			digest TEXT NOT NULL,
			status TEXT NOT NULL,
			ts TEXT NOT NULL
		);
	`)
	return err
}

// Get retrieves the current value of name.
func (s *SQLite) Get(name string) (float32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, bits, ok, err := s.latestUnlocked(name)
	if err != nil || !ok {
		return 0, false, err
	}
	return math.Float32frombits(bits), true, nil
}

// latestUnlocked returns the newest version of name (caller must hold lock).
func (s *SQLite) latestUnlocked(name string) (version int, bits uint32, ok bool, err error) {
	var raw int64
	err = s.db.QueryRow(
		"SELECT version, bits FROM bindings WHERE name = ? ORDER BY version DESC LIMIT 1", name,
	).Scan(&version, &raw)
	if err == sql.ErrNoRows {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return version, uint32(raw), true, nil
}

// Put binds name to v. Re-assigning the current value adds no version.
func (s *SQLite) Put(name string, v float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bits := math.Float32bits(v)
	version, cur, ok, err := s.latestUnlocked(name)
	if err != nil {
		return err
	}
	if ok && cur == bits {
		return nil
	}

	_, err = s.db.Exec(
		"INSERT INTO bindings (name, version, bits, ts) VALUES (?, ?, ?, ?)",
		name, version+1, int64(bits), now(),
	)
	return err
}

// Bindings returns the current value of every variable.
func (s *SQLite) Bindings() (map[string]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT b.name, b.bits FROM bindings b
		WHERE b.version = (SELECT MAX(version) FROM bindings WHERE name = b.name)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]float32)
	for rows.Next() {
		var name string
		var raw int64
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, err
		}
		out[name] = math.Float32frombits(uint32(raw))
	}
	return out, rows.Err()
}

// GetHistory returns the versions of name, newest first.
func (s *SQLite) GetHistory(name string, limit int) ([]VersionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		"SELECT version, bits, ts FROM bindings WHERE name = ? ORDER BY version DESC LIMIT ?",
		name, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []VersionEntry
	for rows.Next() {
		var ve VersionEntry
		var raw int64
		if err := rows.Scan(&ve.Version, &raw, &ve.Ts); err != nil {
			return nil, err
		}
		ve.Value = math.Float32frombits(uint32(raw))
		entries = append(entries, ve)
	}
	return entries, rows.Err()
}

// RecordRun logs one interpretation of source with its outcome.
func (s *SQLite) RecordRun(source string, runErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := "ok"
	if runErr != nil {
		status = runErr.Error()
	}
	sum := blake3.Sum256([]byte(source))
	_, err := s.db.Exec(
		"INSERT INTO runs (digest, status, ts) VALUES (?, ?, ?)",
		hex.EncodeToString(sum[:]), status, now(),
	)
	return err
}

// Runs returns recorded interpretations, newest first. A limit <= 0 returns all.
func (s *SQLite) Runs(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query("SELECT id, digest, status, ts FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Digest, &r.Status, &r.Ts); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// getMetadata retrieves a metadata value by key. Only NewSQLite calls it,
// before the store is shared.
func (s *SQLite) getMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// setMetadata stores a metadata value by key.
func (s *SQLite) setMetadata(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
