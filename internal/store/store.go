// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store provides variable stores for minipas runs.
package store

// Store is the interface for variable bindings. Bindings are never removed;
// a variable stays bound for the life of the store.
type Store interface {
	// Get returns the current value of name and whether it is bound.
	Get(name string) (float32, bool, error)
	// Put binds name to v, overwriting any earlier value.
	Put(name string, v float32) error
	// Bindings returns a snapshot of every current binding.
	Bindings() (map[string]float32, error)
	// Close releases resources.
	Close() error
}

// VersionEntry represents a single assigned value of a variable.
type VersionEntry struct {
	Version int
	Value   float32
	Ts      string
}

// HistoryStore extends Store with version history queries.
type HistoryStore interface {
	// GetHistory returns versions newest-first. A limit <= 0 returns all.
	GetHistory(name string, limit int) ([]VersionEntry, error)
}

// Run is one recorded interpretation.
type Run struct {
	ID     int64
	Digest string // BLAKE3 of the program source, hex
	Status string // "ok" or the error text
	Ts     string
}

// RunRecorder is implemented by stores that keep a log of interpretations.
type RunRecorder interface {
	RecordRun(source string, runErr error) error
	// Runs returns recorded interpretations newest-first. A limit <= 0 returns all.
	Runs(limit int) ([]Run, error)
}
