// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"math"
	"sync"
	"time"
)

// Map is an unsynchronized store backed by a plain map. It must be owned by
// a single run at a time.
type Map map[string]float32

// Get retrieves a binding by name.
func (m Map) Get(name string) (float32, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

// Put binds name to v.
func (m Map) Put(name string, v float32) error {
	m[name] = v
	return nil
}

// Bindings returns a copy of the map.
func (m Map) Bindings() (map[string]float32, error) {
	out := make(map[string]float32, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// Close is a no-op for map store.
func (Map) Close() error {
	return nil
}

// Memory is a thread-safe in-memory store that keeps version history.
type Memory struct {
	mu      sync.RWMutex
	history map[string][]VersionEntry // oldest first
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		history: make(map[string][]VersionEntry),
	}
}

// Get retrieves the current value of name.
func (m *Memory) Get(name string) (float32, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h := m.history[name]
	if len(h) == 0 {
		return 0, false, nil
	}
	return h[len(h)-1].Value, true, nil
}

// Put binds name to v. Re-assigning the current value adds no version.
func (m *Memory) Put(name string, v float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.history[name]
	if n := len(h); n > 0 && sameValue(h[n-1].Value, v) {
		return nil
	}
	m.history[name] = append(h, VersionEntry{
		Version: len(h) + 1,
		Value:   v,
		Ts:      now(),
	})
	return nil
}

// Bindings returns the current value of every variable.
func (m *Memory) Bindings() (map[string]float32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float32, len(m.history))
	for name, h := range m.history {
		out[name] = h[len(h)-1].Value
	}
	return out, nil
}

// GetHistory returns the versions of name, newest first.
func (m *Memory) GetHistory(name string, limit int) ([]VersionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h := m.history[name]
	if len(h) == 0 {
		return nil, nil
	}
	n := len(h)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]VersionEntry, 0, n)
	for i := len(h) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h[i])
	}
	return out, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// sameValue compares bit patterns, so NaN equals NaN and 0 differs from -0.
func sameValue(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
