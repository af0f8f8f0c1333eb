// Package store provides trips.Store implementations.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/warp/trip-engine/trips"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps each vehicle's document as serialized JSON so Load always
// hands back an independent snapshot, never a live reference.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

// Load returns the stored snapshot, or an empty document for an unknown
// vehicle.
func (m *Memory) Load(_ context.Context, vehicleID string) (trips.Document, error) {
	m.mu.RLock()
	raw, ok := m.docs[vehicleID]
	m.mu.RUnlock()

	if !ok {
		return trips.Document{}, nil
	}
	var doc trips.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return trips.Document{}, err
	}
	return doc, nil
}

// Save replaces the vehicle's document atomically.
func (m *Memory) Save(_ context.Context, vehicleID string, doc trips.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[vehicleID] = raw
	m.mu.Unlock()
	return nil
}

var _ trips.Store = (*Memory)(nil)
