package memory

import (
	"context"
	"sort"
	"sync"

	"campuscore/pkg/domain"
)

var _ domain.OutboxStore = (*OutboxStore)(nil)

// OutboxStore buffers attendance payloads in process memory, keyed by class
// key. A second save for the same class/date overwrites the buffered payload.
type OutboxStore struct {
	mu      sync.RWMutex
	entries map[string]domain.AttendancePayload
}

// NewOutboxStore constructs an empty in-memory outbox.
func NewOutboxStore() *OutboxStore {
	return &OutboxStore{entries: make(map[string]domain.AttendancePayload)}
}

// Enqueue buffers a payload under its class key, replacing any prior payload
// for the same key.
func (o *OutboxStore) Enqueue(_ context.Context, payload domain.AttendancePayload) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[payload.ClassDetails.ClassKey()] = payload
	return nil
}

// PendingKeys lists the buffered class keys in sorted order.
func (o *OutboxStore) PendingKeys(_ context.Context) ([]string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	keys := make([]string, 0, len(o.entries))
	for key := range o.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Get returns the buffered payload for a class key.
func (o *OutboxStore) Get(_ context.Context, classKey string) (domain.AttendancePayload, bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	payload, ok := o.entries[classKey]
	return payload, ok, nil
}

// Remove drops the buffered payload for a class key. Removing an absent key is
// a no-op.
func (o *OutboxStore) Remove(_ context.Context, classKey string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.entries, classKey)
	return nil
}
