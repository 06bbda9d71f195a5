package flowstore

import (
	"errors"
	"sync"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface.
// A single instance is shared by every flow in the process.
type InMemoryRepo struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemoryRepo creates a new in-memory flow repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		values: make(map[string]string),
	}
}

// Set stores or replaces the value held under key
func (r *InMemoryRepo) Set(key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = value
	return nil
}

// Get retrieves the value held under key
func (r *InMemoryRepo) Get(key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.values[key]
	if !exists || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// Delete removes the value held under key. Deleting an empty slot is not an error.
func (r *InMemoryRepo) Delete(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, key)
	return nil
}

// Len reports how many slots currently hold a value
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}
