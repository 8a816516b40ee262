package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"mileage-logbook/internal/errors"
)

// MemoryStore keeps values as their encoded text, so values round-trip
// through the same encoding the SQLite store uses.
type MemoryStore struct {
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// GetInt returns the integer stored under key
func (s *MemoryStore) GetInt(_ context.Context, key string) (int, bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return 0, false, nil
	}
	return DecodeInt(key, raw)
}

// SetInt stores an integer under key
func (s *MemoryStore) SetInt(_ context.Context, key string, value int) error {
	s.values[key] = EncodeInt(value)
	return nil
}

// GetJSON decodes the document stored under key into dst
func (s *MemoryStore) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	if err := DecodeJSON(key, raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON encodes value and stores it under key
func (s *MemoryStore) SetJSON(_ context.Context, key string, value any) error {
	raw, err := EncodeJSON(key, value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	return nil
}

// Remove deletes key; removing a missing key is a no-op
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

// Clear deletes every key
func (s *MemoryStore) Clear(_ context.Context) error {
	s.values = make(map[string]string)
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored keys
func (s *MemoryStore) Len() int {
	return len(s.values)
}

// EncodeInt formats an integer value for storage
func EncodeInt(value int) string {
	return strconv.Itoa(value)
}

// DecodeInt parses a stored integer value
func DecodeInt(key, raw string) (int, bool, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, errors.NewStorageError("decode "+key, err)
	}
	return v, true, nil
}

// EncodeJSON marshals a value for storage
func EncodeJSON(key string, value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", errors.NewStorageError("encode "+key, err)
	}
	return string(data), nil
}

// DecodeJSON unmarshals a stored document into dst
func DecodeJSON(key, raw string, dst any) error {
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.NewStorageError("decode "+key, err)
	}
	return nil
}
