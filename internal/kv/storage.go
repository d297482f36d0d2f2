package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("key not found")

// Storage is the persistent key-value collaborator the stores snapshot into.
// Consumers define this interface, the backends below only satisfy it.
type Storage interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ErrCorrupt marks a snapshot that exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt snapshot")

// LoadJSON reads key and decodes it into v. It returns ErrNotFound when the
// key is absent and an error wrapping ErrCorrupt when decoding fails.
func LoadJSON(ctx context.Context, s Storage, key string, v any) error {
	raw, err := s.Read(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

func SaveJSON(ctx context.Context, s Storage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot failed: %w", key, err)
	}
	return s.Write(ctx, key, string(data))
}
