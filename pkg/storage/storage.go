// Package storage reads and writes the persisted form values slot. Stores
// hold raw JSON blobs; LoadValues turns them into form values and falls back
// to defaults on any problem.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-signupform/pkg/model"
)

// ErrNotFound is returned by a Store when a key holds nothing.
var ErrNotFound = errors.New("storage: key not found")

// Store is a named-slot key/value store. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadValues reads the JSON object stored at key and overlays it on
// defaults. A missing slot, a read failure, or a blob that is not a JSON
// object all yield a copy of defaults; failures are logged, never returned.
// Keys absent from the blob keep their default value.
func LoadValues(ctx context.Context, store Store, key string, defaults model.Values, logger *zap.Logger) model.Values {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		return defaults.Clone()
	}

	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("read persisted values", zap.String("key", key), zap.Error(err))
		}
		return defaults.Clone()
	}

	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil || stored == nil {
		logger.Warn("ignore malformed persisted values", zap.String("key", key), zap.Error(err))
		return defaults.Clone()
	}
	return model.Merge(defaults, stored)
}

// SaveValues writes values to key as a JSON object. Fields listed in omit
// are left out.
func SaveValues(ctx context.Context, store Store, key string, values model.Values, omit ...string) error {
	if store == nil {
		return errors.New("storage: store is nil")
	}
	out := values.Clone()
	for _, name := range omit {
		delete(out, name)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("storage: encode values: %w", err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("storage: save %s: %w", key, err)
	}
	return nil
}
