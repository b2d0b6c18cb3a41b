// Package storagetest holds the behaviour every storage.Store must share.
package storagetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-signupform/pkg/storage"
)

// RunStoreContract exercises store against the storage.Store contract.
func RunStoreContract(t *testing.T, store storage.Store) {
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract-a", []byte(`{"email":"a@example.com"}`)))

		got, err := store.Get(ctx, "contract-a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"email":"a@example.com"}`, string(got))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract-b", []byte(`1`)))
		require.NoError(t, store.Set(ctx, "contract-b", []byte(`2`)))

		got, err := store.Get(ctx, "contract-b")
		require.NoError(t, err)
		assert.Equal(t, "2", string(got))
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := store.Get(ctx, "contract-missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract-c", []byte(`{}`)))
		require.NoError(t, store.Delete(ctx, "contract-c"))

		_, err := store.Get(ctx, "contract-c")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		assert.NoError(t, store.Delete(ctx, "contract-c"), "deleting twice is not an error")
	})

	t.Run("Concurrent Writes", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Set(ctx, "contract-d", []byte(`{"n":1}`)))
			}()
		}
		wg.Wait()

		got, err := store.Get(ctx, "contract-d")
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":1}`, string(got))
	})
}
