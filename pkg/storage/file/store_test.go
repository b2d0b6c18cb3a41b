package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-signupform/pkg/storage/file"
	"github.com/goliatone/go-signupform/pkg/storage/storagetest"
)

func TestFileStore_Contract(t *testing.T) {
	storagetest.RunStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	require.NoError(t, store.Set(context.Background(), "signup-form-values", []byte(`{}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "signup-form-values.json", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, "signup-form-values.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, store.Set(ctx, key, []byte(`{}`)), "key %q", key)
	}
}

func TestFileStore_DefaultBasePath(t *testing.T) {
	assert.Equal(t, ".signupform", file.New("").BasePath)
}
