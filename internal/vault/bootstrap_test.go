package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/propkeeper/internal/cryptox"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	base := t.TempDir()
	ctx := context.Background()
	keys := cryptox.NewKeyStore(filepath.Join(base, "keys", "key.key"))
	preview := NewPreviewManager(filepath.Join(base, "temp_preview"), logging.Discard())
	dirs := []string{filepath.Join(base, "tenants"), filepath.Join(base, "properties"), ""}

	require.NoError(t, Bootstrap(ctx, keys, preview, dirs, logging.Discard()))

	assert.DirExists(t, dirs[0])
	assert.DirExists(t, dirs[1])
	assert.DirExists(t, preview.Dir())
	key, err := keys.LoadKey()
	require.NoError(t, err)

	leftover := filepath.Join(preview.Dir(), "old.pdf")
	require.NoError(t, os.WriteFile(leftover, []byte("x"), 0o600))

	require.NoError(t, Bootstrap(ctx, keys, preview, dirs, logging.Discard()))
	assert.NoFileExists(t, leftover)

	again, err := keys.LoadKey()
	require.NoError(t, err)
	assert.Equal(t, key, again, "existing key is kept")
}

func TestBootstrap_DirIsFile(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "tenants")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	keys := cryptox.NewKeyStore(filepath.Join(base, "key.key"))
	preview := NewPreviewManager(filepath.Join(base, "temp_preview"), logging.Discard())

	err := Bootstrap(context.Background(), keys, preview, []string{blocker}, logging.Discard())
	assert.Error(t, err)
}
