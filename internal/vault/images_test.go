package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.db.Exec(`INSERT INTO properties (property_id, door_number, street, postcode) VALUES (42, '12', 'Main St', 'AB1 2CD')`)
	require.NoError(t, err)

	pixels := []byte("\x89PNG fake")
	src := writeSource(t, t.TempDir(), "front.png", pixels, mtime)

	img, err := env.images.Add(ctx, 42, src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.roots[models.EntityProperty], "42_12_Main_St_AB1_2CD", ImagesDir), filepath.Dir(img.Path))
	got, err := os.ReadFile(img.Path)
	require.NoError(t, err)
	assert.Equal(t, pixels, got, "images are stored unencrypted")

	list, err := env.images.List(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, env.images.Delete(ctx, 42, img.ID))
	assert.NoFileExists(t, img.Path)

	err = env.images.Delete(ctx, 42, img.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestImageStore_RejectsNonImages(t *testing.T) {
	env := newTestEnv(t)
	src := writeSource(t, t.TempDir(), "notes.pdf", []byte("x"), mtime)

	_, err := env.images.Add(context.Background(), 42, src)
	assert.Equal(t, common.KindInvalid, common.KindOf(err))
	assert.True(t, IsImage("A.JPEG"))
	assert.False(t, IsImage("a.gif"))
}

func TestImageStore_FailedAddLeavesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	src := writeSource(t, t.TempDir(), "front.png", []byte("png"), mtime)

	// no property 43: the foreign key rejects the row
	_, err := env.images.Add(ctx, 43, src)
	require.Error(t, err)
	assert.Equal(t, common.KindDatabase, common.KindOf(err))
	assert.NoDirExists(t, filepath.Join(env.roots[models.EntityProperty], "43"))
	assert.Equal(t, 0, countRows(t, env.db, `SELECT COUNT(*) FROM entity_folders`))

	_, err = env.db.Exec(`INSERT INTO properties (property_id, door_number, street, postcode) VALUES (43, '1', 'High St', 'Z1')`)
	require.NoError(t, err)

	img, err := env.images.Add(ctx, 43, src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.roots[models.EntityProperty], "43_1_High_St_Z1", ImagesDir), filepath.Dir(img.Path))
	assert.Equal(t, 1, countRows(t, env.db, `SELECT COUNT(*) FROM entity_folders`))
}
