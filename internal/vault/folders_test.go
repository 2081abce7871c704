package vault

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/folders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLabels struct {
	label string
	ok    bool
	err   error
}

func (f fakeLabels) Label(context.Context, models.EntityType, int64) (string, bool, error) {
	return f.label, f.ok, f.err
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"O'Brien  Properties, Ltd.", "OBrien_Properties_Ltd"},
		{"12 Main St, AB1 2CD", "12_Main_St_AB1_2CD"},
		{"  Jane\tDoe\n", "Jane_Doe"},
		{"2025-01-01_12_Main St_AB1 2CD", "20250101_12_Main_St_AB1_2CD"},
		{"Zoë Ünal", "Zo_nal"},
		{"../../etc", "etc"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), tt.in)
	}
}

func TestFolderName(t *testing.T) {
	assert.Equal(t, "7_OBrien_Properties_Ltd", FolderName(7, "O'Brien  Properties, Ltd."))
	assert.Equal(t, "7", FolderName(7, ""))
	assert.Equal(t, "7", FolderName(7, "!!!"))
}

func TestFolderNameFor_Fallbacks(t *testing.T) {
	ctx := context.Background()

	n := NewFolderNamer(fakeLabels{}, nil, logging.Discard())
	assert.Equal(t, "404", n.FolderNameFor(ctx, models.EntityTenant, 404))

	n = NewFolderNamer(fakeLabels{err: errors.New("db closed")}, nil, logging.Discard())
	assert.Equal(t, "3", n.FolderNameFor(ctx, models.EntityTenant, 3))

	n = NewFolderNamer(fakeLabels{label: "Jane Doe", ok: true}, nil, logging.Discard())
	first := n.FolderNameFor(ctx, models.EntityTenant, 3)
	assert.Equal(t, "3_Jane_Doe", first)
	assert.Equal(t, first, n.FolderNameFor(ctx, models.EntityTenant, 3))
}

func TestFolderNameFor_Database(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pid, err := env.entities.CreateProperty(ctx, &models.Property{DoorNumber: "12", Street: "Main St", Postcode: "AB1 2CD"})
	require.NoError(t, err)
	tyid, err := env.entities.CreateTenancy(ctx, &models.Tenancy{PropertyID: pid, StartDate: "2025-01-01"})
	require.NoError(t, err)

	assert.Equal(t, FolderName(pid, "12_Main_St_AB1_2CD"), env.folders.FolderNameFor(ctx, models.EntityProperty, pid))
	assert.Equal(t, FolderName(tyid, "20250101_12_Main_St_AB1_2CD"), env.folders.FolderNameFor(ctx, models.EntityTenancy, tyid))
	assert.Equal(t, "999", env.folders.FolderNameFor(ctx, models.EntityLandlord, 999))
}

func TestResolve_PinnedSurvivesRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.entities.CreateTenant(ctx, &models.Tenant{FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)

	place, err := env.folders.Place(ctx, models.EntityTenant, id)
	require.NoError(t, err)
	require.NoError(t, env.folders.Commit(ctx, models.EntityTenant, id, place))
	pinned := place.Folder

	_, err = env.db.Exec(`UPDATE tenants SET last_name = 'Smith' WHERE tenant_id = ?`, id)
	require.NoError(t, err)

	assert.Equal(t, FolderName(id, "Jane Smith"), env.folders.FolderNameFor(ctx, models.EntityTenant, id))

	got, err := env.folders.Resolve(ctx, models.EntityTenant, id)
	require.NoError(t, err)
	assert.Equal(t, pinned, got)
	assert.Equal(t, FolderName(id, "Jane Doe"), got)
}

func TestPlace_FallbackIsNeverPinned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pins := folders.NewSQLRepository(env.db)

	// lookup error
	n := NewFolderNamer(fakeLabels{err: errors.New("db closed")}, pins, logging.Discard())
	p, err := n.Place(ctx, models.EntityTenant, 5)
	require.NoError(t, err)
	assert.Equal(t, "5", p.Folder)
	require.NoError(t, n.Commit(ctx, models.EntityTenant, 5, p))

	// missing entity
	p, err = env.folders.Place(ctx, models.EntityTenant, 5)
	require.NoError(t, err)
	assert.Equal(t, "5", p.Folder)
	require.NoError(t, env.folders.Commit(ctx, models.EntityTenant, 5, p))

	assert.Equal(t, 0, countRows(t, env.db, `SELECT COUNT(*) FROM entity_folders`))

	dbtestTenant(t, env, 5, "Jane", "Doe")
	p, err = env.folders.Place(ctx, models.EntityTenant, 5)
	require.NoError(t, err)
	assert.Equal(t, "5_Jane_Doe", p.Folder)
	require.NoError(t, env.folders.Commit(ctx, models.EntityTenant, 5, p))
	assert.Equal(t, 1, countRows(t, env.db, `SELECT COUNT(*) FROM entity_folders`))

	// already pinned: nothing left to commit
	p, err = env.folders.Place(ctx, models.EntityTenant, 5)
	require.NoError(t, err)
	assert.Equal(t, "5_Jane_Doe", p.Folder)
	assert.False(t, p.pin)
}
