package folders

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/dbtest"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinKeepsFirstName(t *testing.T) {
	r := NewSQLRepository(dbtest.Open(t))
	ctx := context.Background()

	_, err := r.Get(ctx, models.EntityTenant, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)

	got, err := r.Pin(ctx, models.EntityTenant, 1, "1_Jane_Doe")
	require.NoError(t, err)
	assert.Equal(t, "1_Jane_Doe", got)

	got, err = r.Pin(ctx, models.EntityTenant, 1, "1_Jane_Smith")
	require.NoError(t, err)
	assert.Equal(t, "1_Jane_Doe", got)

	// same id, different type is a separate pin
	got, err = r.Pin(ctx, models.EntityLandlord, 1, "1_Sam_Lee")
	require.NoError(t, err)
	assert.Equal(t, "1_Sam_Lee", got)

	require.NoError(t, r.Unpin(ctx, models.EntityTenant, 1))
	_, err = r.Get(ctx, models.EntityTenant, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
