package intake

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/infra/repository"
)

func TestResolveMissIsNotAnError(t *testing.T) {
	r := NewResolver(repository.NewMemoryRepository())

	c, err := r.ResolveClient(context.Background(), "0700000001")
	require.NoError(t, err)
	assert.False(t, c.IsFound())

	d, err := r.ResolveDevice(context.Background(), "SN-1")
	require.NoError(t, err)
	assert.False(t, d.IsFound())

	_, err = r.ResolveClient(context.Background(), " ")
	assert.True(t, httperr.IsValidation(err, "required_field"))
}

func TestCreateClientConflict(t *testing.T) {
	r := NewResolver(repository.NewMemoryRepository())
	ctx := context.Background()

	_, err := r.CreateClient(ctx, clientForm("0700000001"))
	require.NoError(t, err)

	_, err = r.CreateClient(ctx, clientForm("0700-000-001"))
	assert.True(t, httperr.IsConflict(err))
}

func TestResolveOrCreateClientReResolvesAfterConflict(t *testing.T) {
	mem := repository.NewMemoryRepository()
	ctx := context.Background()

	winner, err := NewResolver(mem).CreateClient(ctx, clientForm("0700000001"))
	require.NoError(t, err)

	r := NewResolver(&racyRepo{Repository: mem})
	res, err := r.ResolveOrCreateClient(ctx, clientForm("0700000001"))
	require.NoError(t, err)
	assert.True(t, res.Reused)
	assert.Equal(t, winner.ID, res.Record.ID)
}

func TestConcurrentResolveOrCreateClientYieldsOneRecord(t *testing.T) {
	mem := repository.NewMemoryRepository()
	r := NewResolver(mem)
	ctx := context.Background()

	const n = 16
	ids := make([]uint, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := r.ResolveOrCreateClient(ctx, clientForm("0700000001"))
			errs[i] = err
			if err == nil {
				ids[i] = res.Record.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestResolveOrCreateDeviceOwnerMismatch(t *testing.T) {
	mem := repository.NewMemoryRepository()
	r := NewResolver(mem)
	ctx := context.Background()

	a, err := r.CreateClient(ctx, clientForm("0700000001"))
	require.NoError(t, err)
	b, err := r.CreateClient(ctx, clientForm("0700000002"))
	require.NoError(t, err)

	first, err := r.ResolveOrCreateDevice(ctx, deviceForm("SN-1"), a.ID)
	require.NoError(t, err)
	assert.False(t, first.Reused)

	again, err := r.ResolveOrCreateDevice(ctx, deviceForm("SN-1"), a.ID)
	require.NoError(t, err)
	assert.True(t, again.Reused)
	assert.Equal(t, first.Record.ID, again.Record.ID)

	_, err = r.ResolveOrCreateDevice(ctx, deviceForm("SN-1"), b.ID)
	assert.True(t, httperr.IsValidation(err, "device_owner_mismatch"))
}
