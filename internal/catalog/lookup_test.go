package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_StopsAtPageHoldingTarget(t *testing.T) {
	fake := newFakeCatalog(25, 10)
	lk := NewLookup(fake, nil, 10, nil)

	e, err := lk.Find(context.Background(), "c15")

	require.NoError(t, err)
	assert.Equal(t, "c15", e.ID)
	assert.Equal(t, []int{1, 2}, fake.Calls())
	assert.False(t, lk.State().Searching)
}

func TestLookup_NotFoundAfterAllPages(t *testing.T) {
	fake := newFakeCatalog(25, 10)
	lk := NewLookup(fake, nil, 10, nil)

	_, err := lk.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLookupNotFound)
	assert.Equal(t, []int{1, 2, 3}, fake.Calls())
	assert.True(t, lk.State().NotFound)

	// terminal until reset: no more fetches
	_, err = lk.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLookupNotFound)
	assert.Len(t, fake.Calls(), 3)

	lk.Reset()
	_, err = lk.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLookupNotFound)
	assert.Len(t, fake.Calls(), 6)
}

func TestLookup_FetchErrorResumesAtFailedPage(t *testing.T) {
	fake := newFakeCatalog(25, 10)
	fake.failOnce(2)
	lk := NewLookup(fake, nil, 10, nil)

	_, err := lk.Find(context.Background(), "c25")
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Page)

	e, err := lk.Find(context.Background(), "c25")
	require.NoError(t, err)
	assert.Equal(t, "c25", e.ID)
	// page 1 is never scanned twice in the same session
	assert.Equal(t, []int{1, 2, 2, 3}, fake.Calls())
}

func TestLookup_UsesAlreadyLoadedEntries(t *testing.T) {
	fake := newFakeCatalog(25, 10)
	loader := NewLoader(fake, 10, nil)
	loader.LoadNextPage(context.Background())

	lk := NewLookup(fake, loader, 10, nil)
	e, err := lk.Find(context.Background(), "c04")

	require.NoError(t, err)
	assert.Equal(t, "c04", e.ID)
	assert.Equal(t, []int{1}, fake.Calls(), "lookup must not fetch")
}

func TestLookup_FoundTargetIsRemembered(t *testing.T) {
	fake := newFakeCatalog(25, 10)
	lk := NewLookup(fake, nil, 10, nil)

	_, err := lk.Find(context.Background(), "c21")
	require.NoError(t, err)
	_, err = lk.Find(context.Background(), "c21")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, fake.Calls())
}

func TestLookup_NewTargetStartsNewSession(t *testing.T) {
	fake := newFakeCatalog(25, 10)
	lk := NewLookup(fake, nil, 10, nil)

	_, err := lk.Find(context.Background(), "c12")
	require.NoError(t, err)
	_, err = lk.Find(context.Background(), "c02")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 1}, fake.Calls())
	assert.Equal(t, "c02", lk.State().Target)
}

func TestLookup_PanickingFetcherReportsFetchError(t *testing.T) {
	f := PageFetcherFunc(func(context.Context, int, int) (PageResult, error) {
		panic("decoder bug")
	})
	lk := NewLookup(f, nil, 10, nil)

	_, err := lk.Find(context.Background(), "c01")

	assert.True(t, IsFetchError(err))
	assert.False(t, lk.State().Searching)
}
