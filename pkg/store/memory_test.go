package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is an adjustable clock for driving record timestamps.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(clock *testClock) *MemoryStore {
	return NewMemory(Options{Now: clock.now})
}

func TestMemoryStore_Add(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(newTestClock())

	rec, err := st.Add(ctx, "Dockerfile", "FROM python:3.11-slim")
	require.NoError(t, err)

	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, "Dockerfile", rec.Name)
	assert.Equal(t, "FROM python:3.11-slim", rec.Content)
	assert.Equal(t, "2024-03-15", rec.CreatedDate)
	assert.Equal(t, "10:30:00.000000", rec.CreatedTime)
	assert.Equal(t, "UTC", rec.Timezone)
}

func TestMemoryStore_Add_EmptyName(t *testing.T) {
	st := newTestStore(newTestClock())
	_, err := st.Add(context.Background(), "", "FROM python")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestMemoryStore_Add_Duplicate(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	st := newTestStore(clock)

	_, err := st.Add(ctx, "Dockerfile", "v1")
	require.NoError(t, err)

	// same name at the exact same timestamp
	_, err = st.Add(ctx, "Dockerfile", "v2")
	assert.ErrorIs(t, err, ErrDuplicate)

	// a different name at the same timestamp is fine
	_, err = st.Add(ctx, "Dockerfile.dev", "v2")
	assert.NoError(t, err)

	// same name again once the clock moves
	clock.advance(time.Microsecond)
	_, err = st.Add(ctx, "Dockerfile", "v2")
	assert.NoError(t, err)
}

func TestMemoryStore_Add_TimezoneLabel(t *testing.T) {
	clock := newTestClock()
	loc := time.FixedZone("UTC+2", 2*60*60)
	st := NewMemory(Options{Location: loc, Now: clock.now})

	rec, err := st.Add(context.Background(), "Dockerfile", "content")
	require.NoError(t, err)
	assert.Equal(t, "UTC+2", rec.Timezone)
	assert.Equal(t, "12:30:00.000000", rec.CreatedTime)
}

func TestMemoryStore_All_NewestFirst(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	st := newTestStore(clock)

	for _, name := range []string{"first", "second", "third"} {
		_, err := st.Add(ctx, name, "content")
		require.NoError(t, err)
		clock.advance(time.Second)
	}

	records, err := st.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "third", records[0].Name)
	assert.Equal(t, "second", records[1].Name)
	assert.Equal(t, "first", records[2].Name)
}

func TestMemoryStore_ByDate(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	st := newTestStore(clock)

	_, err := st.Add(ctx, "morning", "content")
	require.NoError(t, err)
	clock.advance(time.Hour)
	_, err = st.Add(ctx, "noon", "content")
	require.NoError(t, err)
	clock.advance(24 * time.Hour)
	_, err = st.Add(ctx, "tomorrow", "content")
	require.NoError(t, err)

	records, err := st.ByDate(ctx, "2024-03-15")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "morning", records[0].Name)
	assert.Equal(t, "noon", records[1].Name)

	records, err = st.ByDate(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryStore_ByDateAndName_ReturnsLatest(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	st := newTestStore(clock)

	_, err := st.Add(ctx, "Dockerfile", "v1")
	require.NoError(t, err)
	clock.advance(time.Minute)
	_, err = st.Add(ctx, "Dockerfile", "v2")
	require.NoError(t, err)

	rec, err := st.ByDateAndName(ctx, "2024-03-15", "Dockerfile")
	require.NoError(t, err)
	assert.Equal(t, "v2", rec.Content)

	_, err = st.ByDateAndName(ctx, "2024-03-15", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.ByDateAndName(ctx, "2024-03-16", "Dockerfile")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Dates_NewestFirst(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	st := newTestStore(clock)

	for i := 0; i < 3; i++ {
		_, err := st.Add(ctx, "Dockerfile", "content")
		require.NoError(t, err)
		clock.advance(24 * time.Hour)
	}

	dates, err := st.Dates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-17", "2024-03-16", "2024-03-15"}, dates)
}

func TestMemoryStore_NamesByDate(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	st := newTestStore(clock)

	for _, name := range []string{"zeta", "alpha", "zeta"} {
		_, err := st.Add(ctx, name, "content")
		require.NoError(t, err)
		clock.advance(time.Second)
	}

	names, err := st.NamesByDate(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(newTestClock())

	rec, err := st.Add(ctx, "Dockerfile", "content")
	require.NoError(t, err)

	ok, err := st.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	records, err := st.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryStore_Stats(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	st := newTestStore(clock)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	_, err = st.Add(ctx, "Dockerfile", "content")
	require.NoError(t, err)
	clock.advance(24 * time.Hour)
	_, err = st.Add(ctx, "Dockerfile", "content")
	require.NoError(t, err)
	clock.advance(time.Second)
	_, err = st.Add(ctx, "Dockerfile.dev", "content")
	require.NoError(t, err)

	stats, err = st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalDockerfiles: 3, UniqueDates: 2, UniqueNames: 2}, stats)
}

func TestOpen_EmptyDSNUsesMemory(t *testing.T) {
	st, err := Open("  ", Options{})
	require.NoError(t, err)
	defer st.Close()
	assert.IsType(t, &MemoryStore{}, st)
}
