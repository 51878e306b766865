package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mediumFactory struct {
	name string
	open func(t *testing.T) Medium
}

func mediumFactories() []mediumFactory {
	return []mediumFactory{
		{
			name: "memory",
			open: func(t *testing.T) Medium { return NewMemory() },
		},
		{
			name: "miniredis",
			open: func(t *testing.T) Medium {
				t.Helper()
				mr, err := miniredis.Run()
				require.NoError(t, err)
				rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
				t.Cleanup(func() {
					_ = rdb.Close()
					mr.Close()
				})
				return NewRedis(rdb, "test")
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) Medium {
				t.Helper()
				s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
				require.NoError(t, err)
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
	}
}

func TestMediumGetUnsetKeyReportsAbsence(t *testing.T) {
	for _, f := range mediumFactories() {
		t.Run(f.name, func(t *testing.T) {
			m := f.open(t)

			v, ok, err := m.Get(context.Background(), "missing")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestMediumSetGetOverwriteRemove(t *testing.T) {
	for _, f := range mediumFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			m := f.open(t)

			require.NoError(t, m.Set(ctx, "k", `{"token":"t1"}`))
			v, ok, err := m.Get(ctx, "k")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"token":"t1"}`, v)

			require.NoError(t, m.Set(ctx, "k", "second"))
			v, _, err = m.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "second", v)

			require.NoError(t, m.Remove(ctx, "k"))
			_, ok, err = m.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			// Removing twice is not an error.
			require.NoError(t, m.Remove(ctx, "k"))
		})
	}
}

func TestMediumKeysAreIndependent(t *testing.T) {
	for _, f := range mediumFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			m := f.open(t)

			require.NoError(t, m.Set(ctx, "a", "1"))
			require.NoError(t, m.Set(ctx, "b", "2"))
			require.NoError(t, m.Remove(ctx, "a"))

			v, ok, err := m.Get(ctx, "b")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "2", v)
		})
	}
}

func TestRedisUsesPrefixedKeys(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	m := NewRedis(rdb, "")
	require.NoError(t, m.Set(context.Background(), "@marketspace:token", "v"))

	got, err := mr.Get(DefaultRedisPrefix + ":@marketspace:token")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestRedisUnavailableWrapsError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	m := NewRedis(rdb, "test")

	mr.Close()

	_, _, err = m.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, m.Set(context.Background(), "k", "v"), ErrUnavailable)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", "durable"))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	v, ok, err := second.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "durable", v)
}

func TestSQLiteClosedRejectsOperations(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, _, err = s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestMemoryHonorsCanceledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Set(ctx, "k", "v"), context.Canceled)
	assert.Equal(t, 0, m.Len())
}
