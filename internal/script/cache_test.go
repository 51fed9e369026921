package script

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheReusesParsedCondition(t *testing.T) {
	cache := NewConditionCache(16)

	first, err := cache.Parse("permission vip")
	require.NoError(t, err)

	second, err := cache.Parse("permission vip")
	require.NoError(t, err)
	require.Same(t, first, second)

	stats := cache.Stats()
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(1), stats.Misses)
	require.Equal(t, 1, stats.Entries)
}

func TestCacheKeyIsNormalized(t *testing.T) {
	cache := NewConditionCache(16)

	first, err := cache.Parse("any [ perm a ;  perm b ]")
	require.NoError(t, err)

	second, err := cache.Parse("any [perm a; perm b]")
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	cache := NewConditionCache(16)

	_, err := cache.Parse("any []")
	require.Error(t, err)
	require.Equal(t, 0, cache.Stats().Entries)

	_, err = cache.Parse("any []")
	require.Error(t, err)
}

func TestCacheEvictsWhenFull(t *testing.T) {
	cache := NewConditionCache(2)

	for i := 0; i < 5; i++ {
		_, err := cache.Parse(fmt.Sprintf("permission node.%d", i))
		require.NoError(t, err)
	}
	require.LessOrEqual(t, cache.Stats().Entries, 2)
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewConditionCache(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := cache.Parse(fmt.Sprintf("permission worker.%d", j%10))
				if err != nil {
					t.Errorf("worker %d: %v", n, err)
				}
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 10, cache.Stats().Entries)
}
