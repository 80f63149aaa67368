package utils

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes differ by at most one and cover the range
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1]))
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Buckets are contiguous
		for maxIndex := 10; maxIndex < 500; maxIndex++ {
			var (
				pm   = NewPartitionMap(5, maxIndex)
				next int
			)
			for bn := 0; bn < pm.ParallelDegree; bn++ {
				kMin, kMax := pm.GetBucketRange(bn)
				assert.Equal(t, next, kMin)
				next = kMax
			}
			assert.Equal(t, maxIndex, next)
		}
	}
	{ // Run visits every index once and reports errors
		pm := NewPartitionMap(7, 1000)
		var count int64
		err := pm.Run(func(bn, kMin, kMax int) error {
			atomic.AddInt64(&count, int64(kMax-kMin))
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), count)
		boom := errors.New("boom")
		err = pm.Run(func(bn, kMin, kMax int) error {
			if bn == 3 {
				return boom
			}
			return nil
		})
		assert.ErrorIs(t, err, boom)
	}
	{
		assert.Equal(t, 1, SetParallelDegree(0, 1))
		assert.LessOrEqual(t, SetParallelDegree(2, 100), 2)
	}
}
