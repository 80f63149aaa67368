package utils

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets with a maximum imbalance of one item
type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

// SetParallelDegree picks the number of workers from the processor count,
// limited by ProcLimit when it is positive and by the amount of work
func SetParallelDegree(ProcLimit, maxIndex int) (ParallelDegree int) {
	ParallelDegree = runtime.NumCPU()
	if ProcLimit > 0 && ProcLimit < ParallelDegree {
		ParallelDegree = ProcLimit
	}
	if ParallelDegree > maxIndex {
		ParallelDegree = maxIndex
	}
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) (kMax int) {
	var (
		k1, k2 = pm.GetBucketRange(bn)
	)
	kMax = k2 - k1
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// Run executes fn once per bucket, each in its own goroutine, and returns
// after every bucket has finished. The returned error is the first one
// reported by any bucket. Run is the barrier between solver stages.
func (pm *PartitionMap) Run(fn func(bn, kMin, kMax int) error) error {
	if pm.ParallelDegree == 1 {
		kMin, kMax := pm.GetBucketRange(0)
		return fn(0, kMin, kMax)
	}
	var g errgroup.Group
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		kMin, kMax := pm.GetBucketRange(bn)
		if kMin == kMax {
			continue
		}
		bn := bn
		g.Go(func() error { return fn(bn, kMin, kMax) })
	}
	return g.Wait()
}
