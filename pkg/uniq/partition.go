// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package uniq

import (
	"fmt"

	"github.com/pingcap/errors"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/util"
	"github.com/pingcap/uniqstr/pkg/util/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultPartitions is the number of partitions used when none is configured.
const DefaultPartitions = 4

// Partition is the half-open range [Start, End) of a reference array.
type Partition struct {
	Start int
	End   int
}

// Len returns the number of elements in the partition.
func (p Partition) Len() int { return p.End - p.Start }

// Partitions cuts n elements into num partitions of n/num elements each; the
// last one absorbs the remainder. Partitions are empty when n < num.
func Partitions(n, num int) []Partition {
	if num < 1 || n < 0 {
		panic(fmt.Sprintf("uniq: can not cut %d elements into %d partitions", n, num))
	}
	size := n / num
	parts := make([]Partition, num)
	for i := range parts {
		parts[i] = Partition{Start: i * size, End: (i + 1) * size}
	}
	parts[num-1].End = n
	return parts
}

// CountPartitions runs CountPartition on every non-empty partition of the
// sorted refs in parallel, at most concurrency at a time (0 means no limit),
// then reconciles the boundaries left to right. It returns the number of
// distinct strings.
func CountPartitions(c *corpus.Corpus, refs []corpus.Ref, counts []int, parts []Partition, concurrency int) (int, error) {
	uniqs := make([]int, len(parts))
	var eg errgroup.Group
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}
	for i, p := range parts {
		if p.Len() == 0 {
			continue
		}
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					util.ProcessPanicAndLog(func(e error) { err = e }, r)
				}
			}()
			injectPanic(fpCountPartitionPanic)
			uniqs[i] = CountPartition(c, refs[p.Start:p.End], counts[p.Start:p.End])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, errors.Trace(err)
	}
	return reconcilePartitions(c, refs, counts, parts, uniqs), nil
}

func reconcilePartitions(c *corpus.Corpus, refs []corpus.Ref, counts []int, parts []Partition, uniqs []int) int {
	total := 0
	leftSeen := false
	for i, p := range parts {
		if p.Len() == 0 {
			continue
		}
		if !leftSeen {
			total = uniqs[i]
			leftSeen = true
			continue
		}
		total = ReconcileBoundary(c, refs, counts, p.Start, p.End-1, total, uniqs[i])
	}
	return total
}

// CounterConfig configures a Counter.
type CounterConfig struct {
	// Partitions is the number of partitions counted in parallel.
	Partitions int
	// Concurrency bounds the goroutines counting partitions, 0 means one
	// per partition.
	Concurrency int
	// ParallelThreshold is passed to the Sorter.
	ParallelThreshold int
	// Verify cross-checks every result against ReferenceCount.
	Verify bool
}

// Counter computes unique strings with the merge sort and the partitioned
// counting pass.
type Counter struct {
	c      *corpus.Corpus
	cfg    CounterConfig
	sorter *Sorter
}

// NewCounter creates a Counter over c.
func NewCounter(c *corpus.Corpus, cfg CounterConfig) *Counter {
	if cfg.Partitions < 1 {
		cfg.Partitions = DefaultPartitions
	}
	return &Counter{
		c:      c,
		cfg:    cfg,
		sorter: NewSorter(c, SorterConfig{ParallelThreshold: cfg.ParallelThreshold}),
	}
}

// CountUnique sorts refs in place and counts the unique strings. The
// returned Result keeps refs.
func (ct *Counter) CountUnique(refs []corpus.Ref) (*Result, error) {
	cmps := ct.sorter.Sort(refs)

	counts := make([]int, len(refs))
	parts := Partitions(len(refs), ct.cfg.Partitions)
	distinct, err := CountPartitions(ct.c, refs, counts, parts, ct.cfg.Concurrency)
	if err != nil {
		return nil, err
	}
	res := NewSortedResult(refs, counts, distinct)
	res.Comparisons = cmps

	if ct.cfg.Verify {
		if err := Verify(ct.c, res); err != nil {
			return nil, err
		}
	}
	logutil.BgLogger().Debug("partitioned count finished",
		zap.Int("records", len(refs)),
		zap.Int("partitions", len(parts)),
		zap.Int("distinct", distinct),
		zap.Uint64("comparisons", cmps))
	return res, nil
}
