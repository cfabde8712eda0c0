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

// Package uniq finds the unique strings of a corpus and their occurrence
// counts. References are sorted with a merge sort, the sorted array is cut
// into partitions that are counted in parallel, and the counts are then
// reconciled across partition boundaries.
//
// The count array follows one invariant: for every maximal run [s, e] of
// equal strings in the sorted reference array, counts[s] == counts[e] ==
// e-s+1. Interior positions hold 0.
package uniq

import (
	"github.com/pingcap/failpoint"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/util"
	"go.uber.org/atomic"
)

const (
	fpSortFanOutPanic     = "github.com/pingcap/uniqstr/pkg/uniq/sortFanOutPanic"
	fpCountPartitionPanic = "github.com/pingcap/uniqstr/pkg/uniq/countPartitionPanic"
)

// injectPanic panics when the failpoint fpName is enabled with return(true).
func injectPanic(fpName string) {
	if val, err := failpoint.Eval(fpName); err == nil {
		if b, ok := val.(bool); ok && b {
			panic("panic is triggered by failpoint")
		}
	}
}

// SorterConfig configures a Sorter.
type SorterConfig struct {
	// ParallelThreshold is the smallest sub-range whose halves are sorted on
	// separate goroutines. 0 disables the fan-out.
	ParallelThreshold int
}

// Sorter sorts reference arrays of one corpus with a two-way merge sort.
// It is safe for concurrent use.
type Sorter struct {
	c   *corpus.Corpus
	cfg SorterConfig

	comparisons atomic.Uint64
}

// NewSorter creates a Sorter comparing references of c.
func NewSorter(c *corpus.Corpus, cfg SorterConfig) *Sorter {
	if c == nil {
		panic("uniq: sorter needs a corpus")
	}
	if cfg.ParallelThreshold < 0 {
		cfg.ParallelThreshold = 0
	}
	return &Sorter{c: c, cfg: cfg}
}

// Comparisons returns the number of comparisons made by all Sort calls.
func (s *Sorter) Comparisons() uint64 {
	return s.comparisons.Load()
}

// Sort reorders refs so that their content is in non-decreasing byte-wise
// order. It is not stable. It returns the number of comparisons it made.
func (s *Sorter) Sort(refs []corpus.Ref) uint64 {
	if len(refs) <= 1 {
		return 0
	}
	// One scratch buffer for the whole call. Every level of the recursion
	// only touches the scratch sub-slice that mirrors its own range.
	scratch := make([]corpus.Ref, len(refs))
	cmps := s.sort(refs, scratch)
	s.comparisons.Add(cmps)
	return cmps
}

func (s *Sorter) sort(a, scratch []corpus.Ref) uint64 {
	n := len(a)
	if n <= 1 {
		return 0
	}
	if n == 2 {
		if s.c.Compare(a[0], a[1]) > 0 {
			a[0], a[1] = a[1], a[0]
		}
		return 1
	}

	mid := n / 2
	var cmps uint64
	if s.cfg.ParallelThreshold > 0 && n >= s.cfg.ParallelThreshold {
		cmps = s.sortHalvesParallel(a, scratch, mid)
	} else {
		cmps = s.sort(a[:mid], scratch[:mid])
		cmps += s.sort(a[mid:], scratch[mid:])
	}
	return cmps + s.merge(a, scratch, mid)
}

// sortHalvesParallel sorts the left half on a new goroutine and the right
// half on the current one, then waits for both.
func (s *Sorter) sortHalvesParallel(a, scratch []corpus.Ref, mid int) uint64 {
	var (
		wg       util.WaitGroupWrapper
		left     uint64
		panicked any
	)
	wg.RunWithRecover(func() {
		injectPanic(fpSortFanOutPanic)
		left = s.sort(a[:mid], scratch[:mid])
	}, func(r any) {
		panicked = r
	})
	var right uint64
	func() {
		defer wg.Wait()
		right = s.sort(a[mid:], scratch[mid:])
	}()
	if panicked != nil {
		panic(panicked)
	}
	return left + right
}

// merge merges the sorted halves a[:mid] and a[mid:] through scratch.
func (s *Sorter) merge(a, scratch []corpus.Ref, mid int) uint64 {
	n := len(a)
	i, j, k := 0, mid, 0
	var cmps uint64
	for i < mid && j < n {
		cmps++
		if s.c.Compare(a[i], a[j]) < 0 {
			scratch[k] = a[i]
			i++
		} else {
			scratch[k] = a[j]
			j++
		}
		k++
	}
	// Drain whichever half is left.
	k += copy(scratch[k:], a[i:mid])
	copy(scratch[k:], a[j:n])
	copy(a, scratch[:n])
	return cmps
}
