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

	"github.com/pingcap/uniqstr/pkg/corpus"
)

// CountPartition counts the runs of equal strings in refs, a sorted
// sub-range of a reference array, and writes every run length at both the
// first and the last index of the run in counts. Interior positions are left
// untouched. It returns the number of runs it saw.
//
// The first element always opens a run, even when it continues a run of the
// previous partition. ReconcileBoundary fixes that up.
func CountPartition(c *corpus.Corpus, refs []corpus.Ref, counts []int) int {
	if len(refs) != len(counts) {
		panic(fmt.Sprintf("uniq: %d refs but %d counts", len(refs), len(counts)))
	}
	m := len(refs)
	if m == 0 {
		return 0
	}

	uniq := 1
	run := 1
	for i := 1; i < m; i++ {
		if c.Equal(refs[i], refs[i-1]) {
			run++
			continue
		}
		uniq++
		counts[i-1] = run
		counts[i-run] = run
		run = 1
	}
	counts[m-1] = run
	counts[m-run] = run
	return uniq
}

// ReferenceCount is the single partition oracle. It writes the same
// run-boundary counts as CountPartition over the whole array, found by
// walking each run to its end, and returns the number of runs.
func ReferenceCount(c *corpus.Corpus, refs []corpus.Ref, counts []int) int {
	if len(refs) != len(counts) {
		panic(fmt.Sprintf("uniq: %d refs but %d counts", len(refs), len(counts)))
	}
	runs := 0
	for s := 0; s < len(refs); {
		e := s
		for e+1 < len(refs) && c.Equal(refs[e+1], refs[s]) {
			e++
		}
		counts[s] = e - s + 1
		counts[e] = e - s + 1
		runs++
		s = e + 1
	}
	return runs
}
