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
	"testing"

	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/stretchr/testify/require"
)

// countSplit counts refs as the partitions parts and returns the per
// partition uniqueness counts.
func countSplit(c *corpus.Corpus, refs []corpus.Ref, counts []int, parts []Partition) []int {
	uniqs := make([]int, len(parts))
	for i, p := range parts {
		uniqs[i] = CountPartition(c, refs[p.Start:p.End], counts[p.Start:p.End])
	}
	return uniqs
}

func TestReconcileSplitRun(t *testing.T) {
	// A run of 5 split into [3 elements][2 elements].
	c := corpus.FromStrings("a", "a", "a", "a", "a")
	refs := c.Refs()
	counts := make([]int, len(refs))
	uniqs := countSplit(c, refs, counts, []Partition{{0, 3}, {3, 5}})
	require.Equal(t, []int{1, 1}, uniqs)
	require.Equal(t, []int{3, 0, 3, 2, 2}, counts)

	distinct := ReconcileBoundary(c, refs, counts, 3, 4, uniqs[0], uniqs[1])
	require.Equal(t, uniqs[0]+uniqs[1]-1, distinct)
	require.Equal(t, 5, counts[4])
	require.Equal(t, []int{5, 0, 0, 0, 5}, counts)
}

func TestReconcileNoSplit(t *testing.T) {
	c := corpus.FromStrings("a", "a", "b", "b")
	refs := c.Refs()
	counts := make([]int, len(refs))
	uniqs := countSplit(c, refs, counts, []Partition{{0, 2}, {2, 4}})
	before := append([]int(nil), counts...)

	require.Equal(t, 2, ReconcileBoundary(c, refs, counts, 2, 3, uniqs[0], uniqs[1]))
	require.Equal(t, before, counts)
}

func TestReconcileSingletonSides(t *testing.T) {
	tests := []struct {
		name   string
		sorted []string
		parts  []Partition
		want   []int
		uniq   int
	}{
		{"both singletons", []string{"a", "a"}, []Partition{{0, 1}, {1, 2}}, []int{2, 2}, 1},
		{"left singleton", []string{"a", "a", "a", "b"}, []Partition{{0, 1}, {1, 4}}, []int{3, 0, 3, 1}, 2},
		{"right singleton", []string{"a", "b", "b", "b"}, []Partition{{0, 3}, {3, 4}}, []int{1, 3, 0, 3}, 2},
		{"run continues past boundary", []string{"a", "b", "b", "b", "b", "c"}, []Partition{{0, 2}, {2, 6}}, []int{1, 4, 0, 0, 4, 1}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := corpus.FromStrings(tt.sorted...)
			refs := c.Refs()
			counts := make([]int, len(refs))
			uniqs := countSplit(c, refs, counts, tt.parts)
			right := tt.parts[1]
			got := ReconcileBoundary(c, refs, counts, right.Start, right.End-1, uniqs[0], uniqs[1])
			require.Equal(t, tt.uniq, got)
			require.Equal(t, tt.want, counts)
		})
	}
}

func TestReconcileAcrossThreePartitions(t *testing.T) {
	// One run covers the whole middle partition.
	c := corpus.FromStrings("a", "b", "b", "b", "b", "b", "c")
	refs := c.Refs()
	counts := make([]int, len(refs))
	parts := []Partition{{0, 2}, {2, 4}, {4, 7}}
	uniqs := countSplit(c, refs, counts, parts)
	require.Equal(t, []int{2, 1, 2}, uniqs)

	total := ReconcileBoundary(c, refs, counts, 2, 3, uniqs[0], uniqs[1])
	require.Equal(t, 2, total)
	total = ReconcileBoundary(c, refs, counts, 4, 6, total, uniqs[2])
	require.Equal(t, 3, total)
	require.Equal(t, []int{1, 5, 0, 0, 0, 5, 1}, counts)
}

func TestReconcileRejectsEmptySide(t *testing.T) {
	c := corpus.FromStrings("a", "a", "b")
	refs := c.Refs()
	counts := make([]int, len(refs))
	// Empty left region.
	require.Panics(t, func() { ReconcileBoundary(c, refs, counts, 0, 2, 0, 1) })
	// Empty right partition.
	require.Panics(t, func() { ReconcileBoundary(c, refs, counts, 2, 1, 1, 0) })
	// Out of range.
	require.Panics(t, func() { ReconcileBoundary(c, refs, counts, 1, 3, 1, 1) })
}

func TestReconcileBrokenMarkers(t *testing.T) {
	c := corpus.FromStrings("a", "a")
	refs := c.Refs()
	// The partitions were never counted.
	counts := make([]int, len(refs))
	require.Panics(t, func() { ReconcileBoundary(c, refs, counts, 1, 1, 1, 1) })
}
