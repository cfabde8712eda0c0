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

// ReconcileBoundary stitches the counts of a run split by the boundary just
// before the partition [start, end] (inclusive). Everything before start is
// the already reconciled left region, whose uniqueness count is leftUniq.
// rightUniq is what CountPartition returned for the right partition.
//
// Boundaries must be reconciled strictly left to right. Both sides must be
// non-empty; callers skip empty partitions.
//
// When the strings at start-1 and start differ it returns leftUniq+rightUniq.
// Otherwise one run spans the boundary: its length is the left part recorded
// at start-1 plus the right part recorded at start. The run's end marker at
// start+counts[start]-1 and its start marker are set to that length, the two
// stale markers at the seam are cleared, and it returns leftUniq+rightUniq-1.
func ReconcileBoundary(c *corpus.Corpus, refs []corpus.Ref, counts []int, start, end, leftUniq, rightUniq int) int {
	if start < 1 || end < start || end >= len(refs) || len(counts) != len(refs) {
		panic(fmt.Sprintf("uniq: invalid boundary [%d, %d] over %d refs", start, end, len(refs)))
	}
	if !c.Equal(refs[start-1], refs[start]) {
		return leftUniq + rightUniq
	}

	leftLen := counts[start-1]
	rightLen := counts[start]
	runStart := start - leftLen
	runEnd := start + rightLen - 1
	if leftLen < 1 || rightLen < 1 || runStart < 0 || runEnd > end {
		panic(fmt.Sprintf("uniq: broken run markers %d and %d at boundary %d", leftLen, rightLen, start))
	}
	newCount := leftLen + rightLen

	// Clear the seam first: when a side is a single element, its stale
	// marker is also the true run marker written below.
	counts[start-1] = 0
	counts[start] = 0
	counts[runStart] = newCount
	counts[runEnd] = newCount
	return leftUniq + rightUniq - 1
}
