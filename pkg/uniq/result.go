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

// Unique is one distinct string and the number of times it occurs.
type Unique struct {
	Ref   corpus.Ref
	Count int
}

// Result is the outcome of counting the unique strings of a corpus.
type Result struct {
	// Refs is the sorted reference array. It is nil for strategies that
	// do not sort.
	Refs []corpus.Ref
	// Counts holds run lengths at run boundaries, parallel to Refs.
	Counts []int
	// Distinct is the number of distinct strings.
	Distinct int
	// Comparisons is the number of string comparisons spent on sorting, if known.
	Comparisons uint64

	uniques []Unique
}

// NewSortedResult creates a Result over a sorted reference array and its
// reconciled count array.
func NewSortedResult(refs []corpus.Ref, counts []int, distinct int) *Result {
	return &Result{Refs: refs, Counts: counts, Distinct: distinct}
}

// NewUniquesResult creates a Result from a list of distinct strings.
func NewUniquesResult(uniques []Unique) *Result {
	return &Result{Distinct: len(uniques), uniques: uniques}
}

// Uniques lists every distinct string with its count. For sorted results the
// list is in sorted order and is read from the run start markers.
func (r *Result) Uniques() []Unique {
	if r.Refs == nil {
		return r.uniques
	}
	out := make([]Unique, 0, r.Distinct)
	for i := 0; i < len(r.Refs); {
		n := r.Counts[i]
		if n < 1 {
			panic(fmt.Sprintf("uniq: no run marker at %d", i))
		}
		out = append(out, Unique{Ref: r.Refs[i], Count: n})
		i += n
	}
	return out
}

// Total returns the number of records accounted for by the result.
func (r *Result) Total() int {
	total := 0
	for _, u := range r.Uniques() {
		total += u.Count
	}
	return total
}
