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
	"github.com/pingcap/errors"
	"github.com/pingcap/uniqstr/pkg/corpus"
)

var (
	// ErrOracleMismatch means a result disagrees with ReferenceCount. It is a
	// correctness defect and must never be tolerated.
	ErrOracleMismatch = errors.New("result disagrees with reference count")
	// ErrNotSorted means a result's reference array is out of order.
	ErrNotSorted = errors.New("references are not sorted")
)

// Verify cross-checks a sorted result against ReferenceCount. Both must agree
// on the distinct count and on the count at both ends of every run.
func Verify(c *corpus.Corpus, res *Result) error {
	refs := res.Refs
	if len(res.Counts) != len(refs) {
		return errors.Annotatef(ErrOracleMismatch, "%d refs but %d counts", len(refs), len(res.Counts))
	}
	for i := 1; i < len(refs); i++ {
		if c.Compare(refs[i-1], refs[i]) > 0 {
			return errors.Annotatef(ErrNotSorted, "position %d", i)
		}
	}

	oracle := make([]int, len(refs))
	distinct := ReferenceCount(c, refs, oracle)
	if distinct != res.Distinct {
		return errors.Annotatef(ErrOracleMismatch, "distinct count %d, oracle %d", res.Distinct, distinct)
	}
	for s := 0; s < len(refs); s += oracle[s] {
		e := s + oracle[s] - 1
		if res.Counts[s] != oracle[s] {
			return errors.Annotatef(ErrOracleMismatch, "run start %d has count %d, oracle %d", s, res.Counts[s], oracle[s])
		}
		if res.Counts[e] != oracle[e] {
			return errors.Annotatef(ErrOracleMismatch, "run end %d has count %d, oracle %d", e, res.Counts[e], oracle[e])
		}
	}
	return nil
}
