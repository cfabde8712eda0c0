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

package strategy

import (
	"bytes"
	"sort"

	"github.com/jfcg/sorty/v2"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/uniq"
	"golang.org/x/exp/slices"
)

// merge is the partitioned merge sort engine.
type merge struct {
	cfg uniq.CounterConfig
}

func newMerge(cfg Config) (Strategy, error) {
	return &merge{cfg: uniq.CounterConfig{
		Partitions:        cfg.Partitions,
		Concurrency:       cfg.Concurrency,
		ParallelThreshold: cfg.ParallelThreshold,
		Verify:            cfg.Verify,
	}}, nil
}

func (*merge) Name() string { return "merge" }

func (m *merge) Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error) {
	return uniq.NewCounter(c, m.cfg).CountUnique(refs)
}

// sortyStrategy sorts with the sorty library, which fans out on its own.
type sortyStrategy struct {
	maxGor uint64
	verify bool
}

func newSorty(cfg Config) (Strategy, error) {
	return &sortyStrategy{maxGor: uint64(cfg.Concurrency), verify: cfg.Verify}, nil
}

func (*sortyStrategy) Name() string { return "sorty" }

func (st *sortyStrategy) Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error) {
	// MaxGor is package state of sorty, restore it for other callers.
	oldGor := sorty.MaxGor
	sorty.MaxGor = st.maxGor
	defer func() { sorty.MaxGor = oldGor }()
	sorty.Sort(len(refs), func(i, k, r, s int) bool {
		if c.Compare(refs[i], refs[k]) < 0 {
			if r != s {
				refs[r], refs[s] = refs[s], refs[r]
			}
			return true
		}
		return false
	})
	return countSorted(c, refs, st.verify)
}

// byContent implements sort.Interface over references.
type byContent struct {
	c    *corpus.Corpus
	refs []corpus.Ref
}

func (b byContent) Len() int           { return len(b.refs) }
func (b byContent) Less(i, j int) bool { return b.c.Compare(b.refs[i], b.refs[j]) < 0 }
func (b byContent) Swap(i, j int)      { b.refs[i], b.refs[j] = b.refs[j], b.refs[i] }

// comparator sorts through a comparison object.
type comparator struct {
	verify bool
}

func newComparator(cfg Config) (Strategy, error) {
	return &comparator{verify: cfg.Verify}, nil
}

func (*comparator) Name() string { return "comparator" }

func (s *comparator) Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error) {
	sort.Sort(byContent{c: c, refs: refs})
	return countSorted(c, refs, s.verify)
}

// libSort sorts with a generic comparison function.
type libSort struct {
	verify bool
}

func newLibSort(cfg Config) (Strategy, error) {
	return &libSort{verify: cfg.Verify}, nil
}

func (*libSort) Name() string { return "libsort" }

func (s *libSort) Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error) {
	slices.SortFunc(refs, func(a, b corpus.Ref) int {
		return bytes.Compare(c.Bytes(a), c.Bytes(b))
	})
	return countSorted(c, refs, s.verify)
}
