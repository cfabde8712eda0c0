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
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/google/btree"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/uniq"
	"github.com/zyedidia/generic/avl"
)

const btreeDegree = 32

type treeEntry struct {
	key   string
	ref   corpus.Ref
	count int
}

// btreeStrategy keeps an ordered map from content to count.
type btreeStrategy struct {
	verify bool
}

func newBTree(cfg Config) (Strategy, error) {
	return &btreeStrategy{verify: cfg.Verify}, nil
}

func (*btreeStrategy) Name() string { return "btree" }

func (st *btreeStrategy) Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error) {
	tree := btree.NewG(btreeDegree, func(a, b *treeEntry) bool { return a.key < b.key })
	probe := &treeEntry{}
	for _, r := range refs {
		probe.key = c.String(r)
		if e, ok := tree.Get(probe); ok {
			e.count++
			continue
		}
		tree.ReplaceOrInsert(&treeEntry{key: probe.key, ref: r, count: 1})
	}

	uniques := make([]uniq.Unique, 0, tree.Len())
	tree.Ascend(func(e *treeEntry) bool {
		uniques = append(uniques, uniq.Unique{Ref: e.ref, Count: e.count})
		return true
	})
	return finishTree(c, refs, uniques, st.verify)
}

// rbTree keeps a red-black tree from content to count.
type rbTree struct {
	verify bool
}

func newRBTree(cfg Config) (Strategy, error) {
	return &rbTree{verify: cfg.Verify}, nil
}

func (*rbTree) Name() string { return "rbtree" }

func (st *rbTree) Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error) {
	tree := redblacktree.NewWith(utils.StringComparator)
	for _, r := range refs {
		key := c.String(r)
		if v, ok := tree.Get(key); ok {
			v.(*treeEntry).count++
			continue
		}
		tree.Put(key, &treeEntry{key: key, ref: r, count: 1})
	}

	uniques := make([]uniq.Unique, 0, tree.Size())
	it := tree.Iterator()
	for it.Next() {
		e := it.Value().(*treeEntry)
		uniques = append(uniques, uniq.Unique{Ref: e.ref, Count: e.count})
	}
	return finishTree(c, refs, uniques, st.verify)
}

// avlTree keeps an AVL tree from content to count.
type avlTree struct {
	verify bool
}

func newAVLTree(cfg Config) (Strategy, error) {
	return &avlTree{verify: cfg.Verify}, nil
}

func (*avlTree) Name() string { return "avl" }

func (st *avlTree) Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error) {
	tree := avl.New[string, *treeEntry](func(a, b string) bool { return a < b })
	distinct := 0
	for _, r := range refs {
		key := c.String(r)
		if e, ok := tree.Get(key); ok {
			e.count++
			continue
		}
		tree.Put(key, &treeEntry{key: key, ref: r, count: 1})
		distinct++
	}

	uniques := make([]uniq.Unique, 0, distinct)
	tree.Each(func(_ string, e *treeEntry) {
		uniques = append(uniques, uniq.Unique{Ref: e.ref, Count: e.count})
	})
	return finishTree(c, refs, uniques, st.verify)
}

func finishTree(c *corpus.Corpus, refs []corpus.Ref, uniques []uniq.Unique, verify bool) (*uniq.Result, error) {
	res := uniq.NewUniquesResult(uniques)
	if verify {
		if err := checkUniques(c, refs, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}
