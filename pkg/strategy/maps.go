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
	"github.com/dolthub/swiss"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/uniq"
)

// hashMap counts with a single swiss table keyed by content.
type hashMap struct {
	verify bool
}

func newHashMap(cfg Config) (Strategy, error) {
	return &hashMap{verify: cfg.Verify}, nil
}

func (*hashMap) Name() string { return "hashmap" }

func (st *hashMap) Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error) {
	uniques := countInto(c, refs, nil, swiss.NewMap[string, int](uint32(len(refs)/4+1)))
	res := uniq.NewUniquesResult(uniques)
	if st.verify {
		if err := checkUniques(c, refs, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// countInto counts refs into m, which maps content to an index of the
// returned slice, and appends newly seen strings to uniques.
func countInto(c *corpus.Corpus, refs []corpus.Ref, uniques []uniq.Unique, m *swiss.Map[string, int]) []uniq.Unique {
	for _, r := range refs {
		key := c.String(r)
		if idx, ok := m.Get(key); ok {
			uniques[idx].Count++
			continue
		}
		m.Put(key, len(uniques))
		uniques = append(uniques, uniq.Unique{Ref: r, Count: 1})
	}
	return uniques
}
