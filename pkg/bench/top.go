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

package bench

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/uniq"
	"github.com/wangjohn/quickselect"
)

// byFrequency orders uniques by descending count, then by content.
type byFrequency struct {
	c       *corpus.Corpus
	uniques []uniq.Unique
}

func (b byFrequency) Len() int { return len(b.uniques) }

func (b byFrequency) Less(i, j int) bool {
	if b.uniques[i].Count != b.uniques[j].Count {
		return b.uniques[i].Count > b.uniques[j].Count
	}
	return b.c.Compare(b.uniques[i].Ref, b.uniques[j].Ref) < 0
}

func (b byFrequency) Swap(i, j int) { b.uniques[i], b.uniques[j] = b.uniques[j], b.uniques[i] }

// TopK returns the k most frequent strings of res, most frequent first.
// Ties are broken by content.
func TopK(c *corpus.Corpus, res *uniq.Result, k int) []uniq.Unique {
	if k <= 0 {
		return nil
	}
	all := res.Uniques()
	uniques := make([]uniq.Unique, len(all))
	copy(uniques, all)
	if k < len(uniques) {
		// QuickSelect only fails when k is out of range.
		if err := quickselect.QuickSelect(byFrequency{c: c, uniques: uniques}, k); err == nil {
			uniques = uniques[:k]
		}
	}
	sort.Sort(byFrequency{c: c, uniques: uniques})
	if len(uniques) > k {
		uniques = uniques[:k]
	}
	return uniques
}

// RenderTop draws the most frequent strings as a table.
func RenderTop(c *corpus.Corpus, top []uniq.Unique) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "String", "Count"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "String", WidthMax: 48},
	})
	for i, u := range top {
		t.AppendRow(table.Row{i + 1, c.String(u.Ref), u.Count})
	}
	return t.Render()
}
