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
	"bufio"
	"fmt"
	"io"

	"github.com/docker/go-units"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pingcap/errors"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/uniq"
)

// Render draws the report as a table.
func (rep *Report) Render() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Strategy", "Records", "Size", "Distinct", "Iterations", "Mean", "Min", "Max", "EMA", "MB/s", "RSS"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Strategy", WidthMax: 12},
	})
	t.AppendRow(table.Row{
		rep.Strategy,
		rep.Records,
		units.HumanSize(float64(rep.Bytes)),
		rep.Distinct,
		rep.Iterations(),
		rep.Mean(),
		rep.Min(),
		rep.Max(),
		rep.EMA(),
		fmt.Sprintf("%.2f", rep.MBPerSec()),
		units.BytesSize(float64(rep.RSS)),
	})
	return t.Render()
}

// WriteUniques writes every distinct string of res with its count, one
// "string\tcount" line each.
func WriteUniques(w io.Writer, c *corpus.Corpus, res *uniq.Result) error {
	bw := bufio.NewWriter(w)
	for _, u := range res.Uniques() {
		if _, err := bw.Write(c.Bytes(u.Ref)); err != nil {
			return errors.Trace(err)
		}
		if _, err := fmt.Fprintf(bw, "\t%d\n", u.Count); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(bw.Flush())
}
