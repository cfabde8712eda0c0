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

package corpus

import (
	"bytes"
	"context"
	"database/sql"

	"github.com/pingcap/errors"
)

// ErrSeparatorInValue is returned by LoadSQL for a value holding the record
// separator.
var ErrSeparatorInValue = errors.New("value contains the record separator")

// LoadSQL builds a corpus from the single column returned by query. NULL
// values are skipped. Values must not contain the record separator.
func LoadSQL(ctx context.Context, db *sql.DB, query string) (*Corpus, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Annotatef(err, "query %q", query)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(cols) != 1 {
		return nil, errors.Errorf("query %q returns %d columns, expect 1", query, len(cols))
	}

	var (
		buf   bytes.Buffer
		value sql.RawBytes
		row   int
	)
	for rows.Next() {
		if err := rows.Scan(&value); err != nil {
			return nil, errors.Trace(err)
		}
		row++
		if value == nil {
			continue
		}
		if bytes.IndexByte(value, Separator) >= 0 {
			return nil, errors.Annotatef(ErrSeparatorInValue, "row %d", row)
		}
		if int64(buf.Len()+len(value)+1) > maxCorpusSize {
			return nil, errors.Annotatef(ErrCorpusTooLarge, "query %q", query)
		}
		buf.Write(value)
		buf.WriteByte(Separator)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return New(buf.Bytes())
}
