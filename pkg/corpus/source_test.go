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
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestCompressTypeOf(t *testing.T) {
	tests := []struct {
		path string
		want CompressType
	}{
		{"words.txt", NoCompression},
		{"words", NoCompression},
		{"words.txt.gz", Gzip},
		{"WORDS.GZ", Gzip},
		{"words.snappy", Snappy},
		{"words.sz", Snappy},
		{"words.zst", Zstd},
		{"words.zstd", Zstd},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, CompressTypeOf(tt.path), tt.path)
	}
	require.Equal(t, "zstd", Zstd.String())
	require.Equal(t, "none", NoCompression.String())
}

func TestCompressedRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := GenConfig{Records: 300, Distinct: 20, MinLen: 1, MaxLen: 8, Seed: 3}
	require.NoError(t, GenerateFile(fs, "/plain.txt", cfg))
	plain, err := Load(fs, "/plain.txt")
	require.NoError(t, err)

	for _, name := range []string{"/words.gz", "/words.snappy", "/words.zst"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, GenerateFile(fs, name, cfg))
			raw, err := afero.ReadFile(fs, name)
			require.NoError(t, err)
			require.NotEqual(t, plain.Size(), len(raw))

			c, err := Load(fs, name)
			require.NoError(t, err)
			require.Equal(t, contents(plain), contents(c))
		})
	}
}

func TestLoadCorruptCompressed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.gz", []byte("not gzip at all"), 0o644))
	_, err := Load(fs, "/bad.gz")
	require.Error(t, err)
}

func TestLoadStripsBOM(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bom.txt", []byte("\xef\xbb\xbfb\na\n"), 0o644))
	c, err := Load(fs, "/bom.txt")
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, contents(c))
}

func TestLoadSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name"}).
		AddRow("pear").
		AddRow(nil).
		AddRow("apple").
		AddRow("").
		AddRow("pear")
	mock.ExpectQuery("SELECT name FROM fruits").WillReturnRows(rows)

	c, err := LoadSQL(context.Background(), db, "SELECT name FROM fruits")
	require.NoError(t, err)
	require.Equal(t, []string{"pear", "apple", "", "pear"}, contents(c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSQLErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	mock.ExpectQuery("SELECT a, b FROM t").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b"}).AddRow("x", "y"))
	_, err = LoadSQL(ctx, db, "SELECT a, b FROM t")
	require.ErrorContains(t, err, "returns 2 columns")

	mock.ExpectQuery("SELECT a FROM t").
		WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow("ok").AddRow("two\nlines"))
	_, err = LoadSQL(ctx, db, "SELECT a FROM t")
	require.Equal(t, ErrSeparatorInValue, errors.Cause(err))
	require.ErrorContains(t, err, "row 2")

	mock.ExpectQuery("SELECT a FROM gone").WillReturnError(errors.New("table gone"))
	_, err = LoadSQL(ctx, db, "SELECT a FROM gone")
	require.ErrorContains(t, err, "table gone")

	require.NoError(t, mock.ExpectationsWereMet())
}
