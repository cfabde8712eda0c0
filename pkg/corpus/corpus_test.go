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
	"testing"

	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func contents(c *Corpus) []string {
	out := make([]string, 0, c.Len())
	for _, r := range c.Refs() {
		out = append(out, string(c.Bytes(r)))
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"empty", "", []string{}},
		{"single separator", "\n", []string{""}},
		{"trailing separator", "b\na\na\n", []string{"b", "a", "a"}},
		{"no trailing separator", "b\na\na", []string{"b", "a", "a"}},
		{"empty records", "a\n\nb\n", []string{"a", "", "b"}},
		{"leading separator", "\na", []string{"", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New([]byte(tt.data))
			require.NoError(t, err)
			require.Equal(t, len(tt.want), c.Len())
			require.Equal(t, len(tt.data), c.Size())
			require.Equal(t, tt.want, contents(c))
		})
	}
}

func TestRefAccessors(t *testing.T) {
	c := FromStrings("xy", "", "abc")
	refs := c.Refs()
	require.Len(t, refs, 3)
	require.Equal(t, 0, refs[0].Offset())
	require.Equal(t, 2, refs[0].Len())
	require.Equal(t, 3, refs[1].Offset())
	require.Equal(t, 0, refs[1].Len())
	require.Equal(t, 4, refs[2].Offset())

	require.Equal(t, "abc", c.String(refs[2]))
	require.Equal(t, "", c.String(refs[1]))
	require.Equal(t, []byte("xy"), c.Bytes(refs[0]))

	require.Positive(t, c.Compare(refs[0], refs[2]))
	require.Negative(t, c.Compare(refs[1], refs[2]))
	require.Zero(t, c.Compare(refs[2], refs[2]))
	require.True(t, c.Equal(refs[0], refs[0]))
	require.False(t, c.Equal(refs[0], refs[1]))
}

func TestRefsIsFreshCopy(t *testing.T) {
	c := FromStrings("b", "a")
	refs := c.Refs()
	refs[0], refs[1] = refs[1], refs[0]
	require.Equal(t, []string{"b", "a"}, contents(c))
}

func TestBytesIsCapped(t *testing.T) {
	c := FromStrings("ab", "cd")
	b := c.Bytes(c.Refs()[0])
	require.Equal(t, 2, cap(b))
}

func TestCheckCount(t *testing.T) {
	c := FromStrings("a", "b", "a")
	require.NoError(t, c.CheckCount(3))
	require.NoError(t, c.CheckCount(-1))
	err := c.CheckCount(4)
	require.Error(t, err)
	require.Equal(t, ErrRecordCountMismatch, errors.Cause(err))
	require.Contains(t, err.Error(), "expected 4 records, got 3")
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/words.txt", []byte("b\na\na\n"), 0o644))

	c, err := Load(fs, "/data/words.txt")
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "a"}, contents(c))

	_, err = Load(fs, "/data/missing.txt")
	require.Error(t, err)
}

func TestTooLarge(t *testing.T) {
	old := maxCorpusSize
	maxCorpusSize = 4
	defer func() { maxCorpusSize = old }()

	_, err := New([]byte("abcde"))
	require.Equal(t, ErrCorpusTooLarge, errors.Cause(err))

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "big.txt", []byte("abcde"), 0o644))
	_, err = Load(fs, "big.txt")
	require.Equal(t, ErrCorpusTooLarge, errors.Cause(err))
}

func TestGenerate(t *testing.T) {
	cfg := GenConfig{Records: 1000, Distinct: 10, MinLen: 3, MaxLen: 5, Seed: 7}
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, cfg))

	c, err := New(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, c.CheckCount(1000))

	seen := make(map[string]struct{})
	for _, s := range contents(c) {
		require.GreaterOrEqual(t, len(s), 3)
		require.LessOrEqual(t, len(s), 5)
		seen[s] = struct{}{}
	}
	require.LessOrEqual(t, len(seen), 10)

	// Same seed, same corpus.
	var again bytes.Buffer
	require.NoError(t, Generate(&again, cfg))
	require.Equal(t, buf.Bytes(), again.Bytes())
}

func TestGenerateInvalid(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Generate(&buf, GenConfig{Records: -1, Distinct: 1}))
	require.Error(t, Generate(&buf, GenConfig{Records: 1, Distinct: 0}))
	require.Error(t, Generate(&buf, GenConfig{Records: 1, Distinct: 1, MinLen: 5, MaxLen: 2}))
}

func TestGenerateFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := DefaultGenConfig()
	cfg.Records = 50
	require.NoError(t, GenerateFile(fs, "/gen.txt", cfg))
	c, err := Load(fs, "/gen.txt")
	require.NoError(t, err)
	require.Equal(t, 50, c.Len())
}

func TestForeignRefPanics(t *testing.T) {
	c := FromStrings("a", "b")
	foreign := FromStrings("aaaa", "bbbb", "cccc").Refs()
	require.Panics(t, func() { c.Bytes(foreign[1]) })
	require.Panics(t, func() { c.String(foreign[2]) })
	require.Panics(t, func() { c.Compare(foreign[0], foreign[1]) })

	// A buffer with spare capacity behaves the same.
	buf := make([]byte, 4, 64)
	copy(buf, "a\nb\n")
	c, err := New(buf)
	require.NoError(t, err)
	require.Panics(t, func() { c.Bytes(foreign[1]) })
}

var errCloseFailed = errors.New("close failed")

type closeErrFile struct {
	afero.File
}

func (f closeErrFile) Close() error {
	if err := f.File.Close(); err != nil {
		return err
	}
	return errCloseFailed
}

type closeErrFs struct {
	afero.Fs
}

func (fs closeErrFs) Open(name string) (afero.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return closeErrFile{File: f}, nil
}

func TestLoadCloseError(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/words.txt", []byte("a\nb\n"), 0o644))
	_, err := Load(closeErrFs{Fs: mem}, "/words.txt")
	require.Error(t, err)
	require.Equal(t, errCloseFailed, errors.Cause(err))
}
