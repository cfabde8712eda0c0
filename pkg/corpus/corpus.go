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

// Package corpus holds a newline-delimited text corpus in one immutable byte
// buffer and hands out references to its records.
package corpus

import (
	"bytes"
	"io"
	"math"
	"unsafe"

	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"github.com/spkg/bom"
	"go.uber.org/multierr"
)

// Separator terminates every record in the corpus.
const Separator = '\n'

var (
	// ErrRecordCountMismatch is returned when the corpus does not hold the
	// expected number of records.
	ErrRecordCountMismatch = errors.New("record count mismatch")
	// ErrCorpusTooLarge is returned when the corpus can not be addressed by Ref.
	ErrCorpusTooLarge = errors.New("corpus too large")
)

// maxCorpusSize is a variable so that tests can lower it.
var maxCorpusSize = int64(math.MaxUint32)

// Ref points to one record of a Corpus. It is a borrowed view: it has no
// meaning without the Corpus that produced it and must not outlive it.
type Ref struct {
	off uint32
	len uint32
}

// Offset returns the byte offset of the record.
func (r Ref) Offset() int { return int(r.off) }

// Len returns the length of the record in bytes, without the separator.
func (r Ref) Len() int { return int(r.len) }

// Corpus is an immutable buffer of records. Methods never mutate the
// buffer, so a Corpus can be shared by any number of goroutines.
type Corpus struct {
	data []byte
	refs []Ref
}

// New splits data into records. A trailing separator does not start an
// extra empty record, and a missing final separator is tolerated.
func New(data []byte) (*Corpus, error) {
	if int64(len(data)) > maxCorpusSize {
		return nil, errors.Annotatef(ErrCorpusTooLarge, "size %d exceeds %d", len(data), maxCorpusSize)
	}
	// Refs of another corpus must not reach into spare capacity.
	data = data[:len(data):len(data)]
	refs := make([]Ref, 0, bytes.Count(data, []byte{Separator})+1)
	start := 0
	for start < len(data) {
		end := bytes.IndexByte(data[start:], Separator)
		if end < 0 {
			end = len(data)
		} else {
			end += start
		}
		refs = append(refs, Ref{off: uint32(start), len: uint32(end - start)})
		start = end + 1
	}
	return &Corpus{data: data, refs: refs}, nil
}

// FromStrings builds a corpus holding ss in order.
func FromStrings(ss ...string) *Corpus {
	var buf bytes.Buffer
	for _, s := range ss {
		buf.WriteString(s)
		buf.WriteByte(Separator)
	}
	c, err := New(buf.Bytes())
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads the whole file at path and splits it into records. The file
// is decompressed according to its extension, see CompressTypeOf, and a
// leading UTF-8 byte order mark is dropped.
func Load(fs afero.Fs, path string) (_ *Corpus, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() {
		err = multierr.Append(err, errors.Trace(f.Close()))
	}()

	ct := CompressTypeOf(path)
	if ct == NoCompression {
		info, err := f.Stat()
		if err != nil {
			return nil, errors.Trace(err)
		}
		if info.Size() > maxCorpusSize {
			return nil, errors.Annotatef(ErrCorpusTooLarge, "file %s has %d bytes", path, info.Size())
		}
	}
	r, err := newCompressReader(ct, f)
	if err != nil {
		return nil, errors.Annotatef(err, "open %s as %s", path, ct)
	}
	defer func() {
		err = multierr.Append(err, errors.Trace(r.Close()))
	}()

	// One byte over the limit is enough for New to reject the corpus.
	data, err := io.ReadAll(io.LimitReader(bom.NewReader(r), maxCorpusSize+1))
	if err != nil {
		return nil, errors.Annotatef(err, "read %s", path)
	}
	return New(data)
}

// Len returns the number of records.
func (c *Corpus) Len() int { return len(c.refs) }

// Size returns the size of the buffer in bytes.
func (c *Corpus) Size() int { return len(c.data) }

// CheckCount verifies the corpus holds expected records. A negative expected
// disables the check.
func (c *Corpus) CheckCount(expected int) error {
	if expected < 0 || expected == len(c.refs) {
		return nil
	}
	return errors.Annotatef(ErrRecordCountMismatch, "expected %d records, got %d", expected, len(c.refs))
}

// Refs returns a fresh reference array in file order.
func (c *Corpus) Refs() []Ref {
	refs := make([]Ref, len(c.refs))
	copy(refs, c.refs)
	return refs
}

// Bytes returns the content of r. The result aliases the corpus buffer and
// must not be modified.
func (c *Corpus) Bytes(r Ref) []byte {
	return c.data[r.off : r.off+r.len : r.off+r.len]
}

// String returns the content of r without copying. The string aliases the
// corpus buffer.
func (c *Corpus) String(r Ref) string {
	if r.len == 0 {
		return ""
	}
	return unsafe.String(&c.data[r.off], int(r.len))
}

// Compare compares the content of a and b lexicographically byte-wise.
func (c *Corpus) Compare(a, b Ref) int {
	return bytes.Compare(c.Bytes(a), c.Bytes(b))
}

// Equal reports whether a and b have the same content.
func (c *Corpus) Equal(a, b Ref) bool {
	return bytes.Equal(c.Bytes(a), c.Bytes(b))
}
