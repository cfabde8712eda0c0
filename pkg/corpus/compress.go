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
	"io"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pingcap/errors"
)

// CompressType is the compression of a corpus file.
type CompressType int

const (
	// NoCompression means a plain file.
	NoCompression CompressType = iota
	// Gzip is gzip compression.
	Gzip
	// Snappy is snappy framed compression.
	Snappy
	// Zstd is zstandard compression.
	Zstd
)

// CompressTypeOf picks the compression from the file extension.
func CompressTypeOf(path string) CompressType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".snappy", ".sz":
		return Snappy
	case ".zst", ".zstd":
		return Zstd
	default:
		return NoCompression
	}
}

func (ct CompressType) String() string {
	switch ct {
	case Gzip:
		return "gzip"
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

func newCompressReader(ct CompressType, r io.Reader) (io.ReadCloser, error) {
	switch ct {
	case Gzip:
		z, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return z, nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case Zstd:
		// Decode on the calling goroutine.
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, errors.Trace(err)
		}
		return readCloser{Reader: d, close: func() error { d.Close(); return nil }}, nil
	default:
		return io.NopCloser(r), nil
	}
}

func newCompressWriter(ct CompressType, w io.Writer) (io.WriteCloser, error) {
	switch ct {
	case Gzip:
		return gzip.NewWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case Zstd:
		e, err := zstd.NewWriter(w)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return e, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
