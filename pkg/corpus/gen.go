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
	"bufio"
	"io"
	"math/rand"

	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

const genAlphabet = "abcdefghijklmnopqrstuvwxyz"

// GenConfig describes a synthetic corpus.
type GenConfig struct {
	// Records is the number of records to write.
	Records int `toml:"records" json:"records"`
	// Distinct is the size of the vocabulary records are drawn from.
	Distinct int `toml:"distinct" json:"distinct"`
	// MinLen and MaxLen bound the length of every vocabulary word.
	MinLen int `toml:"min-len" json:"min-len"`
	MaxLen int `toml:"max-len" json:"max-len"`
	// Seed makes the output reproducible.
	Seed int64 `toml:"seed" json:"seed"`
}

// DefaultGenConfig returns a GenConfig producing one million records.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Records:  1_000_000,
		Distinct: 100_000,
		MinLen:   4,
		MaxLen:   16,
		Seed:     1,
	}
}

func (cfg *GenConfig) validate() error {
	if cfg.Records < 0 {
		return errors.Errorf("records must not be negative, got %d", cfg.Records)
	}
	if cfg.Distinct < 1 {
		return errors.Errorf("distinct must be positive, got %d", cfg.Distinct)
	}
	if cfg.MinLen < 0 || cfg.MaxLen < cfg.MinLen {
		return errors.Errorf("invalid length range [%d, %d]", cfg.MinLen, cfg.MaxLen)
	}
	return nil
}

// Generate writes cfg.Records newline terminated records to w. Records are
// drawn uniformly from cfg.Distinct random lowercase words, so duplicates
// occur whenever Records > Distinct. Vocabulary words may collide when the
// length range is tiny.
func Generate(w io.Writer, cfg GenConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	vocab := make([][]byte, cfg.Distinct)
	for i := range vocab {
		n := cfg.MinLen
		if cfg.MaxLen > cfg.MinLen {
			n += rng.Intn(cfg.MaxLen - cfg.MinLen + 1)
		}
		word := make([]byte, n, n+1)
		for j := range word {
			word[j] = genAlphabet[rng.Intn(len(genAlphabet))]
		}
		vocab[i] = append(word, Separator)
	}

	bw := bufio.NewWriterSize(w, 1<<20)
	for i := 0; i < cfg.Records; i++ {
		if _, err := bw.Write(vocab[rng.Intn(len(vocab))]); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(bw.Flush())
}

// GenerateFile writes a synthetic corpus to path on fs, compressed
// according to the extension of path.
func GenerateFile(fs afero.Fs, path string, cfg GenConfig) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		err = multierr.Append(err, errors.Trace(f.Close()))
	}()
	w, err := newCompressWriter(CompressTypeOf(path), f)
	if err != nil {
		return err
	}
	if err := Generate(w, cfg); err != nil {
		return multierr.Append(err, w.Close())
	}
	return errors.Trace(w.Close())
}
