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
	"github.com/pingcap/errors"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/uniq"
	"github.com/pingcap/uniqstr/pkg/util"
	"github.com/pingcap/uniqstr/pkg/util/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// sharded counts in two phases. Partial workers split their chunk of refs
// by content hash, then final workers each own one shard and count it into
// a private map. Equal strings always land in the same shard, so the shard
// results are disjoint.
type sharded struct {
	workers  int
	hash     HashFunc
	hashName string
	verify   bool
}

func newSharded(cfg Config) (Strategy, error) {
	h, err := HashByName(cfg.ShardHash)
	if err != nil {
		return nil, err
	}
	name := cfg.ShardHash
	if name == "" {
		name = DefaultShardHash
	}
	return &sharded{workers: cfg.Concurrency, hash: h, hashName: name, verify: cfg.Verify}, nil
}

func (*sharded) Name() string { return "sharded" }

func recoverTo(err *error) {
	if r := recover(); r != nil {
		util.ProcessPanicAndLog(func(e error) { *err = e }, r)
	}
}

func (st *sharded) Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error) {
	workers := st.workers
	if workers < 1 {
		workers = 1
	}
	chunk := (len(refs) + workers - 1) / workers

	// buckets[w][s] holds the refs of chunk w that hash to shard s.
	buckets := make([][][]corpus.Ref, workers)
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		lo := min(w*chunk, len(refs))
		hi := min(lo+chunk, len(refs))
		eg.Go(func() (err error) {
			defer recoverTo(&err)
			local := make([][]corpus.Ref, workers)
			for _, r := range refs[lo:hi] {
				s := st.hash(c.Bytes(r)) % uint64(workers)
				local[s] = append(local[s], r)
			}
			buckets[w] = local
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.Trace(err)
	}

	shards := make([][]uniq.Unique, workers)
	for s := 0; s < workers; s++ {
		eg.Go(func() (err error) {
			defer recoverTo(&err)
			m := swiss.NewMap[string, int](uint32(chunk/4 + 1))
			var uniques []uniq.Unique
			for w := range buckets {
				uniques = countInto(c, buckets[w][s], uniques, m)
			}
			shards[s] = uniques
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.Trace(err)
	}

	total := 0
	for _, u := range shards {
		total += len(u)
	}
	uniques := make([]uniq.Unique, 0, total)
	for _, u := range shards {
		uniques = append(uniques, u...)
	}
	res := uniq.NewUniquesResult(uniques)
	if st.verify {
		if err := checkUniques(c, refs, res); err != nil {
			return nil, err
		}
	}
	logutil.BgLogger().Debug("sharded count finished",
		zap.String("hash", st.hashName),
		zap.Int("shards", workers),
		zap.Int("distinct", res.Distinct))
	return res, nil
}
