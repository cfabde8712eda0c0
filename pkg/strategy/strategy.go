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

// Package strategy holds the interchangeable ways of counting the distinct
// strings of a corpus. Every strategy answers the same question, so any two
// of them must report the same distinct count for the same input.
package strategy

import (
	"sort"
	"strconv"

	"github.com/pingcap/errors"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/uniq"
)

// ErrUnknownStrategy is returned by New for a name or id that is not registered.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy counts the distinct strings referenced by refs. It may reorder
// refs in place.
type Strategy interface {
	Name() string
	Count(c *corpus.Corpus, refs []corpus.Ref) (*uniq.Result, error)
}

// Config is shared by all strategies. Each strategy reads the fields it
// understands.
type Config struct {
	Partitions        int
	ParallelThreshold int
	Concurrency       int
	ShardHash         string
	Verify            bool
}

type builder struct {
	id    int
	build func(cfg Config) (Strategy, error)
}

var registry = map[string]builder{
	"merge":      {0, newMerge},
	"sorty":      {1, newSorty},
	"comparator": {2, newComparator},
	"btree":      {3, newBTree},
	"libsort":    {4, newLibSort},
	"hashmap":    {5, newHashMap},
	"sharded":    {6, newSharded},
	"rbtree":     {7, newRBTree},
	"avl":        {8, newAVLTree},
}

// Names returns the registered strategy names ordered by id.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return registry[names[i]].id < registry[names[j]].id })
	return names
}

// Lookup resolves a strategy name or numeric id to its name.
func Lookup(nameOrID string) (string, error) {
	if _, ok := registry[nameOrID]; ok {
		return nameOrID, nil
	}
	if id, err := strconv.Atoi(nameOrID); err == nil {
		for name, b := range registry {
			if b.id == id {
				return name, nil
			}
		}
	}
	return "", errors.Annotatef(ErrUnknownStrategy, "%q", nameOrID)
}

// New builds the strategy named by nameOrID.
func New(nameOrID string, cfg Config) (Strategy, error) {
	name, err := Lookup(nameOrID)
	if err != nil {
		return nil, err
	}
	if cfg.Partitions < 1 {
		cfg.Partitions = uniq.DefaultPartitions
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = cfg.Partitions
	}
	return registry[name].build(cfg)
}

// countSorted counts sorted refs as a single partition.
func countSorted(c *corpus.Corpus, refs []corpus.Ref, verify bool) (*uniq.Result, error) {
	counts := make([]int, len(refs))
	distinct := uniq.CountPartition(c, refs, counts)
	res := uniq.NewSortedResult(refs, counts, distinct)
	if verify {
		if err := uniq.Verify(c, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// checkUniques checks a hash based result: every record must be counted
// exactly once.
func checkUniques(c *corpus.Corpus, refs []corpus.Ref, res *uniq.Result) error {
	if total := res.Total(); total != len(refs) {
		return errors.Annotatef(uniq.ErrOracleMismatch, "counted %d of %d records", total, len(refs))
	}
	seen := make(map[string]struct{}, res.Distinct)
	for _, u := range res.Uniques() {
		s := c.String(u.Ref)
		if _, ok := seen[s]; ok {
			return errors.Annotatef(uniq.ErrOracleMismatch, "%q is reported twice", s)
		}
		seen[s] = struct{}{}
	}
	return nil
}
