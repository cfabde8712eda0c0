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
	"github.com/dgryski/go-farm"
	"github.com/pingcap/errors"
	"github.com/twmb/murmur3"
	"github.com/zeebo/xxh3"
)

// ErrUnknownHash is returned for an unregistered shard hash name.
var ErrUnknownHash = errors.New("unknown shard hash")

// DefaultShardHash is used when no shard hash is configured.
const DefaultShardHash = "murmur3"

// HashFunc hashes record content for sharding.
type HashFunc func(b []byte) uint64

var hashes = map[string]HashFunc{
	"murmur3": murmur3.Sum64,
	"xxh3":    xxh3.Hash,
	"farm":    farm.Fingerprint64,
}

// HashByName returns the shard hash called name. The empty name means
// DefaultShardHash.
func HashByName(name string) (HashFunc, error) {
	if name == "" {
		name = DefaultShardHash
	}
	h, ok := hashes[name]
	if !ok {
		return nil, errors.Annotatef(ErrUnknownHash, "%q", name)
	}
	return h, nil
}
