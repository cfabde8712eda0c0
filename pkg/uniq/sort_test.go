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

package uniq

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/pingcap/failpoint"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/stretchr/testify/require"
)

func strs(c *corpus.Corpus, refs []corpus.Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = c.String(r)
	}
	return out
}

// randomWords returns n words drawn from a vocabulary of vocab words whose
// lengths vary in [0, maxLen], so prefixes and empty strings show up.
func randomWords(rng *rand.Rand, n, vocab, maxLen int) []string {
	words := make([]string, vocab)
	for i := range words {
		b := make([]byte, rng.Intn(maxLen+1))
		for j := range b {
			b[j] = "abc"[rng.Intn(3)]
		}
		words[i] = string(b)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = words[rng.Intn(vocab)]
	}
	return out
}

func TestSortEdgeCases(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{}, []string{}},
		{[]string{"x"}, []string{"x"}},
		{[]string{"b", "a"}, []string{"a", "b"}},
		{[]string{"a", "b"}, []string{"a", "b"}},
		{[]string{"a", "a"}, []string{"a", "a"}},
		{[]string{"b", "a", "a"}, []string{"a", "a", "b"}},
		{[]string{"ab", "a", "", "b", "abc"}, []string{"", "a", "ab", "abc", "b"}},
		{[]string{"\xff", "\x00", "z"}, []string{"\x00", "z", "\xff"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			c := corpus.FromStrings(tt.in...)
			refs := c.Refs()
			NewSorter(c, SorterConfig{}).Sort(refs)
			require.Equal(t, tt.want, strs(c, refs))
		})
	}
}

func TestSortComparisons(t *testing.T) {
	c := corpus.FromStrings("b", "a")
	s := NewSorter(c, SorterConfig{})
	require.Equal(t, uint64(0), s.Sort(c.Refs()[:1]))
	require.Equal(t, uint64(1), s.Sort(c.Refs()))
	require.Equal(t, uint64(1), s.Comparisons())

	// n log n bound for the merge sort.
	rng := rand.New(rand.NewSource(1))
	c = corpus.FromStrings(randomWords(rng, 1024, 200, 6)...)
	s = NewSorter(c, SorterConfig{})
	cmps := s.Sort(c.Refs())
	require.Positive(t, cmps)
	require.LessOrEqual(t, cmps, uint64(1024*10))
}

func TestSortMatchesLibrarySort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, threshold := range []int{0, 2, 3, 16, 1000} {
		for _, n := range []int{0, 1, 2, 3, 7, 64, 513} {
			t.Run(fmt.Sprintf("threshold=%d/n=%d", threshold, n), func(t *testing.T) {
				words := randomWords(rng, n, 1+n/3, 5)
				c := corpus.FromStrings(words...)
				refs := c.Refs()
				NewSorter(c, SorterConfig{ParallelThreshold: threshold}).Sort(refs)

				want := make([]string, n)
				copy(want, words)
				sort.Strings(want)
				require.Equal(t, want, strs(c, refs))
			})
		}
	}
}

func TestSortKeepsReferences(t *testing.T) {
	c := corpus.FromStrings("c", "a", "b", "a")
	refs := c.Refs()
	NewSorter(c, SorterConfig{ParallelThreshold: 2}).Sort(refs)

	offsets := make([]int, 0, len(refs))
	for _, r := range refs {
		offsets = append(offsets, r.Offset())
	}
	sort.Ints(offsets)
	require.Equal(t, []int{0, 2, 4, 6}, offsets)
}

func TestNewSorterNeedsCorpus(t *testing.T) {
	require.Panics(t, func() { NewSorter(nil, SorterConfig{}) })
}

func TestSortPanicPropagates(t *testing.T) {
	c := corpus.FromStrings("a", "b")
	// Refs of a bigger corpus point out of c's buffer.
	refs := corpus.FromStrings("aaaa", "bbbb", "cccc", "dddd").Refs()
	s := NewSorter(c, SorterConfig{ParallelThreshold: 2})
	require.Panics(t, func() { s.Sort(refs) })
}

func TestSortFanOutFailpointPanic(t *testing.T) {
	require.NoError(t, failpoint.Enable(fpSortFanOutPanic, "return(true)"))
	defer func() {
		require.NoError(t, failpoint.Disable(fpSortFanOutPanic))
	}()

	c := corpus.FromStrings("d", "c", "b", "a")
	s := NewSorter(c, SorterConfig{ParallelThreshold: 2})
	require.PanicsWithValue(t, "panic is triggered by failpoint", func() { s.Sort(c.Refs()) })

	// Without the fan-out the failpoint is never reached.
	s = NewSorter(c, SorterConfig{})
	require.NotPanics(t, func() { s.Sort(c.Refs()) })
}
