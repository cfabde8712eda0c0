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

package mathutil

import (
	"math"
)

// ExponentialMovingAverage smooths a series of samples. The first warmupWindow
// samples are averaged arithmetically, later ones are blended in with factor.
// It is not thread-safe.
type ExponentialMovingAverage struct {
	value        float64
	sum          float64
	factor       float64
	warmupWindow int
	count        int
}

// NewExponentialMovingAverage creates an ExponentialMovingAverage. factor must be in (0, 1).
func NewExponentialMovingAverage(factor float64, warmupWindow int) *ExponentialMovingAverage {
	if factor >= 1 || factor <= 0 {
		panic("factor must be (0, 1)")
	}
	return &ExponentialMovingAverage{
		factor:       factor,
		warmupWindow: warmupWindow,
	}
}

// Add a single sample and update the internal state.
func (m *ExponentialMovingAverage) Add(value float64) {
	if m.count < m.warmupWindow {
		m.count++
		m.sum += value
		m.value = m.sum / float64(m.count)
		return
	}
	m.value = m.value*(1-m.factor) + value*m.factor
}

// Get the current value.
func (m *ExponentialMovingAverage) Get() float64 {
	return m.value
}

// Summary keeps min, max and mean of a series of samples.
type Summary struct {
	n   int
	sum float64
	min float64
	max float64
}

// Add records one sample.
func (s *Summary) Add(v float64) {
	if s.n == 0 {
		s.min, s.max = v, v
	} else {
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.n++
	s.sum += v
}

// Count returns the number of samples.
func (s *Summary) Count() int { return s.n }

// Sum returns the sum of all samples.
func (s *Summary) Sum() float64 { return s.sum }

// Min returns the smallest sample, 0 when empty.
func (s *Summary) Min() float64 { return s.min }

// Max returns the largest sample, 0 when empty.
func (s *Summary) Max() float64 { return s.max }

// Mean returns the arithmetic mean, 0 when empty.
func (s *Summary) Mean() float64 {
	if s.n == 0 {
		return 0
	}
	return s.sum / float64(s.n)
}
