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

// Package bench times a strategy over repeated passes on one corpus.
package bench

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/pingcap/errors"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/metrics"
	"github.com/pingcap/uniqstr/pkg/strategy"
	"github.com/pingcap/uniqstr/pkg/uniq"
	"github.com/pingcap/uniqstr/pkg/util/logutil"
	"github.com/pingcap/uniqstr/pkg/util/mathutil"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// ErrUnstableResult means two passes over the same corpus disagreed.
var ErrUnstableResult = errors.New("distinct count changed between iterations")

const (
	emaFactor       = 0.3
	emaWarmupWindow = 2
)

// Runner runs a strategy a fixed number of times.
type Runner struct {
	c          *corpus.Corpus
	st         strategy.Strategy
	iterations int
	progress   io.Writer
}

// NewRunner creates a Runner.
func NewRunner(c *corpus.Corpus, st strategy.Strategy, iterations int) *Runner {
	if iterations < 1 {
		iterations = 1
	}
	return &Runner{c: c, st: st, iterations: iterations}
}

// SetProgressWriter makes Run draw a progress bar over the passes on w.
func (r *Runner) SetProgressWriter(w io.Writer) {
	r.progress = w
}

// Run times every pass and returns the report. Cancellation is checked
// between passes.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	name := r.st.Name()
	rep := newReport(name, r.c)
	ctx = logutil.WithFields(logutil.WithStrategy(ctx, name), zap.String("run-id", rep.RunID))
	logger := logutil.Logger(ctx)
	if r.progress != nil {
		bar := pb.New(r.iterations).SetWriter(r.progress).Start()
		defer bar.Finish()
		rep.onAdd = func() { bar.Increment() }
	}
	for i := 0; i < r.iterations; i++ {
		select {
		case <-ctx.Done():
			return nil, errors.Trace(ctx.Err())
		default:
		}

		refs := r.c.Refs()
		start := time.Now()
		res, err := r.st.Count(r.c, refs)
		d := time.Since(start)
		if err != nil {
			if errors.Cause(err) == uniq.ErrOracleMismatch {
				metrics.OracleFailureCounter.WithLabelValues(name).Inc()
			}
			return nil, errors.Annotatef(err, "iteration %d", i)
		}
		if i > 0 && res.Distinct != rep.Distinct {
			return nil, errors.Annotatef(ErrUnstableResult, "iteration %d found %d, previous %d", i, res.Distinct, rep.Distinct)
		}
		rep.add(d, res)
		metrics.ObserveIteration(name, d, r.c.Size(), r.c.Len(), res.Distinct)
		logger.Debug("iteration finished",
			zap.Int(logutil.LogFieldIteration, i),
			zap.Duration("duration", d),
			zap.Int("distinct", res.Distinct))
	}
	rep.RSS = processRSS()
	logger.Info("benchmark finished",
		zap.Int("iterations", r.iterations),
		zap.Duration("mean", rep.Mean()),
		zap.Int("distinct", rep.Distinct))
	return rep, nil
}

// Report summarizes the passes of one run.
type Report struct {
	RunID     string
	Strategy  string
	Records   int
	Bytes     int
	Durations []time.Duration
	Distinct  int
	// Result is the result of the last pass.
	Result *uniq.Result
	// RSS is the resident set size of the process after the run, 0 if
	// unknown.
	RSS uint64

	summary mathutil.Summary
	ema     *mathutil.ExponentialMovingAverage
	onAdd   func()
}

func newReport(name string, c *corpus.Corpus) *Report {
	return &Report{
		RunID:    uuid.NewString(),
		Strategy: name,
		Records:  c.Len(),
		Bytes:    c.Size(),
		ema:      mathutil.NewExponentialMovingAverage(emaFactor, emaWarmupWindow),
	}
}

func (rep *Report) add(d time.Duration, res *uniq.Result) {
	rep.Durations = append(rep.Durations, d)
	rep.Distinct = res.Distinct
	rep.Result = res
	rep.summary.Add(float64(d))
	rep.ema.Add(float64(d))
	if rep.onAdd != nil {
		rep.onAdd()
	}
}

func processRSS() uint64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return 0
	}
	return mem.RSS
}

// Iterations returns the number of recorded passes.
func (rep *Report) Iterations() int { return rep.summary.Count() }

// Mean returns the average pass duration.
func (rep *Report) Mean() time.Duration { return time.Duration(rep.summary.Mean()) }

// Min returns the fastest pass duration.
func (rep *Report) Min() time.Duration { return time.Duration(rep.summary.Min()) }

// Max returns the slowest pass duration.
func (rep *Report) Max() time.Duration { return time.Duration(rep.summary.Max()) }

// EMA returns the exponential moving average of the pass durations.
func (rep *Report) EMA() time.Duration { return time.Duration(rep.ema.Get()) }

// MBPerSec returns the corpus megabytes processed per second at the mean
// pass duration.
func (rep *Report) MBPerSec() float64 {
	mean := rep.Mean()
	if mean <= 0 {
		return 0
	}
	return float64(rep.Bytes) / (1 << 20) / mean.Seconds()
}
