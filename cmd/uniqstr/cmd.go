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

package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/fatih/color"
	_ "github.com/go-sql-driver/mysql"
	"github.com/pingcap/errors"
	"github.com/pingcap/uniqstr/pkg/bench"
	"github.com/pingcap/uniqstr/pkg/config"
	"github.com/pingcap/uniqstr/pkg/corpus"
	"github.com/pingcap/uniqstr/pkg/metrics"
	"github.com/pingcap/uniqstr/pkg/strategy"
	"github.com/pingcap/uniqstr/pkg/util/logutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCommand() *cobra.Command {
	conf := config.DefaultConfig()
	command := &cobra.Command{
		Use:   "run [flags] [input-file]",
		Short: "count the distinct strings of a file or a SQL query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			if err := conf.ParseFromFlags(command.Flags()); err != nil {
				return err
			}
			if len(args) > 0 {
				conf.Input = args[0]
			}
			if err := logutil.InitLogger(&conf.Log); err != nil {
				return err
			}
			var progress io.Writer
			if conf.Progress {
				progress = command.ErrOrStderr()
			}
			return runBenchmark(command.Context(), conf, afero.NewOsFs(), command.OutOrStdout(), progress)
		},
	}
	conf.DefineFlags(command.Flags())
	return command
}

// openDB is replaced in tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("mysql", dsn)
}

// loadCorpus reads the corpus from conf.Input or from conf.SQLQuery.
func loadCorpus(ctx context.Context, conf *config.Config, fs afero.Fs) (*corpus.Corpus, error) {
	if conf.SQLDSN == "" {
		return corpus.Load(fs, conf.Input)
	}
	db, err := openDB(conf.SQLDSN)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logutil.Logger(ctx).Warn("close database failed", zap.Error(err))
		}
	}()
	return corpus.LoadSQL(ctx, db, conf.SQLQuery)
}

func sourceName(conf *config.Config) string {
	if conf.SQLDSN != "" {
		return "sql"
	}
	return conf.Input
}

// runBenchmark loads the corpus, runs the configured strategy and writes the
// report to out. A nil progress writer disables the progress bar.
func runBenchmark(ctx context.Context, conf *config.Config, fs afero.Fs, out, progress io.Writer) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	if err := conf.CheckSource(); err != nil {
		return err
	}
	c, err := loadCorpus(ctx, conf, fs)
	if err != nil {
		return err
	}
	if err := c.CheckCount(conf.ExpectedRecords); err != nil {
		return err
	}
	st, err := strategy.New(conf.Strategy, conf.StrategyConfig())
	if err != nil {
		return err
	}
	logutil.Logger(ctx).Info("corpus loaded",
		zap.String("input", sourceName(conf)),
		zap.Int("records", c.Len()),
		zap.Int("bytes", c.Size()),
		zap.String(logutil.LogFieldStrategy, st.Name()))

	registry := prometheus.NewRegistry()
	metrics.RegisterMetrics(registry)

	runner := bench.NewRunner(c, st, conf.Iterations)
	if progress != nil {
		runner.SetProgressWriter(progress)
	}
	rep, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rep.Render())
	if conf.Verify {
		color.New(color.FgGreen).Fprintln(out, "reference check: passed")
	} else {
		color.New(color.FgYellow).Fprintln(out, "reference check: skipped")
	}
	if conf.Top > 0 {
		fmt.Fprintln(out, bench.RenderTop(c, bench.TopK(c, rep.Result, conf.Top)))
	}
	if conf.PrintUniques {
		if err := bench.WriteUniques(out, c, rep.Result); err != nil {
			return err
		}
	}
	if conf.MetricsFile != "" {
		if err := metrics.WriteTextfile(conf.MetricsFile, registry); err != nil {
			return errors.Annotate(err, "write metrics")
		}
	}
	return nil
}

func newGenCommand() *cobra.Command {
	cfg := corpus.DefaultGenConfig()
	command := &cobra.Command{
		Use:   "gen [flags] <output-file>",
		Short: "write a synthetic corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			if err := corpus.GenerateFile(afero.NewOsFs(), args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), "wrote %d records to %s\n", cfg.Records, args[0])
			return nil
		},
	}
	flags := command.Flags()
	flags.IntVarP(&cfg.Records, "records", "n", cfg.Records, "Number of records")
	flags.IntVarP(&cfg.Distinct, "distinct", "d", cfg.Distinct, "Vocabulary size")
	flags.IntVar(&cfg.MinLen, "min-len", cfg.MinLen, "Shortest word length")
	flags.IntVar(&cfg.MaxLen, "max-len", cfg.MaxLen, "Longest word length")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	return command
}
